package tlvarc

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseSearchOutcomeMultipleTiks(t *testing.T) {
	doc := parseDoc(t, `
		<div class="results">
			<a countlinkstblfolderlink href="/pages/results.aspx?owstikid=0338">0338</a>
			<a countlinkstblfolderlink href="/pages/results.aspx?owstikid=0339">0339</a>
		</div>
	`)

	outcome, err := parseSearchOutcome(doc)
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, outcome.NoResults)
	require.Equal(t, []string{"0338", "0339"}, outcome.TikIds)
}

func TestParseSearchOutcomeSingleTik(t *testing.T) {
	doc := parseDoc(t, `
		<ul class="bread">
			<li>ארכיון</li>
			<li class="bread_last">תיק מספר 04250338</li>
		</ul>
	`)

	outcome, err := parseSearchOutcome(doc)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{"04250338"}, outcome.TikIds)
}

func TestParseSearchOutcomeNoResults(t *testing.T) {
	doc := parseDoc(t, `
		<div><div><p><strong>לא נמצאו תיקי בניין התואמים את החיפוש</strong></p></div></div>
	`)

	outcome, err := parseSearchOutcome(doc)
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, outcome.NoResults)
	require.Empty(t, outcome.TikIds)
}

func TestParseSearchOutcomeUnknown(t *testing.T) {
	doc := parseDoc(t, `<div><p>something unexpected</p></div>`)

	_, err := parseSearchOutcome(doc)
	require.ErrorIs(t, err, ErrUnknownOutcome)
}

const tikPageFixture = `
	<h3><span>נמצאו 3 מסמכים</span></h3>
	<div class="blocks"><ul>
		<li>6638/1234</li>
		<li>6638/1235</li>
	</ul></div>
	<div class="addresses"><ul>
		<li>הרצל 10</li>
		<li>הרצל 12</li>
	</ul></div>
	<table>
		<tr class="row draggable">
			<td>01/02/1965</td><td>היתר בניה</td><td></td><td>123</td>
			<td>456</td><td>2.4MB</td><td></td><td documentid="04250338-001.pdf"></td>
		</tr>
		<tr class="row draggable">
			<td>03/04/1978</td><td>תכנית</td><td></td><td>789</td>
			<td>012</td><td>0.8MB</td><td></td><td documentid="04250338-002.pdf"></td>
		</tr>
	</table>
	<ul class="pager"><li aria-label="לעמוד הבא"><a href="?PageIndex=1"></a></li></ul>
`

func TestParseTikPage(t *testing.T) {
	page := parseTikPage(parseDoc(t, tikPageFixture), 1)

	require.Equal(t, 3, page.webCount)
	require.Equal(t, []string{"6638/1234", "6638/1235"}, page.multipleGushChelka)
	require.Equal(t, []string{"הרצל 10", "הרצל 12"}, page.addresses)
	require.True(t, page.hasNext)

	require.Len(t, page.documents, 2)
	first := page.documents[0]
	require.Equal(t, "01/02/1965", first.Date)
	require.Equal(t, "היתר בניה", first.Type)
	require.Equal(t, "123", first.Request)
	require.Equal(t, "456", first.Permit)
	require.Equal(t, "2.4MB", first.Size)
	require.Equal(t, "04250338-001.pdf", first.Id)
	require.Equal(t, 1, first.Page)
	require.Equal(t, 1, first.Row)
	require.Equal(t, 2, page.documents[1].Row)
}

func TestParseTikPageLastPage(t *testing.T) {
	doc := parseDoc(t, `
		<h3><span>נמצאו 1 מסמכים</span></h3>
		<table>
			<tr class="row draggable">
				<td>01/02/1965</td><td>היתר בניה</td><td></td><td></td>
				<td></td><td>1.1MB</td><td></td><td documentid="x.pdf"></td>
			</tr>
		</table>
	`)

	page := parseTikPage(doc, 1)
	require.False(t, page.hasNext)
	require.Len(t, page.documents, 1)
	// a lone entry means the parcel is not shared, the site renders
	// the list anyway
	require.Nil(t, page.multipleGushChelka)
}

func TestParseTikPageRowWithoutDocument(t *testing.T) {
	doc := parseDoc(t, `
		<table>
			<tr class="row draggable">
				<td>01/02/1965</td><td>שונות</td><td></td><td></td>
				<td></td><td></td><td></td><td></td>
			</tr>
		</table>
	`)

	page := parseTikPage(doc, 1)
	require.Empty(t, page.documents)
}
