package tlvarc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"tlvarchive/lib/htmlutil"
)

// the site is Hebrew-only; these markers are part of its external
// contract and just as version-fragile as its selectors
const (
	foundMarker     = "נמצאו"
	tikNumberMarker = "תיק מספר"
	noResultsMarker = "לא נמצאו תיקי בניין"
)

var digitsRegex = regexp.MustCompile(`(\d+)`)

// column order of a tik's document table
const (
	dateColumn    = 0
	typeColumn    = 1
	requestColumn = 3
	permitColumn  = 4
	sizeColumn    = 5
	pdfColumn     = 7
)

func parseSearchOutcome(doc *goquery.Document) (SearchOutcome, error) {
	// parcels covered by several tiks render a folder link per tik
	var tikIds []string
	doc.Find("a[countlinkstblfolderlink][href]").Each(func(_ int, a *goquery.Selection) {
		tikIds = append(tikIds, htmlutil.CleanText(htmlutil.GetText(a.Nodes[0])))
	})
	if len(tikIds) > 0 {
		return SearchOutcome{TikIds: tikIds}, nil
	}

	// a single tik redirects straight to its results page; the tik id
	// only shows up in the breadcrumb
	bread := doc.Find("li.bread_last")
	if len(bread.Nodes) > 0 {
		text := htmlutil.GetText(bread.Nodes[0])
		if strings.Contains(text, tikNumberMarker) {
			if m := digitsRegex.FindStringSubmatch(text); m != nil {
				return SearchOutcome{TikIds: []string{m[1]}}, nil
			}
		}
	}

	var noResults bool
	doc.Find("div div p strong").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(htmlutil.GetText(s.Nodes[0]), noResultsMarker) {
			noResults = true
		}
	})
	if noResults {
		return SearchOutcome{NoResults: true}, nil
	}

	return SearchOutcome{}, ErrUnknownOutcome
}

type tikPage struct {
	webCount           int
	multipleGushChelka []string
	addresses          []string
	documents          []Document
	hasNext            bool
}

func parseTikPage(doc *goquery.Document, pageNumber int) tikPage {
	page := tikPage{
		webCount:           parseWebCount(doc),
		multipleGushChelka: parseItemList(doc, "div.blocks ul li"),
		addresses:          parseItemList(doc, "div.addresses ul li"),
	}

	doc.Find("tr.row.draggable").Each(func(row int, tr *goquery.Selection) {
		document := Document{Page: pageNumber, Row: row + 1}
		found := false
		tr.Find("td").Each(func(col int, td *goquery.Selection) {
			text := htmlutil.CleanText(htmlutil.GetText(td.Nodes[0]))
			switch col {
			case dateColumn:
				document.Date = text
			case typeColumn:
				document.Type = text
			case requestColumn:
				document.Request = text
			case permitColumn:
				document.Permit = text
			case sizeColumn:
				document.Size = text
			case pdfColumn:
				document.Id = td.AttrOr("documentid", "")
				found = document.Id != ""
			}
		})
		if found {
			page.documents = append(page.documents, document)
		}
	})

	next := doc.Find(`li[aria-label="לעמוד הבא"] a`)
	page.hasNext = len(next.Nodes) > 0

	return page
}

func parseWebCount(doc *goquery.Document) int {
	header := doc.Find("h3 span")
	if len(header.Nodes) == 0 {
		return 0
	}
	text := htmlutil.GetText(header.Nodes[0])
	if !strings.Contains(text, foundMarker) {
		return 0
	}
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return count
}

// returns the list only when the site shows more than one entry,
// mirroring how the archive renders shared-parcel tiks
func parseItemList(doc *goquery.Document, selector string) []string {
	var items []string
	doc.Find(selector).Each(func(_ int, li *goquery.Selection) {
		items = append(items, htmlutil.CleanText(htmlutil.GetText(li.Nodes[0])))
	})
	if len(items) > 1 {
		return items
	}
	return nil
}
