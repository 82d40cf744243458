package tlvarc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"tlvarchive/lib/telemetry"
)

const homepageFixture = `
	<a class="arc-button-big" href="/accept">המשך</a>
	<form action="/pages/results.aspx">
		<select class="search-methods"><option>גוש חלקה</option></select>
		<input id="search_blocks_input" />
		<input id="search_parcels_input" />
	</form>
`

func newArchiveServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(homepageFixture))
	})
	mux.HandleFunc("/accept", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div>search page</div>`))
	})
	mux.HandleFunc("/pages/results.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("owstikid") != "" {
			w.Write([]byte(`
				<h3><span>נמצאו 1 מסמכים</span></h3>
				<table><tr class="row draggable">
					<td>01/02/1965</td><td>היתר בניה</td><td></td><td>123</td>
					<td>456</td><td>2.4MB</td><td></td><td documentid="doc-001.pdf"></td>
				</tr></table>
			`))
			return
		}
		w.Write([]byte(`
			<ul><li class="bread_last">תיק מספר 04250338</li></ul>
		`))
	})
	mux.HandleFunc("/pages/download.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("documentid") != "doc-001.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4 fake"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/tlvarc")
	defer cleanup()

	server := newArchiveServer(t)
	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	err = client.Open(ctx)
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := client.Search(ctx, Parcel{TatRova: "6638", Gush: "1234", Chelka: "56"})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{"04250338"}, outcome.TikIds)

	listing, err := client.Tik(ctx, outcome.TikIds[0])
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, listing.WebCount)
	require.Len(t, listing.Documents, 1)

	dir := t.TempDir()
	path, existed, err := client.Download(ctx, listing.Documents[0], dir)
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, existed)
	require.Equal(t, filepath.Join(dir, "doc-001.pdf"), path)

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "%PDF-1.4 fake", string(contents))

	// second download of the same document is a no-op
	_, existed, err = client.Download(ctx, listing.Documents[0], dir)
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, existed)
}

func TestClientBadDownload(t *testing.T) {
	server := newArchiveServer(t)
	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	_, _, err = client.Download(context.Background(), Document{Id: "missing.pdf"}, dir)
	require.Error(t, err)

	// no partial file may be left behind
	_, statErr := os.Stat(filepath.Join(dir, "missing.pdf"))
	require.True(t, os.IsNotExist(statErr))
}

func TestClientTikPagerNeverStops(t *testing.T) {
	// no count header, a next-page link on every page
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/pages/results.aspx", func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`
			<table><tr class="row draggable">
				<td>01/02/1965</td><td>היתר בניה</td><td></td><td>123</td>
				<td>456</td><td>2.4MB</td><td></td><td documentid="doc.pdf"></td>
			</tr></table>
			<ul><li aria-label="לעמוד הבא"><a href="?PageIndex=1"></a></li></ul>
		`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	listing, err := client.Tik(context.Background(), "04250338")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, maxTikPages, requests)
	require.Len(t, listing.Documents, maxTikPages)
}

func TestClientTikEmptyPageStops(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/pages/results.aspx", func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`
			<table></table>
			<ul><li aria-label="לעמוד הבא"><a href="?PageIndex=1"></a></li></ul>
		`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	listing, err := client.Tik(context.Background(), "04250338")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, requests)
	require.Empty(t, listing.Documents)
}
