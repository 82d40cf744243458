package tlvarc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://archive-binyan.tel-aviv.gov.il"

// the site can take a very long time to serve large scans; this matches
// the wait the original operators ran with.
const DefaultTimeout = time.Second * 120

// the largest tiks hold a few hundred documents over a handful of
// pages; anything past this is the pager lying to us
const maxTikPages = 100

var ErrUnknownOutcome = errors.New("search gave neither tik ids nor a no-results message")

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	// zero means DefaultTimeout
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(timeout)

	instrument(client)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

func (c *Client) getDocument(ctx context.Context, path string, query url.Values) (*goquery.Document, error) {
	req := c.Http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get(path)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// Open fetches the homepage and follows the archive's usage-policy
// continue link so the session cookie is marked as accepted. It also
// clicks through the security interstitial when one shows up.
func (c *Client) Open(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Open")
	defer span.End()

	doc, err := c.getDocument(ctx, "/", nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch homepage")
		return err
	}

	proceed := doc.Find("button#proceed-button").Closest("form").AttrOr("action", "")
	if proceed != "" {
		res, err := c.Http.R().SetContext(ctx).Post(proceed)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to pass security interstitial")
			return err
		}
		doc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			return err
		}
	}

	continueHref := doc.Find("a.arc-button-big").AttrOr("href", "")
	if continueHref == "" {
		span.SetStatus(codes.Error, "could not find accept policy continue link")
		return fmt.Errorf("could not find accept policy continue link")
	}
	_, err = c.Http.R().SetContext(ctx).Get(continueHref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to follow accept policy link")
		return err
	}
	return nil
}

// Search submits the gush/chelka search form for a parcel and classifies
// the outcome.
func (c *Client) Search(ctx context.Context, p Parcel) (SearchOutcome, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	doc, err := c.getDocument(ctx, "/", nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search form")
		return SearchOutcome{}, err
	}

	form := doc.Find("input#search_blocks_input").Closest("form")
	if len(form.Nodes) == 0 {
		span.SetStatus(codes.Error, "could not find gush input box")
		return SearchOutcome{}, fmt.Errorf("could not find gush/chelka search form")
	}
	action := form.AttrOr("action", "/pages/results.aspx")

	resultDoc, err := c.getDocument(ctx, action, url.Values{
		"search_blocks_input":  {p.Gush},
		"search_parcels_input": {p.Chelka},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit search")
		return SearchOutcome{}, err
	}

	outcome, err := parseSearchOutcome(resultDoc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to classify search outcome")
	}
	return outcome, err
}

// Tik walks all result pages of a building case file and collects its
// document table.
func (c *Client) Tik(ctx context.Context, tikId string) (Listing, error) {
	ctx, span := tracer.Start(ctx, "client:Tik")
	defer span.End()

	listing := Listing{TikId: tikId}

	for pageIdx := 0; ; pageIdx++ {
		query := url.Values{"owstikid": {tikId}}
		if pageIdx > 0 {
			query.Set("PageIndex", fmt.Sprint(pageIdx))
		}
		doc, err := c.getDocument(ctx, "/pages/results.aspx", query)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch tik page")
			return listing, err
		}

		page := parseTikPage(doc, pageIdx+1)
		if pageIdx == 0 {
			listing.WebCount = page.webCount
			listing.MultipleGushChelka = page.multipleGushChelka
			listing.Addresses = page.addresses
		}
		listing.Documents = append(listing.Documents, page.documents...)

		if !page.hasNext {
			break
		}
		// the site paginates forever on bogus indexes; never trust it
		// past the reported count
		if listing.WebCount > 0 && len(listing.Documents) >= listing.WebCount {
			break
		}
		// when the count header is unreadable the pager is the only
		// stop signal left, and it cannot be trusted either
		if len(page.documents) == 0 {
			break
		}
		if pageIdx+1 >= maxTikPages {
			break
		}
	}

	return listing, nil
}

// Download streams a document into dir, named by its site document id.
// Returns the file path and whether the file was already there.
func (c *Client) Download(ctx context.Context, doc Document, dir string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "client:Download")
	defer span.End()

	path := filepath.Join(dir, doc.Id)
	if _, err := os.Stat(path); err == nil {
		return path, true, nil
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", false, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("documentid", doc.Id).
		SetOutput(path).
		Get("/pages/download.aspx")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to download document")
		return "", false, err
	}
	if res.StatusCode() >= 400 {
		os.Remove(path)
		err := fmt.Errorf("document download returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad download status")
		return "", false, err
	}
	return path, false, nil
}

func (c *Client) Close() {}
