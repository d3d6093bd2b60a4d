// Package duckduckgo implements a search provider that scrapes the
// DuckDuckGo lite HTML interface. No API key is required.
//
// The lite page is the most stable surface DuckDuckGo offers for scraping;
// extraction is tested against fixture HTML so markup drift shows up as a
// test failure rather than silently empty results.
package duckduckgo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/rhuss/suche/pkg/api"
)

// Name is the provider identifier.
const Name = "duckduckgo"

// defaultEndpoint is the DuckDuckGo lite search page.
const defaultEndpoint = "https://lite.duckduckgo.com/lite/"

// userAgent mimics a desktop browser; the lite page rejects obvious bots.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// limiter enforces one query per second across all Provider instances and
// goroutines, since every instance hits the same unauthenticated endpoint.
var limiter = rate.NewLimiter(rate.Every(time.Second), 1)

// Provider scrapes the DuckDuckGo lite page.
type Provider struct {
	HTTPClient *http.Client

	// Endpoint overrides the lite page URL, used by tests.
	Endpoint string
}

// New creates a DuckDuckGo provider.
func New() *Provider {
	return &Provider{HTTPClient: http.DefaultClient, Endpoint: defaultEndpoint}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return Name }

// Search posts the query to the lite page and parses the result table.
func (p *Provider) Search(ctx context.Context, params api.SearchParams) ([]api.RawResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, errors.New("duckduckgo: query is empty")
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	form := url.Values{}
	form.Set("q", params.Query)
	if params.Recency != "" && params.Recency != api.RecencyAll {
		form.Set("df", dateFilter(params.Recency))
	}
	if params.Language != "" {
		form.Set("kl", params.Language)
	}
	if params.SafeSearch {
		form.Set("kp", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing result page: %w", err)
	}

	return parseResults(doc), nil
}

// parseResults extracts results from the lite page's table layout. Result
// links and snippets appear as parallel sequences of a.result-link anchors
// and td.result-snippet cells, in document order.
func parseResults(doc *goquery.Document) []api.RawResult {
	links := doc.Find("a.result-link")
	snippets := doc.Find("td.result-snippet")

	results := make([]api.RawResult, 0, links.Length())
	links.Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		snippet := ""
		if i < snippets.Length() {
			snippet = strings.TrimSpace(snippets.Eq(i).Text())
		}
		results = append(results, api.RawResult{
			Title:   strings.TrimSpace(sel.Text()),
			URL:     cleanRedirect(href),
			Snippet: snippet,
			Source:  Name,
		})
	})
	return results
}

// cleanRedirect unwraps DuckDuckGo's redirect links, which carry the target
// in the uddg query parameter. Non-redirect URLs are returned unchanged.
func cleanRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// dateFilter maps the recency filter onto the lite page's df parameter.
func dateFilter(recency string) string {
	switch recency {
	case api.RecencyDay:
		return "d"
	case api.RecencyWeek:
		return "w"
	case api.RecencyMonth:
		return "m"
	case api.RecencyYear:
		return "y"
	default:
		return ""
	}
}
