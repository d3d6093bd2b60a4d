// Package searxng implements a search provider backed by a SearXNG
// instance's JSON API.
package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/rhuss/suche/pkg/api"
)

// Name is the provider identifier.
const Name = "searxng"

// htmlTagRegex matches HTML tags for stripping from titles and snippets.
var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// Provider queries a SearXNG instance.
type Provider struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a SearXNG provider for the given base URL.
func New(baseURL string) *Provider {
	return &Provider{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return Name }

// searxngResponse represents the JSON response from SearXNG.
type searxngResponse struct {
	Results []searxngResult `json:"results"`
}

// searxngResult represents a single result from SearXNG.
type searxngResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"publishedDate"`
	Score         float64 `json:"score"`
}

// Search queries the SearXNG instance and maps its results.
func (p *Provider) Search(ctx context.Context, params api.SearchParams) ([]api.RawResult, error) {
	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("format", "json")
	q.Set("categories", "general")
	if tr := timeRange(params.Recency); tr != "" {
		q.Set("time_range", tr)
	}
	if params.Language != "" {
		q.Set("language", params.Language)
	}
	if params.SafeSearch {
		q.Set("safesearch", "1")
	}

	searchURL := p.BaseURL + "/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searxng returned status %d", resp.StatusCode)
	}

	var sr searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := make([]api.RawResult, 0, len(sr.Results))
	for _, r := range sr.Results {
		results = append(results, api.RawResult{
			Title:         stripHTML(r.Title),
			URL:           r.URL,
			Snippet:       stripHTML(r.Content),
			Source:        Name,
			PublishedDate: r.PublishedDate,
			Score:         r.Score,
		})
	}

	return results, nil
}

// timeRange maps the recency filter onto SearXNG's time_range parameter.
// SearXNG has no "all" range; it is expressed by omitting the parameter.
func timeRange(recency string) string {
	switch recency {
	case api.RecencyDay, api.RecencyWeek, api.RecencyMonth, api.RecencyYear:
		return recency
	default:
		return ""
	}
}

// stripHTML removes HTML tags from text.
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagRegex.ReplaceAllString(s, ""))
}
