// Package tavily implements a search provider backed by the Tavily API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/suche/pkg/api"
)

// Name is the provider identifier.
const Name = "tavily"

// defaultEndpoint is the production Tavily search endpoint.
const defaultEndpoint = "https://api.tavily.com/search"

// Provider posts queries to the Tavily API.
type Provider struct {
	APIKey     string
	HTTPClient *http.Client

	// Depth controls Tavily's search depth: "basic" or "advanced".
	Depth string

	// Endpoint overrides the API URL, used by tests.
	Endpoint string
}

// New constructs a Tavily provider. An empty depth defaults to "basic".
func New(apiKey, depth string) *Provider {
	if depth == "" {
		depth = "basic"
	}
	return &Provider{
		APIKey:     apiKey,
		Depth:      depth,
		HTTPClient: http.DefaultClient,
		Endpoint:   defaultEndpoint,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return Name }

type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

// Search posts a query to Tavily. A 429 is retried with exponential backoff
// capped at 30 seconds until the context expires.
func (p *Provider) Search(ctx context.Context, params api.SearchParams) ([]api.RawResult, error) {
	if strings.TrimSpace(p.APIKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}

	body := map[string]any{
		"query":        params.Query,
		"api_key":      p.APIKey,
		"search_depth": p.Depth,
		"max_results":  params.MaxResults,
	}
	if d := recencyDays(params.Recency); d > 0 {
		body["days"] = d
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = p.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var response tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]api.RawResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, api.RawResult{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       r.Content,
			Source:        Name,
			PublishedDate: r.PublishedDate,
			Score:         r.Score,
		})
	}
	return results, nil
}

// recencyDays maps the recency filter onto Tavily's "days" parameter.
func recencyDays(recency string) int {
	switch recency {
	case api.RecencyDay:
		return 1
	case api.RecencyWeek:
		return 7
	case api.RecencyMonth:
		return 30
	case api.RecencyYear:
		return 365
	default:
		return 0
	}
}
