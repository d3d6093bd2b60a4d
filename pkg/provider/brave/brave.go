// Package brave implements a search provider backed by the Brave Search
// API. An API key is required and sent via the X-Subscription-Token header.
package brave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rhuss/suche/pkg/api"
)

// Name is the provider identifier.
const Name = "brave"

// Brave's free tier allows one request per second per API key. All Provider
// instances sharing a key share one limiter so concurrent searches stay
// within the budget.
var (
	limitersMu sync.Mutex
	limiters   = map[string]*rate.Limiter{}
)

func limiterFor(apiKey string) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()
	l, ok := limiters[apiKey]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Second), 1)
		limiters[apiKey] = l
	}
	return l
}

// defaultBaseURL is the production Brave Search endpoint.
const defaultBaseURL = "https://api.search.brave.com"

// Provider queries the Brave Search API.
type Provider struct {
	APIKey     string
	HTTPClient *http.Client

	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
}

// New creates a Brave provider with the given API key.
func New(apiKey string) *Provider {
	return &Provider{APIKey: apiKey, HTTPClient: http.DefaultClient, BaseURL: defaultBaseURL}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return Name }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age"`
		} `json:"results"`
	} `json:"web"`
}

// Search executes a Brave query. Calls sharing an API key are paced through
// a shared limiter; a 429 is retried once after the advertised reset delay.
func (p *Provider) Search(ctx context.Context, params api.SearchParams) ([]api.RawResult, error) {
	if strings.TrimSpace(p.APIKey) == "" {
		return nil, errors.New("brave: API key is missing")
	}

	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("count", strconv.Itoa(params.MaxResults))
	if f := freshness(params.Recency); f != "" {
		q.Set("freshness", f)
	}
	if params.Language != "" {
		q.Set("search_lang", params.Language)
	}
	if params.SafeSearch {
		q.Set("safesearch", "strict")
	}
	base := p.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	endpoint := base + "/res/v1/web/search?" + q.Encode()

	limiter := limiterFor(p.APIKey)

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Subscription-Token", p.APIKey)

		resp, err = p.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt > 0 {
			break
		}

		wait := retryDelay(resp.Header)
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave http %d", resp.StatusCode)
	}

	var payload braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]api.RawResult, 0, len(payload.Web.Results))
	for _, r := range payload.Web.Results {
		results = append(results, api.RawResult{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       r.Description,
			Source:        Name,
			PublishedDate: r.Age,
		})
	}
	return results, nil
}

// freshness maps the recency filter onto Brave's freshness parameter.
func freshness(recency string) string {
	switch recency {
	case api.RecencyDay:
		return "pd"
	case api.RecencyWeek:
		return "pw"
	case api.RecencyMonth:
		return "pm"
	case api.RecencyYear:
		return "py"
	default:
		return ""
	}
}

// retryDelay reads the X-RateLimit-Reset header to determine how long to
// wait before retrying after a 429. The header holds a comma-separated list
// of reset times in seconds; the smallest positive value wins. Falls back
// to one second when the header is missing or unparseable.
func retryDelay(h http.Header) time.Duration {
	raw := h.Get("X-RateLimit-Reset")
	if raw == "" {
		return time.Second
	}
	minReset := -1
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		if minReset < 0 || n < minReset {
			minReset = n
		}
	}
	if minReset <= 0 {
		return time.Second
	}
	return time.Duration(minReset) * time.Second
}
