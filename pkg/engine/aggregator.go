package engine

import (
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rhuss/suche/pkg/api"
)

// Score weights for the additive relevance heuristic.
const (
	scoreTitleToken    = 10.0
	scoreSnippetToken  = 3.0
	scoreTitleMatch    = 20.0
	scoreExtraSource   = 15.0
	scoreNativeFactor  = 5.0
	scoreHasDate       = 3.0
	scoreLongSnippet   = 5.0
	longSnippetMinimum = 100
)

// Aggregator merges the provider responses of one query into a single
// deduplicated, scored, ranked, and truncated result list. It carries only
// immutable configuration and is safe to share across requests.
type Aggregator struct {
	// MaxResults is the truncation point for the final list.
	MaxResults int
}

// NewAggregator creates an Aggregator capped at maxResults. Non-positive
// values fall back to the default result count.
func NewAggregator(maxResults int) *Aggregator {
	if maxResults <= 0 {
		maxResults = api.DefaultMaxResults
	}
	return &Aggregator{MaxResults: maxResults}
}

// Aggregate produces the AggregatedResult for a query from the full set of
// provider responses. It never fails: failed providers are reported in the
// statistics and contribute no results, and an all-failure input yields an
// empty but well-formed result.
//
// Merge order follows the order responses are supplied in. That order
// decides which URL and published date a merged result keeps (first seen
// wins), and it is the tie-break for equal scores, so callers must supply
// responses in provider registration order for deterministic output.
func (a *Aggregator) Aggregate(query string, responses []api.ProviderResponse) api.AggregatedResult {
	stats := make([]api.EngineStats, 0, len(responses))
	var collected int
	for _, r := range responses {
		stats = append(stats, engineStats(r))
		collected += len(r.Results)
	}

	merged := mergeByURL(responses, collected)

	for i := range merged {
		merged[i].Score = relevanceScore(query, merged[i])
	}

	// Stable sort keeps first-collected order for equal scores.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > a.MaxResults {
		merged = merged[:a.MaxResults]
	}

	return api.AggregatedResult{
		Query:        query,
		Engines:      stats,
		Results:      merged,
		TotalResults: len(merged),
		Timestamp:    time.Now(),
	}
}

// engineStats derives the per-provider diagnostics entry from a response.
func engineStats(r api.ProviderResponse) api.EngineStats {
	status := api.StatusSuccess
	if r.Error != "" {
		if isTimeoutError(r.Error) {
			status = api.StatusTimeout
		} else {
			status = api.StatusError
		}
	}
	return api.EngineStats{
		Name:        r.Provider,
		Status:      status,
		LatencyMS:   r.Latency.Milliseconds(),
		ResultCount: len(r.Results),
		Error:       r.Error,
	}
}

// isTimeoutError reports whether error text describes a timeout condition.
// The executor's synthesized message is the canonical producer, but
// context deadline text from inside an adapter counts too.
func isTimeoutError(errText string) bool {
	lower := strings.ToLower(errText)
	return strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded")
}

// mergeByURL deduplicates all raw results across responses by normalized
// URL. The first occurrence of a URL seeds the canonical result; later
// duplicates merge into it: longer title and snippet win, the first-seen
// URL and published date stick, sources accumulate distinct provider
// names, and the native score keeps the maximum seen.
func mergeByURL(responses []api.ProviderResponse, capacity int) []api.Result {
	merged := make([]api.Result, 0, capacity)
	index := map[string]int{}

	for _, resp := range responses {
		for _, raw := range resp.Results {
			key := normalizeURL(raw.URL)

			i, seen := index[key]
			if !seen {
				index[key] = len(merged)
				merged = append(merged, api.Result{
					Title:         raw.Title,
					URL:           raw.URL,
					Snippet:       raw.Snippet,
					Sources:       []string{raw.Source},
					PublishedDate: raw.PublishedDate,
					NativeScore:   raw.Score,
				})
				continue
			}

			r := &merged[i]
			if len(raw.Title) > len(r.Title) {
				r.Title = raw.Title
			}
			if len(raw.Snippet) > len(r.Snippet) {
				r.Snippet = raw.Snippet
			}
			if r.PublishedDate == "" {
				r.PublishedDate = raw.PublishedDate
			}
			if raw.Score > r.NativeScore {
				r.NativeScore = raw.Score
			}
			if !containsString(r.Sources, raw.Source) {
				r.Sources = append(r.Sources, raw.Source)
			}
		}
	}

	return merged
}

// normalizeURL reduces a URL to its dedup key: lower-cased host without a
// leading "www." plus the path without a trailing slash. Scheme, query,
// and fragment are dropped. A URL that does not parse is used verbatim
// (lower-cased) as its own key rather than discarded.
func normalizeURL(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	u, err := url.Parse(lowered)
	if err != nil || u.Host == "" {
		return lowered
	}
	host := strings.TrimPrefix(u.Host, "www.")
	path := strings.TrimSuffix(u.Path, "/")
	return host + path
}

// relevanceScore computes the additive heuristic score of one canonical
// result against the query.
func relevanceScore(query string, r api.Result) float64 {
	queryTokens := tokenize(query)
	titleTokens := tokenSet(tokenize(r.Title))
	snippetTokens := tokenSet(tokenize(r.Snippet))

	var score float64
	for _, tok := range queryTokens {
		if titleTokens[tok] {
			score += scoreTitleToken
		}
		if snippetTokens[tok] {
			score += scoreSnippetToken
		}
	}

	if strings.Contains(strings.ToLower(r.Title), strings.ToLower(query)) {
		score += scoreTitleMatch
	}

	if extra := len(r.Sources) - 1; extra > 0 {
		score += scoreExtraSource * float64(extra)
	}

	if r.NativeScore > 0 {
		score += scoreNativeFactor * r.NativeScore
	}

	if r.PublishedDate != "" {
		score += scoreHasDate
	}

	if utf8.RuneCountInString(r.Snippet) > longSnippetMinimum {
		score += scoreLongSnippet
	}

	return score
}

// tokenize lower-cases the text, replaces every character that is not a
// word character, whitespace, or CJK ideograph with a space, splits on
// whitespace, and drops tokens of one rune or less. The returned tokens
// are distinct, in first-occurrence order.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)

	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r == ' ', r == '\t', r == '\n', r == '\r':
			return r
		case r >= 0x4e00 && r <= 0x9fff:
			return r
		default:
			return ' '
		}
	}, lowered)

	seen := map[string]bool{}
	var tokens []string
	for _, tok := range strings.Fields(mapped) {
		if len([]rune(tok)) <= 1 || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
