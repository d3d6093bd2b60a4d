package api

import "time"

// Recency filter values accepted by SearchParams.Recency.
const (
	RecencyDay   = "day"
	RecencyWeek  = "week"
	RecencyMonth = "month"
	RecencyYear  = "year"
	RecencyAll   = "all"
)

// SearchParams holds the normalized parameters for one search request.
// Values are fixed at request time and never mutated afterwards.
type SearchParams struct {
	// Query is the user's search text.
	Query string `json:"query"`

	// MaxResults caps the aggregated result list (1-50).
	MaxResults int `json:"max_results"`

	// Recency restricts results by age: day, week, month, year, or all.
	// Empty means no restriction.
	Recency string `json:"recency,omitempty"`

	// Language is an optional language tag (e.g. "en", "de").
	Language string `json:"language,omitempty"`

	// SafeSearch requests filtering of explicit content where the
	// provider supports it.
	SafeSearch bool `json:"safe_search,omitempty"`
}

// RawResult is one candidate returned by a single provider, before
// deduplication and scoring.
type RawResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`

	// Source is the provider name. The executor overwrites whatever the
	// adapter set so attribution is always consistent.
	Source string `json:"source"`

	// PublishedDate is free-form date text as reported by the provider.
	PublishedDate string `json:"published_date,omitempty"`

	// Score is the provider-native relevance score on the provider's own
	// scale. Values are not comparable across providers; a value > 0
	// means the provider reported one.
	Score float64 `json:"score,omitempty"`
}

// ProviderResponse is one provider's outcome for one request. Exactly one
// of a non-empty Error or Results is the meaningful branch; an empty result
// list with no error is a legitimate "no hits" success. The executor
// guarantees one ProviderResponse per invoked provider, even on timeout.
type ProviderResponse struct {
	// Provider is the provider name.
	Provider string `json:"provider"`

	// Results is empty on failure.
	Results []RawResult `json:"results"`

	// Latency is the elapsed wall-clock time of the invocation.
	Latency time.Duration `json:"-"`

	// Error describes the failure, empty on success.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the response represents a provider failure.
func (r ProviderResponse) Failed() bool {
	return r.Error != ""
}

// Result is a canonical search result: a RawResult after cross-provider
// deduplication and merging, carrying a computed relevance score. The score
// is comparable only within one AggregatedResult.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`

	// Sources lists the distinct providers that returned this URL, in
	// first-seen order. More than one entry marks the result as
	// multi-source-confirmed.
	Sources []string `json:"sources"`

	PublishedDate string `json:"published_date,omitempty"`

	// NativeScore is the highest provider-native score seen across the
	// merged duplicates, 0 if none was reported.
	NativeScore float64 `json:"native_score,omitempty"`

	// Score is the computed relevance score used for ranking.
	Score float64 `json:"score"`
}

// Engine status values reported in EngineStats.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// EngineStats is the per-provider diagnostics block of an AggregatedResult.
type EngineStats struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMS   int64  `json:"latency_ms"`
	ResultCount int    `json:"result_count"`
	Error       string `json:"error,omitempty"`
}

// AggregatedResult is the final outcome of one search: the ranked and
// truncated result list plus diagnostics for every provider that was
// invoked, including the ones that failed.
type AggregatedResult struct {
	Query string `json:"query"`

	// Engines covers all invoked providers, not just contributors.
	Engines []EngineStats `json:"engines"`

	Results []Result `json:"results"`

	// TotalResults is the size of the returned (post-truncation) list.
	TotalResults int `json:"total_results"`

	Timestamp time.Time `json:"timestamp"`
}
