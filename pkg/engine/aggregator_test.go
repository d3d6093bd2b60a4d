package engine

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rhuss/suche/pkg/api"
)

func success(provider string, results ...api.RawResult) api.ProviderResponse {
	for i := range results {
		results[i].Source = provider
	}
	return api.ProviderResponse{Provider: provider, Results: results, Latency: 20 * time.Millisecond}
}

func failure(provider, errText string) api.ProviderResponse {
	return api.ProviderResponse{Provider: provider, Results: []api.RawResult{}, Latency: 10 * time.Millisecond, Error: errText}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://rust-lang.org/", "rust-lang.org"},
		{"https://www.rust-lang.org", "rust-lang.org"},
		{"HTTP://WWW.Example.COM/Path/", "example.com/path"},
		{"https://example.com/a?b=c#frag", "example.com/a"},
		{"https://example.com", "example.com"},
		{"not a url at all", "not a url at all"},
		{"/Relative/Path", "/relative/path"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Rust Lang", []string{"rust", "lang"}},
		{"go, go, GO!", []string{"go"}},
		{"a I x", nil},
		{"web-search engine", []string{"web", "search", "engine"}},
		{"编程 语言 x", []string{"编程", "语言"}},
	}
	for _, tt := range tests {
		got := tokenize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Scenario: three providers each return distinct URLs; nothing merges and
// the truncation cap applies.
func TestAggregate_AllSucceed(t *testing.T) {
	var responses []api.ProviderResponse
	for _, name := range []string{"brave", "tavily", "searxng"} {
		var results []api.RawResult
		for i := 0; i < 5; i++ {
			results = append(results, api.RawResult{
				Title: fmt.Sprintf("Rust %s %d", name, i),
				URL:   fmt.Sprintf("https://%s.example.org/%d", name, i),
			})
		}
		responses = append(responses, success(name, results...))
	}

	agg := NewAggregator(10)
	result := agg.Aggregate("rust", responses)

	if result.TotalResults != 10 {
		t.Errorf("TotalResults = %d, want 10", result.TotalResults)
	}
	if len(result.Results) != 10 {
		t.Errorf("len(Results) = %d, want 10", len(result.Results))
	}
	if len(result.Engines) != 3 {
		t.Fatalf("len(Engines) = %d, want 3", len(result.Engines))
	}
	for _, e := range result.Engines {
		if e.Status != api.StatusSuccess {
			t.Errorf("engine %s status = %q, want success", e.Name, e.Status)
		}
		if e.ResultCount != 5 {
			t.Errorf("engine %s ResultCount = %d, want 5", e.Name, e.ResultCount)
		}
	}
	// Zero merges: every result has exactly one source.
	for _, r := range result.Results {
		if len(r.Sources) != 1 {
			t.Errorf("result %s has %d sources, want 1", r.URL, len(r.Sources))
		}
	}
}

// Scenario: one duplicate across two providers merges into a single
// canonical result with the longer title and the multi-source bonus.
func TestAggregate_DuplicateAcrossProviders(t *testing.T) {
	responses := []api.ProviderResponse{
		success("brave", api.RawResult{Title: "Rust Lang", URL: "https://rust-lang.org/"}),
		success("tavily", api.RawResult{Title: "Rust", URL: "https://www.rust-lang.org"}),
	}

	agg := NewAggregator(10)
	result := agg.Aggregate("rust", responses)

	if len(result.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1 (merged)", len(result.Results))
	}
	r := result.Results[0]
	if r.Title != "Rust Lang" {
		t.Errorf("Title = %q, want longer title kept", r.Title)
	}
	if r.URL != "https://rust-lang.org/" {
		t.Errorf("URL = %q, want first-seen URL", r.URL)
	}
	if !reflect.DeepEqual(r.Sources, []string{"brave", "tavily"}) {
		t.Errorf("Sources = %v", r.Sources)
	}

	// The single merged result must carry the +15 multi-source bonus:
	// compare against the same result from one provider only.
	solo := agg.Aggregate("rust", responses[:1]).Results[0]
	if diff := r.Score - solo.Score; diff != scoreExtraSource {
		t.Errorf("multi-source bonus = %v, want exactly %v", diff, scoreExtraSource)
	}
}

// Scenario: all providers fail; the result is empty but well-formed.
func TestAggregate_TotalFailure(t *testing.T) {
	responses := []api.ProviderResponse{
		failure("brave", "network unreachable"),
		failure("tavily", "network unreachable"),
		failure("duckduckgo", "network unreachable"),
	}

	agg := NewAggregator(10)
	result := agg.Aggregate("rust", responses)

	if result.TotalResults != 0 {
		t.Errorf("TotalResults = %d, want 0", result.TotalResults)
	}
	if len(result.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0", len(result.Results))
	}
	if len(result.Engines) != 3 {
		t.Fatalf("len(Engines) = %d, want 3", len(result.Engines))
	}
	for _, e := range result.Engines {
		if e.Status != api.StatusError {
			t.Errorf("engine %s status = %q, want error", e.Name, e.Status)
		}
	}
}

// Scenario: timeout and non-timeout failures are distinguished in the
// statistics by their error text.
func TestAggregate_TimeoutVsErrorStatus(t *testing.T) {
	responses := []api.ProviderResponse{
		failure("slow", "search timed out after 8s"),
		failure("broken", "http 502"),
		success("ok", api.RawResult{Title: "Rust", URL: "https://rust-lang.org"}),
	}

	agg := NewAggregator(10)
	result := agg.Aggregate("rust", responses)

	want := map[string]string{
		"slow":   api.StatusTimeout,
		"broken": api.StatusError,
		"ok":     api.StatusSuccess,
	}
	for _, e := range result.Engines {
		if e.Status != want[e.Name] {
			t.Errorf("engine %s status = %q, want %q", e.Name, e.Status, want[e.Name])
		}
	}
}

// Dedup idempotence: input without colliding URLs passes through the merge
// unchanged (modulo scoring).
func TestAggregate_DedupIdempotent(t *testing.T) {
	responses := []api.ProviderResponse{
		success("brave",
			api.RawResult{Title: "A", URL: "https://a.example.org"},
			api.RawResult{Title: "B", URL: "https://b.example.org"},
		),
		success("tavily",
			api.RawResult{Title: "C", URL: "https://c.example.org"},
		),
	}

	result := NewAggregator(10).Aggregate("unrelated", responses)
	if len(result.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(result.Results))
	}
	for _, r := range result.Results {
		if len(r.Sources) != 1 {
			t.Errorf("result %s merged unexpectedly: sources %v", r.URL, r.Sources)
		}
	}
}

// Merge content fields are order-independent (longer wins), while url and
// published date are first-seen and therefore order-sensitive.
func TestAggregate_MergeFieldRules(t *testing.T) {
	a := api.RawResult{Title: "Short", Snippet: "long snippet here", URL: "https://x.example.org/", PublishedDate: ""}
	b := api.RawResult{Title: "Much Longer Title", Snippet: "tiny", URL: "http://x.example.org", PublishedDate: "2026-01-01", Score: 0.5}

	forward := NewAggregator(10).Aggregate("q", []api.ProviderResponse{
		success("p1", a), success("p2", b),
	}).Results[0]
	backward := NewAggregator(10).Aggregate("q", []api.ProviderResponse{
		success("p1", b), success("p2", a),
	}).Results[0]

	// Longer title and snippet win regardless of arrival order.
	for _, r := range []api.Result{forward, backward} {
		if r.Title != "Much Longer Title" {
			t.Errorf("Title = %q, want longer title", r.Title)
		}
		if r.Snippet != "long snippet here" {
			t.Errorf("Snippet = %q, want longer snippet", r.Snippet)
		}
		if r.NativeScore != 0.5 {
			t.Errorf("NativeScore = %v, want max", r.NativeScore)
		}
	}

	// URL keeps the first-seen raw value even though normalization
	// discards scheme; this is the locked-in policy choice.
	if forward.URL != "https://x.example.org/" {
		t.Errorf("forward URL = %q", forward.URL)
	}
	if backward.URL != "http://x.example.org" {
		t.Errorf("backward URL = %q", backward.URL)
	}

	// PublishedDate takes the first non-empty value in either order.
	if forward.PublishedDate != "2026-01-01" || backward.PublishedDate != "2026-01-01" {
		t.Errorf("PublishedDate = %q / %q", forward.PublishedDate, backward.PublishedDate)
	}
}

// Truncation bound: output length never exceeds the configured cap.
func TestAggregate_TruncationBound(t *testing.T) {
	var results []api.RawResult
	for i := 0; i < 40; i++ {
		results = append(results, api.RawResult{
			Title: fmt.Sprintf("Result %d", i),
			URL:   fmt.Sprintf("https://example.org/%d", i),
		})
	}
	responses := []api.ProviderResponse{success("brave", results...)}

	for _, n := range []int{1, 3, 10, 100} {
		got := NewAggregator(n).Aggregate("q", responses)
		if len(got.Results) > n {
			t.Errorf("N=%d: len(Results) = %d exceeds cap", n, len(got.Results))
		}
		if got.TotalResults != len(got.Results) {
			t.Errorf("N=%d: TotalResults = %d, want %d", n, got.TotalResults, len(got.Results))
		}
	}
}

func TestRelevanceScore_Components(t *testing.T) {
	base := api.Result{Title: "something else", Sources: []string{"p"}}

	tests := []struct {
		name  string
		query string
		r     api.Result
		want  float64
	}{
		{
			name:  "no overlap",
			query: "rust",
			r:     base,
			want:  0,
		},
		{
			name:  "title token",
			query: "rust",
			r:     api.Result{Title: "Rust tutorial", Sources: []string{"p"}},
			// One title token hit plus the full-query substring bonus.
			want: scoreTitleToken + scoreTitleMatch,
		},
		{
			name:  "snippet token",
			query: "rust",
			r:     api.Result{Title: "Systems languages", Snippet: "about rust", Sources: []string{"p"}},
			want:  scoreSnippetToken,
		},
		{
			name:  "date bonus",
			query: "rust",
			r:     api.Result{Title: "x y", PublishedDate: "2026", Sources: []string{"p"}},
			want:  scoreHasDate,
		},
		{
			name:  "native score factor",
			query: "rust",
			r:     api.Result{Title: "x y", NativeScore: 0.8, Sources: []string{"p"}},
			want:  scoreNativeFactor * 0.8,
		},
		{
			name:  "two extra sources",
			query: "rust",
			r:     api.Result{Title: "x y", Sources: []string{"a", "b", "c"}},
			want:  2 * scoreExtraSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevanceScore(tt.query, tt.r); got != tt.want {
				t.Errorf("relevanceScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRelevanceScore_LongSnippetBonus(t *testing.T) {
	short := api.Result{Title: "x y", Snippet: "short", Sources: []string{"p"}}
	long := short
	for utf8.RuneCountInString(long.Snippet) <= longSnippetMinimum {
		long.Snippet += " padding words without query overlap"
	}

	shortScore := relevanceScore("rust", short)
	longScore := relevanceScore("rust", long)
	if longScore-shortScore != scoreLongSnippet {
		t.Errorf("long snippet bonus = %v, want %v", longScore-shortScore, scoreLongSnippet)
	}

	// The threshold counts characters, not bytes: a multibyte snippet under
	// the limit gets no bonus even though its byte length exceeds it.
	wide := short
	wide.Snippet = strings.Repeat("漢", 40)
	if len(wide.Snippet) <= longSnippetMinimum {
		t.Fatalf("fixture too short: %d bytes", len(wide.Snippet))
	}
	if got := relevanceScore("rust", wide); got != shortScore {
		t.Errorf("score = %v, want %v (no bonus for %d-character snippet)",
			got, shortScore, utf8.RuneCountInString(wide.Snippet))
	}

	wide.Snippet = strings.Repeat("漢", longSnippetMinimum+1)
	if got := relevanceScore("rust", wide); got != shortScore+scoreLongSnippet {
		t.Errorf("score = %v, want %v", got, shortScore+scoreLongSnippet)
	}
}

// Ranking is by descending score with a stable tie-break on collected order.
func TestAggregate_RankingDeterministic(t *testing.T) {
	responses := []api.ProviderResponse{
		success("p1",
			api.RawResult{Title: "tie one", URL: "https://one.example.org"},
			api.RawResult{Title: "rust rust relevant", URL: "https://relevant.example.org"},
			api.RawResult{Title: "tie two", URL: "https://two.example.org"},
		),
	}

	result := NewAggregator(10).Aggregate("rust", responses)
	if result.Results[0].URL != "https://relevant.example.org" {
		t.Errorf("highest score not first: %v", result.Results[0].URL)
	}
	// The two zero-score results preserve their collected order.
	if result.Results[1].URL != "https://one.example.org" || result.Results[2].URL != "https://two.example.org" {
		t.Errorf("tie order not stable: %v, %v", result.Results[1].URL, result.Results[2].URL)
	}
}

// Unparseable URLs are keyed verbatim rather than discarded, and equal
// garbage still merges.
func TestAggregate_UnparseableURL(t *testing.T) {
	responses := []api.ProviderResponse{
		success("p1", api.RawResult{Title: "Weird", URL: "Not A URL"}),
		success("p2", api.RawResult{Title: "Weird Too", URL: "not a url"}),
	}

	result := NewAggregator(10).Aggregate("q", responses)
	if len(result.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1 (merged on verbatim key)", len(result.Results))
	}
	if len(result.Results[0].Sources) != 2 {
		t.Errorf("Sources = %v, want both providers", result.Results[0].Sources)
	}
}

func TestAggregate_TimestampSet(t *testing.T) {
	before := time.Now()
	result := NewAggregator(5).Aggregate("q", nil)
	if result.Timestamp.Before(before) {
		t.Errorf("Timestamp = %v, before test start %v", result.Timestamp, before)
	}
	if result.Query != "q" {
		t.Errorf("Query = %q", result.Query)
	}
}
