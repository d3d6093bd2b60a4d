package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rhuss/suche/pkg/api"
	"github.com/rhuss/suche/pkg/observability"
	"github.com/rhuss/suche/pkg/provider"
)

// Config holds the engine's immutable per-instance settings.
type Config struct {
	// Timeout is the per-provider budget for one request. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// Logger receives per-request diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Engine fans a query out to an ordered set of providers and aggregates
// their responses. It holds no mutable state; one Engine serves any number
// of concurrent requests.
type Engine struct {
	providers []provider.Provider
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates an Engine over the given providers. Provider order is
// significant: it fixes the merge order of the aggregation (first-seen-wins
// rules and ranking tie-breaks), independent of completion order.
func New(providers []provider.Provider, cfg Config) *Engine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// Providers returns the configured provider names in registration order.
func (e *Engine) Providers() []string {
	names := make([]string, len(e.providers))
	for i, p := range e.providers {
		names[i] = p.Name()
	}
	return names
}

// Search runs params against every provider concurrently, waits for all of
// them, and aggregates the responses capped at params.MaxResults. It never
// fails; total provider failure produces an empty result list with
// all-failure statistics.
func (e *Engine) Search(ctx context.Context, params api.SearchParams) api.AggregatedResult {
	responses := make([]api.ProviderResponse, len(e.providers))

	var wg sync.WaitGroup
	for i, p := range e.providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			responses[i] = Execute(ctx, p, params, e.timeout)
		}(i, p)
	}
	wg.Wait()

	for _, r := range responses {
		status := api.StatusSuccess
		if r.Failed() {
			status = api.StatusError
			if isTimeoutError(r.Error) {
				status = api.StatusTimeout
			}
		}
		observability.ProviderRequestsTotal.WithLabelValues(r.Provider, status).Inc()
		observability.ProviderLatency.WithLabelValues(r.Provider).Observe(r.Latency.Seconds())
	}

	agg := NewAggregator(params.MaxResults)
	result := agg.Aggregate(params.Query, responses)

	observability.ResultsReturned.Observe(float64(result.TotalResults))

	e.logger.LogAttrs(ctx, slog.LevelDebug, "search aggregated",
		slog.String("query", params.Query),
		slog.Int("providers", len(e.providers)),
		slog.Int("results", result.TotalResults),
	)

	return result
}
