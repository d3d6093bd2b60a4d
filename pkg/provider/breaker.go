package provider

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/rhuss/suche/pkg/api"
)

// breakerProvider wraps a Provider in a circuit breaker so that a backend
// that is consistently failing is skipped quickly instead of burning the
// full per-request timeout budget on every search.
type breakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[[]api.RawResult]
}

// WithBreaker wraps p in a circuit breaker. The breaker opens after five
// consecutive failures and probes again after the given cooldown. A zero
// cooldown uses 30 seconds.
func WithBreaker(p Provider, cooldown time.Duration) Provider {
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &breakerProvider{
		inner:   p,
		breaker: gobreaker.NewCircuitBreaker[[]api.RawResult](settings),
	}
}

// Name returns the wrapped provider's identifier.
func (b *breakerProvider) Name() string {
	return b.inner.Name()
}

// Search delegates to the wrapped provider through the breaker. While the
// breaker is open, calls fail immediately with gobreaker.ErrOpenState.
func (b *breakerProvider) Search(ctx context.Context, params api.SearchParams) ([]api.RawResult, error) {
	return b.breaker.Execute(func() ([]api.RawResult, error) {
		return b.inner.Search(ctx, params)
	})
}
