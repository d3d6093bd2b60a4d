package transport

import (
	"context"

	"github.com/rhuss/suche/pkg/api"
)

// Searcher handles the core search operation. The engine implements it;
// middleware wraps it. An error return means the request itself failed
// (validation, panic recovery), not that providers failed; provider
// failures are data inside the AggregatedResult.
type Searcher interface {
	Search(ctx context.Context, params api.SearchParams) (api.AggregatedResult, error)
}

// SearcherFunc is an adapter that allows using an ordinary function as a
// Searcher.
type SearcherFunc func(ctx context.Context, params api.SearchParams) (api.AggregatedResult, error)

// Search calls f(ctx, params).
func (f SearcherFunc) Search(ctx context.Context, params api.SearchParams) (api.AggregatedResult, error) {
	return f(ctx, params)
}
