package provider

import (
	"context"

	"github.com/rhuss/suche/pkg/api"
)

// Provider is the capability interface for a single search backend.
//
// Search may fail with an error and may block until ctx is done; it must
// not be expected to enforce its own deadline. The engine's executor wraps
// every invocation with a timeout and absorbs errors and panics, so
// implementations are free to simply return what the backend gave them.
type Provider interface {
	// Name returns the stable provider identifier used for result
	// attribution and metrics labels (e.g. "brave").
	Name() string

	// Search executes one query and returns the provider's raw results.
	Search(ctx context.Context, params api.SearchParams) ([]api.RawResult, error)
}
