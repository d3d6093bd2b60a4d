package transport

import (
	"context"
	"fmt"

	"github.com/rhuss/suche/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next Searcher) Searcher {
		return SearcherFunc(func(ctx context.Context, params api.SearchParams) (result api.AggregatedResult, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					retErr = api.NewServerError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.Search(ctx, params)
		})
	}
}
