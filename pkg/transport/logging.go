package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/suche/pkg/api"
)

// Logging returns middleware that emits structured log entries for each
// search request. The log entry includes the query, the request ID (from
// context), duration, and the aggregated result count or the failure.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Searcher) Searcher {
		return SearcherFunc(func(ctx context.Context, params api.SearchParams) (api.AggregatedResult, error) {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			result, err := next.Search(ctx, params)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("query", params.Query),
				slog.Int("max_results", params.MaxResults),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "search failed", attrs...)
			} else {
				attrs = append(attrs, slog.Int("results", result.TotalResults))
				logger.LogAttrs(ctx, slog.LevelInfo, "search completed", attrs...)
			}

			return result, err
		})
	}
}
