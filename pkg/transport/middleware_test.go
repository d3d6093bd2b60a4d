package transport

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/rhuss/suche/pkg/api"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Searcher) Searcher {
			return SearcherFunc(func(ctx context.Context, params api.SearchParams) (api.AggregatedResult, error) {
				order = append(order, name)
				return next.Search(ctx, params)
			})
		}
	}

	handler := Chain(mw("a"), mw("b"), mw("c"))(SearcherFunc(
		func(_ context.Context, _ api.SearchParams) (api.AggregatedResult, error) {
			order = append(order, "handler")
			return api.AggregatedResult{}, nil
		}))

	handler.Search(context.Background(), api.SearchParams{Query: "q"})

	want := []string{"a", "b", "c", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	handler := Recovery()(SearcherFunc(
		func(_ context.Context, _ api.SearchParams) (api.AggregatedResult, error) {
			panic("handler bug")
		}))

	_, err := handler.Search(context.Background(), api.SearchParams{Query: "q"})
	if err == nil {
		t.Fatal("panic was not converted to an error")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeServerError {
		t.Errorf("err = %v, want server_error APIError", err)
	}
}

func TestRequestID_GeneratesAndPreserves(t *testing.T) {
	var seen string
	handler := RequestID()(SearcherFunc(
		func(ctx context.Context, _ api.SearchParams) (api.AggregatedResult, error) {
			seen = RequestIDFromContext(ctx)
			return api.AggregatedResult{}, nil
		}))

	handler.Search(context.Background(), api.SearchParams{Query: "q"})
	if seen == "" {
		t.Error("no request ID generated")
	}

	ctx := ContextWithRequestID(context.Background(), "req-123")
	handler.Search(ctx, api.SearchParams{Query: "q"})
	if seen != "req-123" {
		t.Errorf("request ID = %q, want preserved %q", seen, "req-123")
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	want := api.AggregatedResult{Query: "q", TotalResults: 2}
	handler := Logging(slog.Default())(SearcherFunc(
		func(_ context.Context, _ api.SearchParams) (api.AggregatedResult, error) {
			return want, nil
		}))

	got, err := handler.Search(context.Background(), api.SearchParams{Query: "q"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.TotalResults != want.TotalResults {
		t.Errorf("result = %+v", got)
	}
}
