package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/rhuss/suche/pkg/api"
)

// stubProvider returns a fixed result or error for every call.
type stubProvider struct {
	name    string
	results []api.RawResult
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(_ context.Context, _ api.SearchParams) ([]api.RawResult, error) {
	s.calls++
	return s.results, s.err
}

func TestWithBreaker_PassesThroughSuccess(t *testing.T) {
	stub := &stubProvider{
		name:    "stub",
		results: []api.RawResult{{Title: "Go", URL: "https://go.dev"}},
	}
	p := WithBreaker(stub, 0)

	if p.Name() != "stub" {
		t.Errorf("Name() = %q, want %q", p.Name(), "stub")
	}

	results, err := p.Search(context.Background(), api.SearchParams{Query: "go"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].URL != "https://go.dev" {
		t.Errorf("Search() = %v, want the stub result", results)
	}
}

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubProvider{name: "stub", err: errors.New("backend down")}
	p := WithBreaker(stub, 0)

	for i := 0; i < 5; i++ {
		if _, err := p.Search(context.Background(), api.SearchParams{Query: "go"}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	// Breaker is now open: the stub must not be called again.
	callsBefore := stub.calls
	_, err := p.Search(context.Background(), api.SearchParams{Query: "go"})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Search() error = %v, want ErrOpenState", err)
	}
	if stub.calls != callsBefore {
		t.Errorf("stub called while breaker open: %d calls, want %d", stub.calls, callsBefore)
	}
}
