package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rhuss/suche/pkg/api"
	"github.com/rhuss/suche/pkg/provider"
)

// DefaultTimeout is the per-provider budget used when the caller does not
// configure one. It suits interactive use; diagnostics callers typically
// pass something shorter.
const DefaultTimeout = 8 * time.Second

// searchOutcome carries a provider call's result across the executor's
// goroutine boundary.
type searchOutcome struct {
	results []api.RawResult
	err     error
}

// Execute invokes one provider with a bounded timeout and converts whatever
// happens into a ProviderResponse. Provider errors, panics, caller
// cancellation, and timeouts all end up in the response's Error field;
// Execute itself never fails.
//
// On success the provider name is written into every result's Source field,
// overwriting anything the adapter set, so attribution is consistent
// regardless of adapter behavior.
//
// A provider still running when the timer fires is abandoned, not awaited:
// its context is cancelled, but if the underlying transport ignores
// cancellation the call may run to completion in the background with its
// result discarded. That leaked work is bounded by the provider's own HTTP
// client and is invisible to the aggregator.
func Execute(ctx context.Context, p provider.Provider, params api.SearchParams, timeout time.Duration) api.ProviderResponse {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan searchOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchOutcome{err: fmt.Errorf("provider panicked: %v", r)}
			}
		}()
		results, err := p.Search(callCtx, params)
		done <- searchOutcome{results: results, err: err}
	}()

	select {
	case outcome := <-done:
		latency := time.Since(start)
		if outcome.err != nil {
			return api.ProviderResponse{
				Provider: p.Name(),
				Results:  []api.RawResult{},
				Latency:  latency,
				Error:    outcome.err.Error(),
			}
		}
		results := outcome.results
		if results == nil {
			results = []api.RawResult{}
		}
		for i := range results {
			results[i].Source = p.Name()
		}
		return api.ProviderResponse{
			Provider: p.Name(),
			Results:  results,
			Latency:  latency,
		}

	case <-callCtx.Done():
		latency := time.Since(start)
		errText := fmt.Sprintf("search timed out after %s", timeout)
		if ctx.Err() != nil {
			// Caller cancellation rather than the per-provider timer.
			errText = fmt.Sprintf("search cancelled: %v", ctx.Err())
		}
		return api.ProviderResponse{
			Provider: p.Name(),
			Results:  []api.RawResult{},
			Latency:  latency,
			Error:    errText,
		}
	}
}
