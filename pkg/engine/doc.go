// Package engine implements the result-aggregation core of the suche
// gateway.
//
// The package has three parts:
//
//   - Execute wraps a single provider invocation with a timeout, failure
//     capture, and latency measurement. It always returns a well-formed
//     ProviderResponse and never returns an error, no matter how the
//     provider misbehaves.
//   - Aggregator merges the per-provider responses of one query:
//     deduplication by normalized URL, cross-provider merging, relevance
//     scoring, ranking, and truncation. It is a pure transformation over
//     already-collected data and performs no I/O.
//   - Engine ties the two together: it fans one query out to every
//     configured provider concurrently, joins all responses in provider
//     registration order, and aggregates them.
//
// Provider failure is data here, not an exception: a provider that times
// out or errors is reported in the aggregated statistics and contributes
// zero results. All providers failing yields an empty but valid result.
package engine
