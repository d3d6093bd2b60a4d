// Package api defines the search domain types shared across the suche
// gateway: request parameters, raw provider results, per-provider response
// records, canonical (deduplicated, scored) results, and the aggregated
// response returned to callers. It also provides request validation and the
// structured error type used by the transport layer.
//
// The package is intentionally dependency-free; everything in it is plain
// data created fresh per request and discarded afterwards.
package api
