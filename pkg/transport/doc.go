// Package transport defines the handler contract between the HTTP adapter
// and the search engine, together with protocol-independent middleware
// (panic recovery, request IDs, structured request logging).
//
// The contract is a single operation: Searcher.Search. Middleware wraps a
// Searcher the same way http middleware wraps a handler; the http
// subpackage adapts the chain to actual HTTP routes.
package transport
