// Package provider defines the search provider abstraction consumed by the
// engine, plus reliability middleware shared by the concrete adapters.
//
// A Provider wraps exactly one external search backend. Adapters live in
// subpackages (searxng, brave, tavily, duckduckgo); each performs the
// provider-specific HTTP call and maps the response into []api.RawResult.
// The engine treats every Provider as a black box: adapters may return an
// error or hang, and the engine's executor converts either into a
// well-formed ProviderResponse.
package provider
