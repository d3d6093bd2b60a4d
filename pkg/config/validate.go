package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Search.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("search.timeout must be > 0, got %s", c.Search.Timeout))
	}

	if c.Search.MaxResults < 1 || c.Search.MaxResults > 50 {
		errs = append(errs, fmt.Errorf("search.max_results must be between 1 and 50, got %d", c.Search.MaxResults))
	}

	// At least one provider must be configured; a gateway with nothing to
	// fan out to is a deployment mistake, not a degraded state.
	if !c.HasProviders() {
		errs = append(errs, fmt.Errorf("no search provider configured: set providers.searxng.url, providers.brave.api_key, providers.tavily.api_key, or providers.duckduckgo.enabled"))
	}

	switch c.Providers.Tavily.Depth {
	case "", "basic", "advanced":
		// valid
	default:
		errs = append(errs, fmt.Errorf("providers.tavily.depth must be \"basic\" or \"advanced\", got %q", c.Providers.Tavily.Depth))
	}

	switch c.Auth.Type {
	case "none", "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}

	if c.Auth.Type == "apikey" && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, fmt.Errorf("auth.api_keys is required when auth.type is \"apikey\""))
	}

	if c.Auth.Type == "jwt" && c.Auth.JWT.JWKSURL == "" {
		errs = append(errs, fmt.Errorf("auth.jwt.jwks_url is required when auth.type is \"jwt\""))
	}

	return errors.Join(errs...)
}

// HasProviders reports whether at least one search provider is configured.
func (c *Config) HasProviders() bool {
	return c.Providers.SearXNG.URL != "" ||
		c.Providers.Brave.APIKey != "" || c.Providers.Brave.APIKeyFile != "" ||
		c.Providers.Tavily.APIKey != "" || c.Providers.Tavily.APIKeyFile != "" ||
		c.Providers.DuckDuckGo.Enabled
}
