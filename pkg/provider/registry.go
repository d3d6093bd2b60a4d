package provider

import (
	"log/slog"

	"github.com/rhuss/suche/pkg/config"
	"github.com/rhuss/suche/pkg/provider/brave"
	"github.com/rhuss/suche/pkg/provider/duckduckgo"
	"github.com/rhuss/suche/pkg/provider/searxng"
	"github.com/rhuss/suche/pkg/provider/tavily"
)

// FromConfig builds the configured provider set. A provider missing its
// required credential or URL is skipped (logged, not an error): it is
// simply never invoked. The returned order is fixed (searxng, brave,
// tavily, duckduckgo) so aggregation merge order is deterministic for a
// given configuration.
//
// When cfg.Search.BreakerCooldown is positive, every provider is wrapped
// in a circuit breaker with that cooldown.
func FromConfig(cfg *config.Config, logger *slog.Logger) []Provider {
	if logger == nil {
		logger = slog.Default()
	}

	var providers []Provider

	if cfg.Providers.SearXNG.URL != "" {
		providers = append(providers, searxng.New(cfg.Providers.SearXNG.URL))
	} else {
		logger.Debug("provider not configured", slog.String("provider", searxng.Name))
	}

	if cfg.Providers.Brave.APIKey != "" {
		providers = append(providers, brave.New(cfg.Providers.Brave.APIKey))
	} else {
		logger.Debug("provider not configured", slog.String("provider", brave.Name))
	}

	if cfg.Providers.Tavily.APIKey != "" {
		providers = append(providers, tavily.New(cfg.Providers.Tavily.APIKey, cfg.Providers.Tavily.Depth))
	} else {
		logger.Debug("provider not configured", slog.String("provider", tavily.Name))
	}

	if cfg.Providers.DuckDuckGo.Enabled {
		providers = append(providers, duckduckgo.New())
	}

	if cfg.Search.BreakerCooldown > 0 {
		for i, p := range providers {
			providers[i] = WithBreaker(p, cfg.Search.BreakerCooldown)
		}
	}

	for _, p := range providers {
		logger.Info("search provider enabled", slog.String("provider", p.Name()))
	}

	return providers
}
