// Command server runs the suche metasearch gateway.
//
// Configuration is loaded from a YAML file (discovered or passed via
// -config) with SUCHE_* environment variable overrides. At least one
// search provider must be configured:
//
//	SUCHE_SEARXNG_URL     - SearXNG instance URL
//	SUCHE_BRAVE_API_KEY   - Brave Search API key
//	SUCHE_TAVILY_API_KEY  - Tavily API key
//	SUCHE_DUCKDUCKGO      - "true" to enable the keyless DuckDuckGo scraper
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/rhuss/suche/pkg/api"
	"github.com/rhuss/suche/pkg/auth"
	"github.com/rhuss/suche/pkg/auth/apikey"
	"github.com/rhuss/suche/pkg/auth/jwt"
	"github.com/rhuss/suche/pkg/config"
	"github.com/rhuss/suche/pkg/debug"
	"github.com/rhuss/suche/pkg/engine"
	"github.com/rhuss/suche/pkg/provider"
	"github.com/rhuss/suche/pkg/transport"
	transporthttp "github.com/rhuss/suche/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)
	logger := slog.Default()

	providers := provider.FromConfig(cfg, logger)
	if len(providers) == 0 {
		return fmt.Errorf("no search provider configured")
	}

	eng := engine.New(providers, engine.Config{
		Timeout: cfg.Search.Timeout,
		Logger:  logger,
	})

	searcher := transport.SearcherFunc(func(ctx context.Context, params api.SearchParams) (api.AggregatedResult, error) {
		return eng.Search(ctx, params), nil
	})

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithValidation(validationConfig(cfg)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithMetrics(cfg.Observability.Metrics.Enabled, cfg.Observability.Metrics.Path),
		transporthttp.WithLogger(logger),
	}

	if mw := authMiddleware(cfg, logger); mw != nil {
		opts = append(opts, transporthttp.WithHTTPMiddleware(mw))
	}

	srv := transporthttp.NewServer(searcher, opts...)

	logger.Info("suche gateway starting",
		"port", cfg.Server.Port,
		"providers", eng.Providers(),
		"auth", cfg.Auth.Type,
	)

	return srv.ListenAndServe()
}

// validationConfig applies the configured default result count on top of
// the standard request limits.
func validationConfig(cfg *config.Config) api.ValidationConfig {
	vc := api.DefaultValidationConfig()
	if cfg.Search.MaxResults > 0 {
		vc.DefaultResults = cfg.Search.MaxResults
	}
	return vc
}

// authMiddleware builds the HTTP auth middleware from configuration.
// Returns nil when auth is disabled.
func authMiddleware(cfg *config.Config, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.Auth.Type == "" || cfg.Auth.Type == "none" {
		return nil
	}

	chain := &auth.AuthChain{DefaultDecision: auth.No}

	switch cfg.Auth.Type {
	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key: k.Key,
				Identity: auth.Identity{
					Subject:     k.Subject,
					ServiceTier: k.ServiceTier,
				},
			})
		}
		chain.Authenticators = append(chain.Authenticators, apikey.New(entries))
		logger.Info("api key auth enabled", "keys", len(entries))

	case "jwt":
		chain.Authenticators = append(chain.Authenticators, jwt.New(jwt.Config{
			Issuer:   cfg.Auth.JWT.Issuer,
			Audience: cfg.Auth.JWT.Audience,
			JWKSURL:  cfg.Auth.JWT.JWKSURL,
		}))
		logger.Info("jwt auth enabled", "jwks_url", cfg.Auth.JWT.JWKSURL)
	}

	var limiter auth.RateLimiter
	if cfg.Auth.RateLimitRPM > 0 {
		limiter = auth.NewInProcessLimiter(nil, cfg.Auth.RateLimitRPM)
	}

	return auth.Middleware(chain, limiter, auth.DefaultBypassEndpoints)
}
