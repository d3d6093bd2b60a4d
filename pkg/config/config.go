// Package config provides unified configuration for the suche gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (SUCHE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the suche gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Search        SearchConfig        `yaml:"search"`
	Providers     ProvidersConfig     `yaml:"providers"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 30s
}

// SearchConfig holds aggregation engine settings.
type SearchConfig struct {
	// Timeout is the per-provider budget for one request.
	Timeout time.Duration `yaml:"timeout"` // default: 8s

	// MaxResults is the default result cap when a request does not
	// specify one.
	MaxResults int `yaml:"max_results"` // default: 10

	// BreakerCooldown is how long a tripped provider circuit stays open.
	// Zero disables the circuit breaker.
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"` // default: 30s
}

// ProvidersConfig holds one block per supported search backend. A provider
// missing its required credential or URL is simply not constructed.
type ProvidersConfig struct {
	SearXNG    SearXNGConfig    `yaml:"searxng"`
	Brave      BraveConfig      `yaml:"brave"`
	Tavily     TavilyConfig     `yaml:"tavily"`
	DuckDuckGo DuckDuckGoConfig `yaml:"duckduckgo"`
}

// SearXNGConfig configures the SearXNG provider.
type SearXNGConfig struct {
	URL string `yaml:"url"` // enables the provider when set
}

// BraveConfig configures the Brave Search provider.
type BraveConfig struct {
	APIKey     string `yaml:"api_key"`      // enables the provider when set
	APIKeyFile string `yaml:"api_key_file"` // _file variant for api_key
}

// TavilyConfig configures the Tavily provider.
type TavilyConfig struct {
	APIKey     string `yaml:"api_key"`      // enables the provider when set
	APIKeyFile string `yaml:"api_key_file"` // _file variant for api_key
	Depth      string `yaml:"depth"`        // "basic" or "advanced", default: "basic"
}

// DuckDuckGoConfig configures the keyless DuckDuckGo provider.
type DuckDuckGoConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type    string         `yaml:"type"`     // "none", "apikey", or "jwt", default: "none"
	APIKeys []APIKeyConfig `yaml:"api_keys"` // API key entries for type=apikey
	JWT     JWTConfig      `yaml:"jwt"`      // settings for type=jwt

	// RateLimitRPM is the per-subject request budget per minute.
	// Zero disables rate limiting.
	RateLimitRPM int `yaml:"rate_limit_rpm"`
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key         string `yaml:"key"`
	KeyFile     string `yaml:"key_file"` // _file variant for key
	Subject     string `yaml:"subject"`
	ServiceTier string `yaml:"service_tier"`
}

// JWTConfig holds bearer token validation settings. Tokens are verified
// against the RSA keys published at the JWKS URL.
type JWTConfig struct {
	JWKSURL  string `yaml:"jwks_url"`
	Issuer   string `yaml:"issuer"`   // optional, validated when set
	Audience string `yaml:"audience"` // optional, validated when set
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	Categories string `yaml:"categories"` // comma-separated, see pkg/debug
	Level      string `yaml:"level"`      // ERROR, WARN, INFO, DEBUG, TRACE
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Search: SearchConfig{
			Timeout:         8 * time.Second,
			MaxResults:      10,
			BreakerCooldown: 30 * time.Second,
		},
		Providers: ProvidersConfig{
			Tavily:     TavilyConfig{Depth: "basic"},
			DuckDuckGo: DuckDuckGoConfig{Enabled: true},
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
