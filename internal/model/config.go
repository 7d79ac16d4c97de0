package model

import "time"

// Config is the root configuration object. It is built once by the CLI layer
// and injected into components at construction time; business logic never
// reads ambient process state.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Database    DatabaseConfig    `yaml:"database" mapstructure:"database"`
	Redis       RedisConfig       `yaml:"redis" mapstructure:"redis"`
	Providers   ProvidersConfig   `yaml:"providers" mapstructure:"providers"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the display-layer HTTP API
type ServerConfig struct {
	Listen         string   `yaml:"listen" mapstructure:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// DatabaseConfig configures the claim store. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// RedisConfig configures the event bus. An empty URL selects the in-process
// channel bus (no cross-process fan-out).
type RedisConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// ProvidersConfig configures the external verification services
type ProvidersConfig struct {
	// Timeout bounds every single provider call; a call past it is treated
	// as a failed result, never a pipeline abort.
	Timeout     time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	ClaimBuster ClaimBusterConfig `yaml:"claimbuster" mapstructure:"claimbuster"`
	FactCheck   FactCheckConfig   `yaml:"factcheck" mapstructure:"factcheck"`
	OpenAI      OpenAIConfig      `yaml:"openai" mapstructure:"openai"`
}

// ClaimBusterConfig configures the primary numeric scoring provider
type ClaimBusterConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
}

// FactCheckConfig configures the corroborating review-search provider
type FactCheckConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
}

// OpenAIConfig configures the optional LLM verdict provider
type OpenAIConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// HTTPConfig configures outbound HTTP for provider clients
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig configures memoization of provider responses
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig throttles outbound calls per provider
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig sets worker counts for batch operations
type ConcurrencyConfig struct {
	BackfillWorkers int `yaml:"backfill_workers" mapstructure:"backfill_workers"`
}

// DefaultConfig returns the built-in defaults. Endpoints point at the public
// services; API keys always come from config or environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:         ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Providers: ProvidersConfig{
			Timeout: 8 * time.Second,
			ClaimBuster: ClaimBusterConfig{
				Endpoint: "https://idir.uta.edu/claimbuster/api/v2/score/text/",
			},
			FactCheck: FactCheckConfig{
				Endpoint: "https://factchecktools.googleapis.com/v1alpha1/claims:search",
			},
			OpenAI: OpenAIConfig{
				Model: "gpt-4o-mini",
			},
		},
		HTTP: HTTPConfig{
			UserAgent: "Veristream/0.1 (+https://github.com/veristream/veristream)",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			BackfillWorkers: 4,
		},
	}
}
