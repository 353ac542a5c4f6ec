// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	APIs     APIsConfig     `mapstructure:"apis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Source Adapter Configuration ---

// SourceConfig holds the core settings applicable to every source adapter.
type SourceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
	MaxItems int    `mapstructure:"max_items"`
}

// GetTimeout returns the adapter timeout as a duration.
func (s SourceConfig) GetTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}

type SourcesConfig struct {
	PriceSite  SourceConfig     `mapstructure:"price_site"`
	ResaleSite SourceConfig     `mapstructure:"resale_site"`
	Discovery  SourceConfig     `mapstructure:"discovery"`
	UserTarget UserTargetConfig `mapstructure:"user_target"`
}

// UserTargetConfig configures the explicit opt-in URL adapter. The renderer
// fallback is absent unless a renderer base URL is configured.
type UserTargetConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	MaxTargets      int    `mapstructure:"max_targets"`
	MaxItems        int    `mapstructure:"max_items"`
	MinContentBytes int    `mapstructure:"min_content_bytes"`
	RendererBaseURL string `mapstructure:"renderer_base_url"`
}

// GetTimeout returns the adapter timeout as a duration.
func (u UserTargetConfig) GetTimeout() time.Duration {
	return time.Duration(u.Timeout) * time.Millisecond
}

// --- External API Configuration ---

// APIsConfig holds settings for external API integrations. Missing keys or
// base URLs select the deterministic fallbacks at construction time.
type APIsConfig struct {
	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`

	WebSearch struct {
		BaseURL  string `mapstructure:"base_url"`
		APIKey   string `mapstructure:"api_key"`
		EngineID string `mapstructure:"engine_id"`
		Timeout  int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"web_search"`
}

// CacheConfig holds result-cache settings.
type CacheConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

// GetTTL returns the cache TTL as a duration.
func (c CacheConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
