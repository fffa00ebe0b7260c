// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Service      ServiceConfig     `mapstructure:"service"`
	Cache        CacheConfig       `mapstructure:"cache"`
	Server       ServerConfig      `mapstructure:"server"`
	Logging      LoggingConfig     `mapstructure:"logging"`
	Institutions map[string]string `mapstructure:"institutions"` // id -> display name overrides
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServiceConfig points at the remote eligibility service.
type ServiceConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Timeout        int    `mapstructure:"timeout"`          // milliseconds
	MaxRetries     int    `mapstructure:"max_retries"`      // GET requests only
	RetryBackoffMS int    `mapstructure:"retry_backoff_ms"` // initial backoff
}

// CacheConfig selects the backend for catalog responses (subjects,
// institutions, programs).
type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // memory | redis | none
	TTL     int         `mapstructure:"ttl"`     // seconds
	Prefix  string      `mapstructure:"prefix"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig holds settings for the session API started by `intake serve`.
type ServerConfig struct {
	Address        string `mapstructure:"address"`
	SessionIdleTTL int    `mapstructure:"session_idle_ttl"` // seconds
	MetricsPath    string `mapstructure:"metrics_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CacheKey namespaces a cache key with the configured prefix.
func (c CacheConfig) CacheKey(parts ...string) string {
	key := c.Prefix
	for _, p := range parts {
		key = fmt.Sprintf("%s:%s", key, p)
	}
	return key
}
