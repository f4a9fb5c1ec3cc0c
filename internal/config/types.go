package config

import (
	"time"

	"github.com/nordtime/aiguard/internal/cache"
	"github.com/nordtime/aiguard/internal/store"
)

// Config represents the main configuration structure
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Budget  BudgetConfig  `yaml:"budget" mapstructure:"budget"`
	Store   store.Config  `yaml:"store" mapstructure:"store"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Events  EventsConfig  `yaml:"events" mapstructure:"events"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	RateLimit    struct {
		Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
		RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
		Burst          int     `yaml:"burst" mapstructure:"burst"`
	} `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// BudgetConfig contains the spend ceilings in cents.
type BudgetConfig struct {
	DailyLimitCents   float64 `yaml:"daily_limit_cents" mapstructure:"daily_limit_cents"`
	MonthlyLimitCents float64 `yaml:"monthly_limit_cents" mapstructure:"monthly_limit_cents"`
}

// CacheConfig wraps the spend cache settings with an enable switch.
type CacheConfig struct {
	Enabled      bool `yaml:"enabled" mapstructure:"enabled"`
	cache.Config `yaml:",inline" mapstructure:",squash"`
}

// EventsConfig contains dashboard event feed configuration.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Budget: BudgetConfig{
			DailyLimitCents:   500,
			MonthlyLimitCents: 5000,
		},
		Store: store.Config{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Events: EventsConfig{
			Enabled: true,
			Path:    "/ws",
		},
	}

	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerSec = 10
	cfg.Server.RateLimit.Burst = 20

	cfg.Cache.Enabled = false
	cfg.Cache.MaxConnections = 10
	cfg.Cache.MinIdleConns = 2
	cfg.Cache.SpendTTL = 30 * time.Second

	return cfg
}
