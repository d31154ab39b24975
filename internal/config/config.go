// Package config loads service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Clickhouse ClickhouseConfig `yaml:"clickhouse"`
	Sync       SyncConfig       `yaml:"sync"`
	Logging    LoggingConfig    `yaml:"logging"`
	UseMemory  bool             `yaml:"use_memory"`
}

type HTTPConfig struct {
	Addr                   string `yaml:"addr"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	MaxBodyBytes           int64  `yaml:"max_body_bytes"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type ClickhouseConfig struct {
	DSN string `yaml:"dsn"`
}

type SyncConfig struct {
	RateLimitWindow string `yaml:"rate_limit_window"`
	MinTokenLength  int    `yaml:"min_token_length"`
	DefaultPlatform string `yaml:"default_platform"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads the YAML file at path, applies defaults and validates.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ReadTimeoutSeconds == 0 {
		cfg.HTTP.ReadTimeoutSeconds = 15
	}
	if cfg.HTTP.WriteTimeoutSeconds == 0 {
		cfg.HTTP.WriteTimeoutSeconds = 30
	}
	if cfg.HTTP.ShutdownTimeoutSeconds == 0 {
		cfg.HTTP.ShutdownTimeoutSeconds = 10
	}
	if cfg.HTTP.MaxBodyBytes == 0 {
		cfg.HTTP.MaxBodyBytes = 10 << 20
	}
	if cfg.Sync.RateLimitWindow == "" {
		cfg.Sync.RateLimitWindow = "1m"
	}
	if cfg.Sync.MinTokenLength == 0 {
		cfg.Sync.MinTokenLength = 10
	}
	if cfg.Sync.DefaultPlatform == "" {
		cfg.Sync.DefaultPlatform = "MT4"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Sync.RateLimitWindow); err != nil {
		return fmt.Errorf("invalid sync.rate_limit_window %q: %w", c.Sync.RateLimitWindow, err)
	}
	if c.RateLimitWindow() < 0 {
		return fmt.Errorf("sync.rate_limit_window must not be negative")
	}
	if c.Sync.MinTokenLength < 1 {
		return fmt.Errorf("sync.min_token_length must be positive")
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http.max_body_bytes must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	return nil
}

// RequireStores checks that persistent store DSNs are set unless running in memory.
func (c *Config) RequireStores() error {
	if c.UseMemory {
		return nil
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required (or set use_memory)")
	}
	if c.Clickhouse.DSN == "" {
		return fmt.Errorf("clickhouse.dsn is required (or set use_memory)")
	}
	return nil
}

func (c *Config) RateLimitWindow() time.Duration {
	d, _ := time.ParseDuration(c.Sync.RateLimitWindow)
	return d
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.HTTP.ReadTimeoutSeconds) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.HTTP.WriteTimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.HTTP.ShutdownTimeoutSeconds) * time.Second
}
