package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Env holds process-level overrides from environment variables and an
// optional env file. Real environment variables win over the file.
type Env struct {
	ConfigPath    string `mapstructure:"SDI_CONFIG"`
	Addr          string `mapstructure:"SDI_ADDR"`
	PostgresDSN   string `mapstructure:"POSTGRES_DSN"`
	ClickhouseDSN string `mapstructure:"CLICKHOUSE_DSN"`
	UseMemory     bool   `mapstructure:"SDI_USE_MEMORY"`
	LogLevel      string `mapstructure:"SDI_LOG_LEVEL"`
}

// LoadEnv reads envFile if it exists and overlays environment variables.
// An empty envFile reads the environment only.
func LoadEnv(envFile string) (*Env, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv sees it during Unmarshal.
	for _, key := range []string{"SDI_CONFIG", "SDI_ADDR", "POSTGRES_DSN", "CLICKHOUSE_DSN", "SDI_LOG_LEVEL"} {
		v.SetDefault(key, "")
	}
	v.SetDefault("SDI_USE_MEMORY", false)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read env file %s: %w", envFile, err)
			}
		}
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	return &env, nil
}

// Apply copies the non-empty overrides onto cfg.
func (e *Env) Apply(cfg *Config) {
	if e.Addr != "" {
		cfg.HTTP.Addr = e.Addr
	}
	if e.PostgresDSN != "" {
		cfg.Postgres.DSN = e.PostgresDSN
	}
	if e.ClickhouseDSN != "" {
		cfg.Clickhouse.DSN = e.ClickhouseDSN
	}
	if e.UseMemory {
		cfg.UseMemory = true
	}
	if e.LogLevel != "" {
		cfg.Logging.Level = e.LogLevel
	}
}
