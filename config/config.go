// Package config loads the service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	HTTP     HTTPConfig     `yaml:"http"`
	Import   ImportConfig   `yaml:"import"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds the HTTP listener configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// ImportConfig bounds how often bulk imports may run.
type ImportConfig struct {
	RatePerMinute float64 `yaml:"rate_per_minute"`
	Burst         int     `yaml:"burst"`
}

// LoadConfig loads the configuration from a YAML file. A missing file falls
// back to environment variables only; env vars override file values either way.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("IMPORT_RATE_PER_MINUTE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Import.RatePerMinute = f
		}
	}
	if v := os.Getenv("IMPORT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Import.Burst = n
		}
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN not set (config file or DATABASE_URL)")
	}
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.Import.RatePerMinute <= 0 {
		cfg.Import.RatePerMinute = 6
	}
	if cfg.Import.Burst <= 0 {
		cfg.Import.Burst = 2
	}

	return &cfg, nil
}
