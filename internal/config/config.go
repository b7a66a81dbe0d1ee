// Package config loads the CLI/server configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type StorageConfig struct {
	// PostgreSQL DSN. If empty, read from env CURIO_DSN.
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	// "production" (default) or "development".
	Mode string `yaml:"mode"`
}

type MetricsConfig struct {
	// Prometheus listen address, e.g. ":9090". Empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{DSN: ""},
		Log:     LogConfig{Mode: "production"},
		Metrics: MetricsConfig{Addr: ""},
	}
}

// Load reads the file at path (when non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}
	if v := os.Getenv("CURIO_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("CURIO_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return cfg, nil
}

// Validate checks required fields.
func (c Config) Validate() error {
	if c.Storage.DSN == "" {
		return errors.New("config: storage.dsn is required (or set CURIO_DSN)")
	}
	return nil
}
