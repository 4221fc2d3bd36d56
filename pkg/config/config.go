// Package config loads engine configuration from an optional YAML file with
// environment-variable overrides, providing typed structs for each subsystem
// (Workers, Fetch, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	Workers WorkersConfig `yaml:"workers"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// WorkersConfig controls the worker pool.
type WorkersConfig struct {
	Threads int `yaml:"threads"`
}

// FetchConfig controls the crawler's HTTP fetcher.
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxRedirects  int           `yaml:"maxRedirects"`
	MaxConcurrent int64         `yaml:"maxConcurrent"`
}

// UnmarshalYAML accepts "30s"-style duration strings and leaves unset keys
// at their defaults.
func (f *FetchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Timeout       string `yaml:"timeout"`
		MaxRedirects  *int   `yaml:"maxRedirects"`
		MaxConcurrent *int64 `yaml:"maxConcurrent"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid fetch timeout %q: %w", raw.Timeout, err)
		}
		f.Timeout = d
	}
	if raw.MaxRedirects != nil {
		f.MaxRedirects = *raw.MaxRedirects
	}
	if raw.MaxConcurrent != nil {
		f.MaxConcurrent = *raw.MaxConcurrent
	}
	return nil
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the optional Prometheus scrape server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment
// overrides on top of defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Workers: WorkersConfig{
			Threads: 5,
		},
		Fetch: FetchConfig{
			Timeout:       30 * time.Second,
			MaxRedirects:  3,
			MaxConcurrent: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9100,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEARCHENGINE_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers.Threads = n
		}
	}
	if v := os.Getenv("SEARCHENGINE_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Fetch.Timeout = d
		}
	}
	if v := os.Getenv("SEARCHENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SEARCHENGINE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SEARCHENGINE_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("SEARCHENGINE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = n
		}
	}
}
