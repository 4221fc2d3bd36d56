package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers.Threads != 5 {
		t.Errorf("Threads = %d, want 5", cfg.Workers.Threads)
	}
	if cfg.Fetch.MaxRedirects != 3 {
		t.Errorf("MaxRedirects = %d, want 3", cfg.Fetch.MaxRedirects)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics enabled by default")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
workers:
  threads: 12
fetch:
  timeout: 10s
  maxRedirects: 1
logging:
  level: debug
metrics:
  enabled: true
  port: 9999
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers.Threads != 12 {
		t.Errorf("Threads = %d, want 12", cfg.Workers.Threads)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxRedirects != 1 {
		t.Errorf("MaxRedirects = %d, want 1", cfg.Fetch.MaxRedirects)
	}
	// Unset keys keep their defaults.
	if cfg.Fetch.MaxConcurrent != 64 {
		t.Errorf("MaxConcurrent = %d, want default 64", cfg.Fetch.MaxConcurrent)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9999 {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEARCHENGINE_THREADS", "9")
	t.Setenv("SEARCHENGINE_LOG_LEVEL", "warn")
	t.Setenv("SEARCHENGINE_FETCH_TIMEOUT", "2s")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers.Threads != 9 {
		t.Errorf("Threads = %d, want 9", cfg.Workers.Threads)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Fetch.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", cfg.Fetch.Timeout)
	}
}
