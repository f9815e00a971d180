package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Test Embedding defaults
	if cfg.Embedding.Dim != 2 {
		t.Errorf("Expected dim 2, got %d", cfg.Embedding.Dim)
	}
	if cfg.Embedding.Perplexity != 30 {
		t.Errorf("Expected perplexity 30, got %v", cfg.Embedding.Perplexity)
	}
	if cfg.Embedding.Epsilon != 10 {
		t.Errorf("Expected epsilon 10, got %v", cfg.Embedding.Epsilon)
	}
	if cfg.Embedding.Theta != 0.8 {
		t.Errorf("Expected theta 0.8, got %v", cfg.Embedding.Theta)
	}
	if cfg.Embedding.Tolerance != 1e-4 {
		t.Errorf("Expected tolerance 1e-4, got %v", cfg.Embedding.Tolerance)
	}

	// Test Training defaults
	if cfg.Training.MaxSteps != 1000 {
		t.Errorf("Expected max steps 1000, got %d", cfg.Training.MaxSteps)
	}
	if cfg.Training.Seed != 0 {
		t.Errorf("Expected seed 0, got %d", cfg.Training.Seed)
	}
	if cfg.Training.LogInterval != time.Second {
		t.Errorf("Expected log interval 1s, got %v", cfg.Training.LogInterval)
	}

	// Test Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected log format text, got %s", cfg.Logging.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration should validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TSNE_DIM", "3")
	t.Setenv("TSNE_PERPLEXITY", "15.5")
	t.Setenv("TSNE_EPSILON", "50")
	t.Setenv("TSNE_THETA", "0.5")
	t.Setenv("TSNE_TOLERANCE", "1e-5")
	t.Setenv("TSNE_MAX_STEPS", "250")
	t.Setenv("TSNE_SEED", "42")
	t.Setenv("TSNE_LOG_INTERVAL", "5s")
	t.Setenv("TSNE_LOG_LEVEL", "debug")
	t.Setenv("TSNE_LOG_FORMAT", "json")

	cfg := LoadFromEnv()

	if cfg.Embedding.Dim != 3 {
		t.Errorf("Expected dim 3, got %d", cfg.Embedding.Dim)
	}
	if cfg.Embedding.Perplexity != 15.5 {
		t.Errorf("Expected perplexity 15.5, got %v", cfg.Embedding.Perplexity)
	}
	if cfg.Embedding.Epsilon != 50 {
		t.Errorf("Expected epsilon 50, got %v", cfg.Embedding.Epsilon)
	}
	if cfg.Embedding.Theta != 0.5 {
		t.Errorf("Expected theta 0.5, got %v", cfg.Embedding.Theta)
	}
	if cfg.Embedding.Tolerance != 1e-5 {
		t.Errorf("Expected tolerance 1e-5, got %v", cfg.Embedding.Tolerance)
	}
	if cfg.Training.MaxSteps != 250 {
		t.Errorf("Expected max steps 250, got %d", cfg.Training.MaxSteps)
	}
	if cfg.Training.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Training.Seed)
	}
	if cfg.Training.LogInterval != 5*time.Second {
		t.Errorf("Expected log interval 5s, got %v", cfg.Training.LogInterval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Logging.Format)
	}
}

func TestLoadFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("TSNE_DIM", "not-a-number")
	t.Setenv("TSNE_PERPLEXITY", "")
	t.Setenv("TSNE_LOG_INTERVAL", "soon")

	cfg := LoadFromEnv()

	if cfg.Embedding.Dim != 2 {
		t.Errorf("Invalid dim should keep default 2, got %d", cfg.Embedding.Dim)
	}
	if cfg.Embedding.Perplexity != 30 {
		t.Errorf("Empty perplexity should keep default 30, got %v", cfg.Embedding.Perplexity)
	}
	if cfg.Training.LogInterval != time.Second {
		t.Errorf("Invalid interval should keep default 1s, got %v", cfg.Training.LogInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"dimension too low", func(c *Config) { c.Embedding.Dim = 1 }},
		{"dimension too high", func(c *Config) { c.Embedding.Dim = 4 }},
		{"zero perplexity", func(c *Config) { c.Embedding.Perplexity = 0 }},
		{"negative perplexity", func(c *Config) { c.Embedding.Perplexity = -5 }},
		{"zero epsilon", func(c *Config) { c.Embedding.Epsilon = 0 }},
		{"negative theta", func(c *Config) { c.Embedding.Theta = -0.1 }},
		{"zero tolerance", func(c *Config) { c.Embedding.Tolerance = 0 }},
		{"zero max steps", func(c *Config) { c.Training.MaxSteps = 0 }},
		{"zero log interval", func(c *Config) { c.Training.LogInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
