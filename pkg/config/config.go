package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all embedding engine configuration
type Config struct {
	Embedding EmbeddingConfig
	Training  TrainingConfig
	Logging   LoggingConfig
}

// EmbeddingConfig holds the numeric parameters of the engine
type EmbeddingConfig struct {
	Dim        int     // Output dimensions, 2 or 3 (default: 2)
	Perplexity float64 // Target perplexity (default: 30)
	Epsilon    float64 // Gradient descent learning rate (default: 10)
	Theta      float64 // Multipole acceptance threshold (default: 0.8)
	Tolerance  float64 // Calibration entropy tolerance (default: 1e-4)
}

// TrainingConfig holds the training loop configuration
type TrainingConfig struct {
	MaxSteps    int           // Gradient descent iterations (default: 1000)
	Seed        int64         // RNG seed; 0 seeds from the clock
	LogInterval time.Duration // Minimum interval between progress logs (default: 1s)
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // json or text (default: text)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Dim:        2,
			Perplexity: 30,
			Epsilon:    10,
			Theta:      0.8,
			Tolerance:  1e-4,
		},
		Training: TrainingConfig{
			MaxSteps:    1000,
			Seed:        0,
			LogInterval: time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := Default()

	// Embedding configuration
	if dim := os.Getenv("TSNE_DIM"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			cfg.Embedding.Dim = d
		}
	}
	if perp := os.Getenv("TSNE_PERPLEXITY"); perp != "" {
		if p, err := strconv.ParseFloat(perp, 64); err == nil {
			cfg.Embedding.Perplexity = p
		}
	}
	if eps := os.Getenv("TSNE_EPSILON"); eps != "" {
		if e, err := strconv.ParseFloat(eps, 64); err == nil {
			cfg.Embedding.Epsilon = e
		}
	}
	if theta := os.Getenv("TSNE_THETA"); theta != "" {
		if t, err := strconv.ParseFloat(theta, 64); err == nil {
			cfg.Embedding.Theta = t
		}
	}
	if tol := os.Getenv("TSNE_TOLERANCE"); tol != "" {
		if t, err := strconv.ParseFloat(tol, 64); err == nil {
			cfg.Embedding.Tolerance = t
		}
	}

	// Training configuration
	if steps := os.Getenv("TSNE_MAX_STEPS"); steps != "" {
		if s, err := strconv.Atoi(steps); err == nil {
			cfg.Training.MaxSteps = s
		}
	}
	if seed := os.Getenv("TSNE_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Training.Seed = s
		}
	}
	if interval := os.Getenv("TSNE_LOG_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Training.LogInterval = d
		}
	}

	// Logging configuration
	if level := os.Getenv("TSNE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("TSNE_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Embedding.Dim != 2 && c.Embedding.Dim != 3 {
		return fmt.Errorf("invalid dimension: %d (must be 2 or 3)", c.Embedding.Dim)
	}
	if c.Embedding.Perplexity <= 0 {
		return fmt.Errorf("invalid perplexity: %v (must be > 0)", c.Embedding.Perplexity)
	}
	if c.Embedding.Epsilon <= 0 {
		return fmt.Errorf("invalid epsilon: %v (must be > 0)", c.Embedding.Epsilon)
	}
	if c.Embedding.Theta < 0 {
		return fmt.Errorf("invalid theta: %v (must be >= 0)", c.Embedding.Theta)
	}
	if c.Embedding.Tolerance <= 0 {
		return fmt.Errorf("invalid tolerance: %v (must be > 0)", c.Embedding.Tolerance)
	}
	if c.Training.MaxSteps < 1 {
		return fmt.Errorf("invalid max steps: %d (must be >= 1)", c.Training.MaxSteps)
	}
	if c.Training.LogInterval <= 0 {
		return fmt.Errorf("invalid log interval: %v (must be > 0)", c.Training.LogInterval)
	}
	return nil
}
