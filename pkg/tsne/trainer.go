package tsne

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/therealutkarshpriyadarshi/bhtsne/pkg/observability"
)

// StepFunc receives the completed iteration count and the current
// KL-divergence proxy after each step. Returning true stops the run.
type StepFunc func(iter int, divergence float64) bool

// TrainerConfig holds configuration for creating a new Trainer
type TrainerConfig struct {
	Logger      *observability.Logger  // nil disables progress logging
	Metrics     *observability.Metrics // nil disables metrics
	LogInterval time.Duration          // minimum interval between progress logs (default: 1s)
}

// Trainer drives an Engine through repeated steps with throttled
// progress logging, metrics recording, and cooperative cancellation
// between steps.
type Trainer struct {
	engine   *Engine
	logger   *observability.Logger
	metrics  *observability.Metrics
	progress rate.Sometimes
}

// NewTrainer creates a trainer around an engine
func NewTrainer(engine *Engine, cfg TrainerConfig) *Trainer {
	interval := cfg.LogInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Trainer{
		engine:   engine,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		progress: rate.Sometimes{First: 1, Interval: interval},
	}
}

// Calibrate supplies the kNN table to the engine, timing and recording
// the calibration pass.
func (t *Trainer) Calibrate(knn [][]Neighbor) error {
	start := time.Now()
	if err := t.engine.InitDataDist(knn); err != nil {
		return err
	}
	elapsed := time.Since(start)
	if t.metrics != nil {
		t.metrics.RecordCalibration(elapsed, t.engine.N())
	}
	if t.logger != nil {
		t.logger.Info("input distribution calibrated", map[string]interface{}{
			"points":   t.engine.N(),
			"k":        len(knn[0]),
			"duration": elapsed,
		})
	}
	return nil
}

// Run executes up to steps iterations. The context is checked between
// steps only; an in-progress step always runs to completion, so the
// engine is never observed mid-update.
func (t *Trainer) Run(ctx context.Context, steps int, stepFunc StepFunc) error {
	for s := 0; s < steps; s++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		if err := t.engine.Step(); err != nil {
			return err
		}
		elapsed := time.Since(start)

		stats := t.engine.Stats()
		div := t.engine.Divergence()
		if t.metrics != nil {
			t.metrics.RecordStep(elapsed, stats.Z, stats.GradientNorm)
			t.metrics.UpdateTree(stats.TreeNodes, stats.TreeDepth)
		}
		if t.logger != nil {
			t.progress.Do(func() {
				t.logger.Info("optimization progress", map[string]interface{}{
					"iteration":  stats.Iteration,
					"divergence": div,
					"z":          stats.Z,
					"tree_nodes": stats.TreeNodes,
				})
			})
		}
		if stepFunc != nil && stepFunc(stats.Iteration, div) {
			return nil
		}
	}
	return nil
}
