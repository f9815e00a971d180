package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the embedding engine
type Metrics struct {
	// Calibration metrics
	CalibrationDuration prometheus.Histogram
	PointsTotal         prometheus.Gauge

	// Optimization metrics
	StepsTotal   prometheus.Counter
	StepDuration prometheus.Histogram
	GradientNorm prometheus.Gauge
	Normalizer   prometheus.Gauge

	// Partitioning tree metrics
	TreeNodes prometheus.Gauge
	TreeDepth prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		CalibrationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tsne_calibration_duration_seconds",
				Help:    "Perplexity calibration duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		PointsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tsne_points",
				Help: "Number of points in the current embedding",
			},
		),
		StepsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tsne_steps_total",
				Help: "Total number of optimization steps",
			},
		),
		StepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tsne_step_duration_seconds",
				Help:    "Optimization step duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		GradientNorm: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tsne_gradient_norm",
				Help: "Euclidean norm of the most recent gradient",
			},
		),
		Normalizer: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tsne_normalizer",
				Help: "Normalizer Z of the low-dimensional affinities",
			},
		),
		TreeNodes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tsne_tree_nodes",
				Help: "Nodes in the most recent partitioning tree",
			},
		),
		TreeDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tsne_tree_depth",
				Help: "Depth of the most recent partitioning tree",
			},
		),
	}

	return m
}

// RecordCalibration records a perplexity calibration pass
func (m *Metrics) RecordCalibration(duration time.Duration, points int) {
	m.CalibrationDuration.Observe(duration.Seconds())
	m.PointsTotal.Set(float64(points))
}

// RecordStep records one optimization step
func (m *Metrics) RecordStep(duration time.Duration, z, gradientNorm float64) {
	m.StepsTotal.Inc()
	m.StepDuration.Observe(duration.Seconds())
	m.Normalizer.Set(z)
	m.GradientNorm.Set(gradientNorm)
}

// UpdateTree records the shape of the most recent partitioning tree
func (m *Metrics) UpdateTree(nodes, depth int) {
	m.TreeNodes.Set(float64(nodes))
	m.TreeDepth.Set(float64(depth))
}
