// Package tsne implements a Barnes-Hut accelerated t-SNE embedding
// engine. Given a precomputed k-nearest-neighbor graph it iteratively
// produces a 2-D or 3-D embedding that preserves local neighborhood
// structure, approximating long-range repulsive forces through a
// space-partitioning tree so each step runs in O(N log N).
package tsne

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/therealutkarshpriyadarshi/bhtsne/internal/sptree"
	"github.com/therealutkarshpriyadarshi/bhtsne/pkg/config"
)

const (
	// DefaultPerplexity is the target perplexity of the Gaussian
	// kernels in the original feature space.
	DefaultPerplexity = 30.0
	// DefaultEpsilon is the gradient descent learning rate.
	DefaultEpsilon = 10.0
	// DefaultTheta is the multipole acceptance threshold. A negative
	// threshold descends to the leaves and makes the repulsive pass
	// exact.
	DefaultTheta = 0.8
	// DefaultTolerance bounds the entropy error accepted by the
	// perplexity calibration.
	DefaultTolerance = 1e-4

	// initialStdDev spreads the random initial embedding.
	initialStdDev = 1e-4
	// minGain floors the per-coordinate learning-rate multiplier.
	minGain = 0.01
	// exaggerationCutoff is the iteration at which the attractive
	// multiplier drops back to 1.
	exaggerationCutoff = 100
	// earlyExaggeration scales attractive forces before the cutoff.
	earlyExaggeration = 4.0
	// momentumCutoff is the iteration at which momentum switches from
	// its initial to its final value.
	momentumCutoff = 250
)

// Config holds configuration for creating a new Engine.
type Config struct {
	Dim        int            // Output dimensions, 2 or 3
	Perplexity float64        // Target perplexity (default: 30)
	Epsilon    float64        // Learning rate (default: 10)
	Theta      float64        // Multipole threshold (default: 0.8; negative requests the exact walk)
	Tolerance  float64        // Calibration entropy tolerance (default: 1e-4)
	Rand       func() float64 // Uniform [0,1) source (default: clock-seeded math/rand)
}

// DefaultConfig returns a configuration with recommended default values.
func DefaultConfig() Config {
	return Config{
		Dim:        2,
		Perplexity: DefaultPerplexity,
		Epsilon:    DefaultEpsilon,
		Theta:      DefaultTheta,
		Tolerance:  DefaultTolerance,
	}
}

// Engine owns the probability matrix and the evolving solution. It is
// single-threaded at the contract level: a Step runs to completion
// before any other method may be called.
type Engine struct {
	dim        int
	perplexity float64
	epsilon    float64
	theta      float64
	tol        float64
	distance   DistanceFunc
	gauss      gaussianSampler

	n   int
	p   *mat.Dense
	knn [][]Neighbor

	y     []float64 // embedding, row-major n×dim
	gains []float64 // per-coordinate learning-rate multipliers
	step  []float64 // previous update vector (momentum accumulator)
	iter  int

	lastZ         float64
	lastGradNorm  float64
	lastTreeNodes int
	lastTreeDepth int
	initialized   bool
}

// New creates a new embedding engine with the given configuration.
func New(cfg Config) (*Engine, error) {
	if cfg.Dim != 2 && cfg.Dim != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedDimension, cfg.Dim)
	}

	// Apply defaults if not set. A negative Theta is kept as-is: it
	// requests the exact repulsive walk.
	if cfg.Perplexity <= 0 {
		cfg.Perplexity = DefaultPerplexity
	}
	if cfg.Theta == 0 {
		cfg.Theta = DefaultTheta
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano())).Float64
	}

	return &Engine{
		dim:        cfg.Dim,
		perplexity: cfg.Perplexity,
		epsilon:    cfg.Epsilon,
		theta:      cfg.Theta,
		tol:        cfg.Tolerance,
		distance:   kernelFor(cfg.Dim),
		gauss:      gaussianSampler{uniform: cfg.Rand},
	}, nil
}

// NewFromConfig creates an engine from the environment-driven
// configuration. A nonzero seed yields a reproducible trajectory.
func NewFromConfig(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := Config{
		Dim:        cfg.Embedding.Dim,
		Perplexity: cfg.Embedding.Perplexity,
		Epsilon:    cfg.Embedding.Epsilon,
		Theta:      cfg.Embedding.Theta,
		Tolerance:  cfg.Embedding.Tolerance,
	}
	if cfg.Training.Seed != 0 {
		c.Rand = rand.New(rand.NewSource(cfg.Training.Seed)).Float64
	}
	return New(c)
}

// InitDataDist supplies the kNN table, calibrates the joint probability
// matrix, and draws a fresh random solution. knn[i] lists the neighbors
// of point i; K must be uniform across rows and every index must fall
// in [0, len(knn)).
func (e *Engine) InitDataDist(knn [][]Neighbor) error {
	n := len(knn)
	if n == 0 {
		return fmt.Errorf("%w: table has no rows", ErrInvalidNeighbors)
	}
	k := len(knn[0])
	if k == 0 {
		return fmt.Errorf("%w: rows have no neighbors", ErrInvalidNeighbors)
	}
	for i, row := range knn {
		if len(row) != k {
			return fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidNeighbors, i, len(row), k)
		}
		for _, nb := range row {
			if nb.Index < 0 || nb.Index >= n {
				return fmt.Errorf("%w: row %d references point %d outside [0,%d)", ErrInvalidNeighbors, i, nb.Index, n)
			}
		}
	}

	e.n = n
	e.knn = knn
	e.p = calibrate(knn, e.perplexity, e.tol)
	e.initialized = true
	e.initSolution()
	return nil
}

// InitSolution discards the current embedding and restarts from a fresh
// random draw, keeping the calibrated probabilities.
func (e *Engine) InitSolution() error {
	if !e.initialized {
		return ErrUninitialized
	}
	e.initSolution()
	return nil
}

// initSolution samples Y from N(0, initialStdDev²) and resets gains,
// step memory, and the iteration counter.
func (e *Engine) initSolution() {
	e.y = make([]float64, e.n*e.dim)
	for i := range e.y {
		e.y[i] = e.gauss.randn(0, initialStdDev)
	}
	e.gains = make([]float64, e.n*e.dim)
	for i := range e.gains {
		e.gains[i] = 1
	}
	e.step = make([]float64, e.n*e.dim)
	e.iter = 0
	e.lastZ = 0
	e.lastGradNorm = 0
	e.lastTreeNodes = 0
	e.lastTreeDepth = 0
}

// Step runs one optimization iteration: it partitions the current
// embedding, evaluates the gradient, and applies the adaptive update.
// The solution and the iteration counter change together at the end of
// the step, so an engine is never left between states.
func (e *Engine) Step() error {
	if !e.initialized {
		return ErrUninitialized
	}
	tree := sptree.Build(e.dim, e.y)
	grad, z := e.gradient(tree)
	e.lastZ = z
	e.lastTreeNodes = tree.Len()
	e.lastTreeDepth = tree.Depth()
	e.applyUpdate(grad)
	return nil
}

// Solution returns the live row-major N×Dim embedding. Callers must
// treat it as read-only; the next Step mutates it in place.
func (e *Engine) Solution() []float64 {
	return e.y
}

// N returns the number of embedded points.
func (e *Engine) N() int {
	return e.n
}

// Dim returns the output dimension.
func (e *Engine) Dim() int {
	return e.dim
}

// Iteration returns the number of completed steps.
func (e *Engine) Iteration() int {
	return e.iter
}

// Stats is a snapshot of engine state after the most recent step.
type Stats struct {
	N            int
	Dim          int
	Iteration    int
	Z            float64 // normalizer of the low-dimensional affinities
	GradientNorm float64
	TreeNodes    int
	TreeDepth    int
}

// Stats returns current engine statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		N:            e.n,
		Dim:          e.dim,
		Iteration:    e.iter,
		Z:            e.lastZ,
		GradientNorm: e.lastGradNorm,
		TreeNodes:    e.lastTreeNodes,
		TreeDepth:    e.lastTreeDepth,
	}
}

// divergenceEpsilon guards the log against a vanishing affinity.
const divergenceEpsilon = 1e-12

// Divergence computes the KL-divergence proxy Σ P·log(P/(Q+ε)) over the
// sparse support, using the normalizer from the most recent step. It
// returns NaN before the first step.
func (e *Engine) Divergence() float64 {
	if !e.initialized || e.iter == 0 || e.lastZ == 0 {
		return math.NaN()
	}
	var div float64
	for i, row := range e.knn {
		yi := e.y[i*e.dim : (i+1)*e.dim]
		for _, nb := range row {
			pij := e.p.At(i, nb.Index)
			if pij <= 0 {
				continue
			}
			yj := e.y[nb.Index*e.dim : (nb.Index+1)*e.dim]
			q := 1 / ((1 + e.distance(yi, yj)) * e.lastZ)
			div += pij * math.Log(pij/(q+divergenceEpsilon))
		}
	}
	return div
}
