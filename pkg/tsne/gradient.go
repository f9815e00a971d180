package tsne

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/therealutkarshpriyadarshi/bhtsne/internal/sptree"
)

// gradient evaluates the KL gradient for the current embedding. The
// attractive term is exact over the kNN rows; the repulsive term walks
// the partitioning tree under the multipole criterion and is
// normalized by the returned Z.
func (e *Engine) gradient(tree *sptree.Tree) ([]float64, float64) {
	dim := e.dim
	grad := make([]float64, e.n*dim)
	pos := make([]float64, e.n*dim)
	neg := make([]float64, e.n*dim)
	var z float64

	// Attractive forces: P[i,j] · 1/(1+||yi−yj||²) · (yi−yj) over each
	// row's neighbors.
	for i, row := range e.knn {
		yi := e.y[i*dim : (i+1)*dim]
		base := i * dim
		for _, nb := range row {
			yj := e.y[nb.Index*dim : (nb.Index+1)*dim]
			q := 1 / (1 + e.distance(yi, yj))
			pq := e.p.At(i, nb.Index) * q
			for d := 0; d < dim; d++ {
				pos[base+d] += pq * (yi[d] - yj[d])
			}
		}
	}

	// Repulsive forces: a cell is summarized as one aggregate charge at
	// its centroid when it is a leaf or passes the multipole test.
	// A rejected cell still contributes a singleton charge at its
	// construction-time representative before the walk descends; exact
	// mode (negative theta) elides that term so the walk reduces to
	// the plain pairwise sum.
	exact := e.theta < 0
	for i := 0; i < e.n; i++ {
		yi := e.y[i*dim : (i+1)*dim]
		base := i * dim
		tree.Walk(func(nd sptree.Node) bool {
			var s2 float64
			for d := 0; d < dim; d++ {
				diff := yi[d] - nd.Centroid[d]
				s2 += diff * diff
			}
			if nd.Leaf || (s2 > 0 && nd.Extent < e.theta*math.Sqrt(s2)) {
				q := 1 / (1 + s2)
				m := float64(nd.Count)
				z += m * q
				mq2 := m * q * q
				for d := 0; d < dim; d++ {
					neg[base+d] += mq2 * (yi[d] - nd.Centroid[d])
				}
				return true
			}
			if !exact {
				var r2 float64
				for d := 0; d < dim; d++ {
					diff := yi[d] - nd.Point[d]
					r2 += diff * diff
				}
				q := 1 / (1 + r2)
				z += q
				q2 := q * q
				for d := 0; d < dim; d++ {
					neg[base+d] += q2 * (yi[d] - nd.Point[d])
				}
			}
			return false
		})
	}

	// Combine. Early exaggeration scales the attractive side; the
	// repulsive side is normalized by Z.
	a := 4 * e.exaggeration()
	b := 4 / z
	for idx := range grad {
		grad[idx] = a*pos[idx] - b*neg[idx]
	}
	e.lastGradNorm = floats.Norm(grad, 2)
	return grad, z
}

// exaggeration returns the attractive-force multiplier for the current
// iteration.
func (e *Engine) exaggeration() float64 {
	if e.iter < exaggerationCutoff {
		return earlyExaggeration
	}
	return 1
}
