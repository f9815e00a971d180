package tsne

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// minProb floors every raw conditional probability before
	// normalization so no row loses its neighbors to underflow.
	minProb = 1e-9
	// entropyFloor skips near-zero terms in the entropy sum.
	entropyFloor = 1e-7
	// maxCalibrationTries caps the per-row precision search; the final
	// trial is accepted as a best-effort fit.
	maxCalibrationTries = 50
)

// Neighbor is one entry of the caller-supplied kNN table: the index of
// a neighboring point and its distance in the original feature space.
type Neighbor struct {
	Index int
	Dist  float64
}

// calibrate converts per-row neighbor distances into the symmetric
// joint probability matrix. For each row it binary-searches the
// Gaussian precision beta until the row entropy matches
// log(perplexity), then the whole matrix is symmetrized and normalized
// once. The result is never renormalized afterwards.
func calibrate(knn [][]Neighbor, perplexity, tol float64) *mat.Dense {
	n := len(knn)
	p := mat.NewDense(n, n, nil)
	htarget := math.Log(perplexity)

	row := make([]float64, len(knn[0]))
	for i := range knn {
		betaMin := math.Inf(-1)
		betaMax := math.Inf(1)
		beta := 1.0
		for tries := 0; tries < maxCalibrationTries; tries++ {
			// Raw probabilities at the current precision.
			sum := 0.0
			for j, nb := range knn[i] {
				var pj float64
				if nb.Index != i {
					pj = math.Exp(-nb.Dist * beta)
					if pj < minProb {
						pj = minProb
					}
				}
				row[j] = pj
				sum += pj
			}
			// Normalize and measure the row entropy. A row whose only
			// neighbor is itself has no mass to distribute.
			var h float64
			for j := range row {
				if sum == 0 {
					row[j] = 0
					continue
				}
				row[j] /= sum
				if row[j] > entropyFloor {
					h -= row[j] * math.Log(row[j])
				}
			}
			hdiff := h - htarget
			if math.Abs(hdiff) < tol {
				break
			}
			if hdiff > 0 {
				// Entropy too high: sharpen the kernel.
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				// Entropy too low: widen the kernel.
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}
		for j, nb := range knn[i] {
			p.Set(i, nb.Index, row[j])
		}
	}

	// Symmetrize into the joint distribution. Total mass becomes 1 over
	// the union of directed neighbor pairs.
	inv := 1 / (2 * float64(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := (p.At(i, j) + p.At(j, i)) * inv
			p.Set(i, j, s)
			p.Set(j, i, s)
		}
	}
	return p
}
