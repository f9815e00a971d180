package tsne

// applyUpdate performs one adaptive gradient-descent update: per-
// coordinate gains driven by sign agreement with the previous step,
// two-phase momentum, then a recentring pass so the embedding keeps a
// zero column mean. The iteration counter advances with the solution.
func (e *Engine) applyUpdate(grad []float64) {
	dim := e.dim
	momentum := 0.5
	if e.iter >= momentumCutoff {
		momentum = 0.8
	}

	var mean [3]float64
	for idx, g := range grad {
		gain := e.gains[idx]
		if sign(g) == sign(e.step[idx]) {
			gain *= 0.8
		} else {
			gain += 0.2
		}
		if gain < minGain {
			gain = minGain
		}
		e.gains[idx] = gain

		st := momentum*e.step[idx] - e.epsilon*gain*g
		e.step[idx] = st
		e.y[idx] += st
		mean[idx%dim] += e.y[idx]
	}

	inv := 1 / float64(e.n)
	for idx := range e.y {
		e.y[idx] -= mean[idx%dim] * inv
	}
	e.iter++
}

// sign returns -1, 0, or 1.
func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
