package tsne

import "math"

// gaussianSampler turns a uniform-in-[0,1) source into standard-normal
// draws via the Marsaglia polar method. Two uniforms yield two normals;
// the second is cached for the next call. The cache lives here, next to
// the source, so seeded engines never share sampler state.
type gaussianSampler struct {
	uniform  func() float64
	spare    float64
	hasSpare bool
}

// gauss returns one standard-normal sample.
func (g *gaussianSampler) gauss() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}
	for {
		u := 2*g.uniform() - 1
		v := 2*g.uniform() - 1
		r := u*u + v*v
		if r == 0 || r > 1 {
			continue
		}
		f := math.Sqrt(-2 * math.Log(r) / r)
		g.spare = v * f
		g.hasSpare = true
		return u * f
	}
}

// randn returns a sample from N(mu, sigma²).
func (g *gaussianSampler) randn(mu, sigma float64) float64 {
	return mu + sigma*g.gauss()
}
