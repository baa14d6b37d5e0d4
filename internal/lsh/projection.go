package lsh

import (
	"math"
	"math/rand/v2"

	"github.com/hupe1980/songclust/distance"
)

// gaussianVector fills a vector of length dim with standard normal draws
// produced by the Box-Muller transform over pairs of uniform draws.
func gaussianVector(rng *rand.Rand, dim int) []float64 {
	out := make([]float64, dim)
	for i := 0; i < dim; i += 2 {
		// 1-u keeps u1 in (0, 1] so the logarithm stays finite.
		u1 := 1 - rng.Float64()
		u2 := rng.Float64()
		radius := math.Sqrt(-2 * math.Log(u1))
		sin, cos := math.Sincos(2 * math.Pi * u2)
		out[i] = radius * cos
		if i+1 < dim {
			out[i+1] = radius * sin
		}
	}
	return out
}

// unitVector draws a Gaussian vector and scales it to unit length. Draws that
// cannot be normalised are discarded.
func unitVector(rng *rand.Rand, dim int) []float64 {
	for {
		v := gaussianVector(rng, dim)
		if distance.NormalizeL2InPlace(v) {
			return v
		}
	}
}

// projections holds the T hash functions.
type projections struct {
	vectors   [][]float64
	offsets   []float64
	euclidean bool
}

func newProjections(rng *rand.Rand, p Params, dim int) *projections {
	pr := &projections{
		vectors:   make([][]float64, p.T),
		euclidean: p.Euclidean,
	}
	for i := range pr.vectors {
		pr.vectors[i] = unitVector(rng, dim)
	}
	if p.Euclidean {
		pr.offsets = make([]float64, p.T)
		for i := range pr.offsets {
			pr.offsets[i] = rng.Float64() * p.Tau
		}
	}
	return pr
}

func (pr *projections) dim() int {
	return len(pr.vectors[0])
}

// hash computes the signature of vec. vec must have the projection dimension.
func (pr *projections) hash(vec []float64) Signature {
	sig := make(Signature, len(pr.vectors))
	for i, u := range pr.vectors {
		dot := distance.Dot(vec, u)
		if pr.euclidean {
			sig[i] = bucket(dot + pr.offsets[i])
			continue
		}
		if dot > 0 {
			sig[i] = 1
		} else {
			sig[i] = -1
		}
	}
	return sig
}

// bucket returns ceil(x) saturated to the int64 range. NaN maps to 0.
func bucket(x float64) int64 {
	c := math.Ceil(x)
	switch {
	case math.IsNaN(c):
		return 0
	case c >= math.MaxInt64:
		return math.MaxInt64
	case c <= math.MinInt64:
		return math.MinInt64
	}
	return int64(c)
}
