package testutil

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/distance"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: newRand(seed),
		seed: seed,
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = newRand(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Rand returns an independent generator for stream. The same seed and stream
// always produce the same sequence, regardless of how r has been used.
func (r *RNG) Rand(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(r.seed, stream))
}

// IntN returns a pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array.
func (r *RNG) UniformVectors(num, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)
	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}
	return vectors
}

// UnitVectors generates random vectors uniformly distributed on the unit
// sphere.
func (r *RNG) UnitVectors(num, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([][]float64, num)
	for i := range num {
		vectors[i] = r.unitVectorLocked(dimensions)
	}
	return vectors
}

func (r *RNG) unitVectorLocked(dimensions int) []float64 {
	vec := make([]float64, dimensions)
	for {
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		if distance.NormalizeL2InPlace(vec) {
			return vec
		}
	}
}

// ClusteredVectors generates num vectors around clusters well separated
// centroids with Gaussian noise of the given spread. Point i belongs to
// cluster i % clusters, which is returned as its label.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float64) ([][]float64, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centroids := make([][]float64, clusters)
	for c := range centroids {
		centroids[c] = r.unitVectorLocked(dim)
		for j := range centroids[c] {
			// Scale so neighbouring centroids are far apart relative to spread.
			centroids[c][j] *= 10
		}
	}

	data := make([]float64, num*dim)
	vectors := make([][]float64, num)
	labels := make([]int, num)
	for i := range num {
		c := i % clusters
		vec := data[i*dim : (i+1)*dim]
		for j := range vec {
			vec[j] = centroids[c][j] + r.rand.NormFloat64()*spread
		}
		vectors[i] = vec
		labels[i] = c
	}
	return vectors, labels
}

// ClusteredDataset is like ClusteredVectors with perCluster points per
// cluster, wrapped in a Dataset.
func (r *RNG) ClusteredDataset(clusters, perCluster, dim int, spread float64) (*dataset.Dataset, []int) {
	vectors, labels := r.ClusteredVectors(clusters*perCluster, dim, clusters, spread)
	return dataset.MustNew(vectors), labels
}

// Zipf returns a Zipfian-distributed value in [0, n).
// s must be greater than 1; larger values give a heavier head.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(rand.NewZipf(r.rand, s, 1, uint64(n-1)).Uint64())
}

// TokenSets generates num observations of size distinct tokens drawn from a
// Zipfian vocabulary of vocab terms. size must not exceed vocab.
func (r *RNG) TokenSets(num, vocab, size int, s float64) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	z := rand.NewZipf(r.rand, s, 1, uint64(vocab-1))
	out := make([][]string, num)
	for i := range out {
		seen := make(map[uint64]struct{}, size)
		tokens := make([]string, 0, size)
		for len(tokens) < size {
			t := z.Uint64()
			if _, ok := seen[t]; ok {
				// Heavy heads repeat; fall back to uniform to finish the set.
				t = r.rand.Uint64N(uint64(vocab))
				if _, ok := seen[t]; ok {
					continue
				}
			}
			seen[t] = struct{}{}
			tokens = append(tokens, fmt.Sprintf("t%d", t))
		}
		out[i] = tokens
	}
	return out
}

// Jaccard returns the exact Jaccard similarity of two token sets.
func Jaccard(a, b []string) float64 {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	inter := 0
	union := len(set)
	seenB := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seenB[t]; dup {
			continue
		}
		seenB[t] = struct{}{}
		if _, ok := set[t]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}
