package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/songclust/distance"
)

func TestUniformVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	for _, vec := range v {
		for _, x := range vec {
			assert.GreaterOrEqual(t, x, 0.0)
			assert.Less(t, x, 1.0)
		}
	}
}

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	for _, vec := range rng.UnitVectors(8, 32) {
		assert.InDelta(t, 1.0, distance.Norm(vec), 1e-9)
	}
}

func TestClusteredDataset(t *testing.T) {
	rng := NewRNG(4711)

	ds, labels := rng.ClusteredDataset(3, 20, 4, 0.1)
	require.Equal(t, 60, ds.Len())
	assert.Equal(t, 4, ds.Dim())
	assert.Len(t, labels, 60)

	// Same-label points are much closer than points of different clusters.
	assert.Less(t, distance.SquaredL2(ds.Row(0), ds.Row(3)), distance.SquaredL2(ds.Row(0), ds.Row(1)))
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformVectors(1, 10)

	rng.Reset()
	v2 := rng.UniformVectors(1, 10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, uint64(4711), rng.Seed())
}

func TestRand_IndependentOfUse(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	_ = b.UniformVectors(5, 5)

	assert.Equal(t, a.Rand(3).Uint64(), b.Rand(3).Uint64())
	assert.NotEqual(t, a.Rand(3).Uint64(), a.Rand(4).Uint64())
}

func TestZipf(t *testing.T) {
	rng := NewRNG(42)
	counts := make([]int, 10)
	for range 5000 {
		v := rng.Zipf(10, 1.5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
		counts[v]++
	}
	assert.Greater(t, counts[0], counts[9])
}

func TestTokenSets(t *testing.T) {
	rng := NewRNG(42)
	sets := rng.TokenSets(20, 100, 10, 1.2)
	require.Len(t, sets, 20)
	for _, s := range sets {
		assert.Len(t, s, 10)
		seen := map[string]bool{}
		for _, tok := range s {
			assert.False(t, seen[tok], "duplicate token %s", tok)
			seen[tok] = true
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b []string
		want float64
	}{
		{[]string{"a", "b"}, []string{"a", "b"}, 1},
		{[]string{"a", "b"}, []string{"c"}, 0},
		{[]string{"a", "b", "c"}, []string{"b", "c", "d"}, 0.5},
		{[]string{"a"}, []string{"a", "a"}, 1},
		{nil, nil, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-12, "%v %v", tt.a, tt.b)
	}
}
