package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 32},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Mixed", []float64{1, -1, 2}, []float64{1, 1, -2}, -4},
		{"Empty", []float64{}, []float64{}, 0},
		{"Single", []float64{2}, []float64{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
		{"Empty", []float64{}, []float64{}, 0},
		{"NotRooted", []float64{0, 0}, []float64{3, 4}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SquaredL2(tt.a, tt.b))
		})
	}
}

func TestNormalizeL2InPlace(t *testing.T) {
	v := []float64{3, 4}
	require.True(t, NormalizeL2InPlace(v))
	assert.InDelta(t, 0.6, v[0], 1e-12)
	assert.InDelta(t, 0.8, v[1], 1e-12)
	assert.InDelta(t, 1.0, Norm(v), 1e-12)

	zero := []float64{0, 0, 0}
	assert.False(t, NormalizeL2InPlace(zero))
	assert.Equal(t, []float64{0, 0, 0}, zero)

	assert.False(t, NormalizeL2InPlace(nil))
	assert.False(t, NormalizeL2InPlace([]float64{math.Inf(1), 1}))
}

func TestNormalizeL2Copy(t *testing.T) {
	src := []float64{0, 2}
	dst, ok := NormalizeL2Copy(src)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 2}, src)
	assert.Equal(t, []float64{0, 1}, dst)

	_, ok = NormalizeL2Copy([]float64{0})
	assert.False(t, ok)
}

func TestMean(t *testing.T) {
	dst := []float64{9, 9}
	require.True(t, Mean(dst, []float64{0, 0}, []float64{0, 1}))
	assert.Equal(t, []float64{0, 0.5}, dst)

	assert.False(t, Mean(dst))
	assert.Equal(t, []float64{0, 0.5}, dst)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]float64{1, 2}, []float64{1, 2}))
	assert.False(t, Equal([]float64{1, 2}, []float64{1, 2.0000001}))
	assert.False(t, Equal([]float64{1}, []float64{1, 2}))
}
