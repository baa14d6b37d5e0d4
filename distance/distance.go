package distance

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
//
// The sum is accumulated in index order so that repeated calls on the same
// inputs are bit-for-bit reproducible.
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero (or non-finite) L2 norm; v is left untouched.
func NormalizeL2InPlace(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	n := Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	floats.Scale(1/n, v)
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float64) ([]float64, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// Mean writes the per-dimension arithmetic mean of rows into dst.
// Returns false (leaving dst untouched) when rows is empty.
func Mean(dst []float64, rows ...[]float64) bool {
	if len(rows) == 0 {
		return false
	}
	clear(dst)
	for _, r := range rows {
		floats.Add(dst, r)
	}
	floats.Scale(1/float64(len(rows)), dst)
	return true
}

// Equal reports whether a and b are component-wise equal.
// This is the exact-stability test used for convergence.
func Equal(a, b []float64) bool {
	return slices.Equal(a, b)
}
