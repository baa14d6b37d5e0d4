package lsh

import (
	"fmt"
	"math"
)

// Params configures a Hasher.
type Params struct {
	// Tau is the similarity threshold for QueryAllSimilar and, for the
	// Euclidean family, the upper bound of the random offsets.
	Tau float64 `json:"tau"`
	// T is the total number of hash functions.
	T int `json:"t"`
	// R is the number of hash codes per band.
	R int `json:"r"`
	// B is the number of bands.
	B int `json:"b"`
	// Euclidean selects the offset bucket family instead of the sign family.
	Euclidean bool `json:"euclidean"`
}

// Validate checks that all counts are positive, Tau is a non-negative
// number and T == R*B.
func (p Params) Validate() error {
	if p.T <= 0 || p.R <= 0 || p.B <= 0 {
		return fmt.Errorf("%w: t=%d r=%d b=%d must be positive", ErrInvalidParams, p.T, p.R, p.B)
	}
	if p.Tau < 0 || math.IsNaN(p.Tau) || math.IsInf(p.Tau, 0) {
		return fmt.Errorf("%w: tau=%v must be a finite non-negative number", ErrInvalidParams, p.Tau)
	}
	if p.T != p.R*p.B {
		return fmt.Errorf("%w: t=%d, r=%d, b=%d", ErrBanding, p.T, p.R, p.B)
	}
	return nil
}
