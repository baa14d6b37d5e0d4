package lsh

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Snapshot is the serialisable state of a Hasher.
type Snapshot struct {
	Params     Params      `json:"params"`
	Vectors    [][]float64 `json:"vectors"`
	Offsets    []float64   `json:"offsets,omitempty"`
	Signatures []Signature `json:"signatures"`
}

// Snapshot copies the hasher's projections and signatures.
func (h *Hasher) Snapshot() (*Snapshot, error) {
	if h.proj == nil {
		return nil, ErrNotHashed
	}
	s := &Snapshot{
		Params:     h.params,
		Vectors:    make([][]float64, len(h.proj.vectors)),
		Offsets:    slices.Clone(h.proj.offsets),
		Signatures: make([]Signature, h.store.Len()),
	}
	for i, v := range h.proj.vectors {
		s.Vectors[i] = slices.Clone(v)
	}
	for i, sig := range h.store.Signatures() {
		s.Signatures[i] = slices.Clone(sig)
	}
	return s, nil
}

// Restore rebuilds a Hasher from a snapshot without rehashing. rng is used
// only by later HashData calls; nil means a randomly seeded generator.
func Restore(s *Snapshot, rng *rand.Rand) (*Hasher, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	h, err := New(s.Params, rng)
	if err != nil {
		return nil, err
	}
	if len(s.Vectors) != s.Params.T {
		return nil, fmt.Errorf("%w: %d projections, t=%d", ErrInvalidSnapshot, len(s.Vectors), s.Params.T)
	}
	dim := len(s.Vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty projection", ErrInvalidSnapshot)
	}
	for _, v := range s.Vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: ragged projections", ErrInvalidSnapshot)
		}
	}
	if s.Params.Euclidean && len(s.Offsets) != s.Params.T {
		return nil, fmt.Errorf("%w: %d offsets, t=%d", ErrInvalidSnapshot, len(s.Offsets), s.Params.T)
	}

	proj := &projections{euclidean: s.Params.Euclidean, vectors: make([][]float64, len(s.Vectors))}
	for i, v := range s.Vectors {
		proj.vectors[i] = slices.Clone(v)
	}
	if s.Params.Euclidean {
		proj.offsets = slices.Clone(s.Offsets)
	}

	for i, sig := range s.Signatures {
		if len(sig) != s.Params.T {
			return nil, fmt.Errorf("%w: signature %d has %d codes, t=%d", ErrInvalidSnapshot, i, len(sig), s.Params.T)
		}
		h.store.add(slices.Clone(sig))
	}
	h.proj = proj
	return h, nil
}
