package lsh

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hupe1980/songclust/dataset"
)

// Hasher owns the random projections and the signature store.
//
// A Hasher is not safe for concurrent use; callers that share one must
// serialise writes (HashData, Insert) against reads.
type Hasher struct {
	params Params
	rng    *rand.Rand
	proj   *projections
	store  *Store
}

// New returns a Hasher for p. rng drives the projection draws; nil means a
// randomly seeded generator.
func New(p Params, rng *rand.Rand) (*Hasher, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Hasher{params: p, rng: rng, store: newStore(p.R, p.B)}, nil
}

// Params returns the hasher's parameters.
func (h *Hasher) Params() Params { return h.params }

// Dim returns the projection dimension, or 0 before the first HashData call.
func (h *Hasher) Dim() int {
	if h.proj == nil {
		return 0
	}
	return h.proj.dim()
}

// Len returns the number of stored signatures.
func (h *Hasher) Len() int { return h.store.Len() }

// HashData draws fresh projections for the dataset's dimension, discards
// every stored signature and hashes each row in order. ctx is checked
// between rows. A row with a NaN or infinite component fails the call and
// leaves the previous state in place.
func (h *Hasher) HashData(ctx context.Context, ds *dataset.Dataset) (*Store, error) {
	for i := range ds.Len() {
		if err := checkFinite(ds.Row(i)); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	proj := newProjections(h.rng, h.params, ds.Dim())
	store := newStore(h.params.R, h.params.B)
	for i := range ds.Len() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		store.add(proj.hash(ds.Row(i)))
	}
	h.proj, h.store = proj, store
	return store, nil
}

// Hash computes the signature of vec with the current projections.
func (h *Hasher) Hash(vec []float64) (Signature, error) {
	if err := h.check(vec); err != nil {
		return nil, err
	}
	return h.proj.hash(vec), nil
}

// Insert hashes vec, appends its signature and returns its index.
func (h *Hasher) Insert(vec []float64) (int, error) {
	sig, err := h.Hash(vec)
	if err != nil {
		return 0, err
	}
	return h.store.add(sig), nil
}

// QueryAllSimilar returns, in ascending order, the indices of stored
// signatures whose estimated similarity to query is strictly above Tau.
//
// Only items sharing at least one identical band with the query are
// compared. Every other item has an estimate of 0, which can never exceed a
// non-negative Tau.
func (h *Hasher) QueryAllSimilar(query []float64) ([]int, error) {
	out, _, err := h.Query(query)
	return out, err
}

// Query is QueryAllSimilar that also reports how many candidates shared a
// band with the query and were scored.
func (h *Hasher) Query(query []float64) ([]int, int, error) {
	q, err := h.Hash(query)
	if err != nil {
		return nil, 0, err
	}

	var out []int
	cands := h.store.candidates(q)
	it := cands.Iterator()
	for it.HasNext() {
		id := int(it.Next())
		if estimate(q, h.store.At(id), h.params.R, h.params.B) > h.params.Tau {
			out = append(out, id)
		}
	}
	return out, int(cands.GetCardinality()), nil
}

// QuerySimilarity returns the banding estimate between stored signatures i and j.
func (h *Hasher) QuerySimilarity(i, j int) (float64, error) {
	n := h.store.Len()
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("%w: (%d, %d), len=%d", ErrIndexOutOfRange, i, j, n)
	}
	return estimate(h.store.At(i), h.store.At(j), h.params.R, h.params.B), nil
}

// Estimate returns the banding estimate between two arbitrary signatures of
// length T.
func (h *Hasher) Estimate(x, y Signature) (float64, error) {
	if len(x) != h.params.T || len(y) != h.params.T {
		return 0, fmt.Errorf("%w: signatures of length %d and %d, t=%d", ErrInvalidParams, len(x), len(y), h.params.T)
	}
	return estimate(x, y, h.params.R, h.params.B), nil
}

// Store returns the signature store.
func (h *Hasher) Store() *Store { return h.store }

func (h *Hasher) check(vec []float64) error {
	if h.proj == nil {
		return ErrNotHashed
	}
	if len(vec) != h.proj.dim() {
		return &ErrDimensionMismatch{Expected: h.proj.dim(), Actual: len(vec)}
	}
	return checkFinite(vec)
}

func checkFinite(vec []float64) error {
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite component %d (%v)", ErrInvalidParams, i, v)
		}
	}
	return nil
}
