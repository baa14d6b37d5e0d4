package minhash

import (
	"encoding/binary"
	"fmt"
	"hash"
	"slices"

	"golang.org/x/crypto/blake2b"
)

// Signature holds one minimum hash value per salt, each in [0, m).
type Signature []uint64

// Estimator hashes observations and keeps their signatures in insertion
// order.
//
// An Estimator is not safe for concurrent use.
type Estimator struct {
	k      int
	m      uint64
	hashes []hash.Hash
	sigs   []Signature
	buf    [blake2b.Size256]byte
}

// New returns an Estimator with k hash functions ranging over [0, m).
func New(k int, m uint64) (*Estimator, error) {
	if k <= 0 || m == 0 {
		return nil, fmt.Errorf("%w: k=%d, m=%d", ErrInvalidParams, k, m)
	}
	e := &Estimator{k: k, m: m, hashes: make([]hash.Hash, k)}
	for salt := range k {
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], uint64(salt))
		h, err := blake2b.New256(key[:])
		if err != nil {
			return nil, err
		}
		e.hashes[salt] = h
	}
	return e, nil
}

// K returns the number of hash functions.
func (e *Estimator) K() int { return e.k }

// M returns the hash value range.
func (e *Estimator) M() uint64 { return e.m }

// Len returns the number of stored signatures.
func (e *Estimator) Len() int { return len(e.sigs) }

// Hash returns the value of hash function salt for token.
func (e *Estimator) Hash(token string, salt int) uint64 {
	h := e.hashes[salt]
	h.Reset()
	_, _ = h.Write([]byte(token))
	sum := h.Sum(e.buf[:0])
	return binary.BigEndian.Uint64(sum[:8]) % e.m
}

// Signature computes the signature of one observation without storing it.
func (e *Estimator) Signature(observation []string) (Signature, error) {
	if len(observation) == 0 {
		return nil, ErrEmptyObservation
	}
	return e.signature(observation), nil
}

// signature requires a non-empty observation.
func (e *Estimator) signature(observation []string) Signature {
	sig := make(Signature, e.k)
	for salt := range e.k {
		lo := e.Hash(observation[0], salt)
		for _, tok := range observation[1:] {
			lo = min(lo, e.Hash(tok, salt))
		}
		sig[salt] = lo
	}
	return sig
}

// Run replaces the stored signatures with those of observations, in order.
// Every observation is validated before the store changes.
func (e *Estimator) Run(observations [][]string) ([]Signature, error) {
	for i, obs := range observations {
		if len(obs) == 0 {
			return nil, fmt.Errorf("%w: observation %d", ErrEmptyObservation, i)
		}
	}
	sigs := make([]Signature, len(observations))
	for i, obs := range observations {
		sigs[i] = e.signature(obs)
	}
	e.sigs = sigs
	return sigs, nil
}

// Add hashes one observation, appends its signature and returns its index.
func (e *Estimator) Add(observation []string) (int, error) {
	sig, err := e.Signature(observation)
	if err != nil {
		return 0, err
	}
	e.sigs = append(e.sigs, sig)
	return len(e.sigs) - 1, nil
}

// At returns stored signature i. The returned slice must not be modified.
func (e *Estimator) At(i int) (Signature, error) {
	if i < 0 || i >= len(e.sigs) {
		return nil, fmt.Errorf("%w: %d, len=%d", ErrIndexOutOfRange, i, len(e.sigs))
	}
	return e.sigs[i], nil
}

// GetSimilarity returns the fraction of positions on which stored signatures
// i and j agree.
func (e *Estimator) GetSimilarity(i, j int) (float64, error) {
	a, err := e.At(i)
	if err != nil {
		return 0, err
	}
	b, err := e.At(j)
	if err != nil {
		return 0, err
	}
	return Similarity(a, b)
}

// SimilarityOf hashes two arbitrary observations and compares them.
func (e *Estimator) SimilarityOf(a, b []string) (float64, error) {
	sa, err := e.Signature(a)
	if err != nil {
		return 0, err
	}
	sb, err := e.Signature(b)
	if err != nil {
		return 0, err
	}
	return Similarity(sa, sb)
}

// Similarity returns the fraction of positions on which a and b agree.
func Similarity(a, b Signature) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}
	agree := 0
	for i := range a {
		if a[i] == b[i] {
			agree++
		}
	}
	return float64(agree) / float64(len(a)), nil
}

// Snapshot is the serialisable state of an Estimator.
type Snapshot struct {
	K          int         `json:"k"`
	M          uint64      `json:"m"`
	Signatures []Signature `json:"signatures"`
}

// Snapshot copies the estimator's parameters and signatures.
func (e *Estimator) Snapshot() *Snapshot {
	s := &Snapshot{K: e.k, M: e.m, Signatures: make([]Signature, len(e.sigs))}
	for i, sig := range e.sigs {
		s.Signatures[i] = slices.Clone(sig)
	}
	return s
}

// Restore rebuilds an Estimator from a snapshot without rehashing.
func Restore(s *Snapshot) (*Estimator, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidParams)
	}
	e, err := New(s.K, s.M)
	if err != nil {
		return nil, err
	}
	e.sigs = make([]Signature, len(s.Signatures))
	for i, sig := range s.Signatures {
		if len(sig) != s.K {
			return nil, fmt.Errorf("%w: signature %d has %d values, k=%d", ErrLengthMismatch, i, len(sig), s.K)
		}
		for _, v := range sig {
			if v >= s.M {
				return nil, fmt.Errorf("%w: signature %d value %d outside [0, %d)", ErrInvalidParams, i, v, s.M)
			}
		}
		e.sigs[i] = slices.Clone(sig)
	}
	return e, nil
}
