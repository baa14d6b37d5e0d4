package songclust

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/songclust/internal/minhash"
)

// MinHash estimates Jaccard similarity between token sets with k salted
// hash functions ranging over [0, m).
//
// It is safe for concurrent use. Hashing serializes on a shared hash state;
// comparisons of stored signatures run under a read lock.
type MinHash struct {
	mu sync.RWMutex
	e  *minhash.Estimator
	o  options
}

// NewMinHash returns an empty estimator with k hash functions over [0, m).
func NewMinHash(k int, m uint64, optFns ...Option) (*MinHash, error) {
	e, err := minhash.New(k, m)
	if err != nil {
		return nil, translateError(err)
	}
	return &MinHash{e: e, o: applyOptions(optFns)}, nil
}

// K returns the number of hash functions.
func (mh *MinHash) K() int { return mh.e.K() }

// M returns the hash value range.
func (mh *MinHash) M() uint64 { return mh.e.M() }

// Len returns the number of stored signatures.
func (mh *MinHash) Len() int {
	mh.mu.RLock()
	defer mh.mu.RUnlock()
	return mh.e.Len()
}

// Run replaces the stored signatures with those of observations, in order.
// Empty observations are rejected before anything changes.
func (mh *MinHash) Run(ctx context.Context, observations [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mh.mu.Lock()
	defer mh.mu.Unlock()

	start := time.Now()
	_, err := mh.e.Run(observations)
	err = translateError(err)
	mh.o.metricsCollector.RecordHash("minhash", len(observations), time.Since(start), err)
	mh.o.logger.LogHash(ctx, "minhash", len(observations), err)
	return err
}

// Add hashes one observation, appends its signature and returns its index.
func (mh *MinHash) Add(observation []string) (int, error) {
	mh.mu.Lock()
	defer mh.mu.Unlock()

	start := time.Now()
	id, err := mh.e.Add(observation)
	err = translateError(err)
	mh.o.metricsCollector.RecordHash("minhash", 1, time.Since(start), err)
	return id, err
}

// GetSimilarity returns the estimated Jaccard similarity of stored
// observations i and j.
func (mh *MinHash) GetSimilarity(i, j int) (float64, error) {
	mh.mu.RLock()
	defer mh.mu.RUnlock()

	start := time.Now()
	v, err := mh.e.GetSimilarity(i, j)
	err = translateError(err)
	mh.o.metricsCollector.RecordQuery("minhash", 1, 1, time.Since(start), err)
	return v, err
}

// SimilarityOf hashes two observations and returns their estimated Jaccard
// similarity. Nothing is stored.
func (mh *MinHash) SimilarityOf(a, b []string) (float64, error) {
	mh.mu.Lock()
	defer mh.mu.Unlock()

	v, err := mh.e.SimilarityOf(a, b)
	return v, translateError(err)
}

// Signature returns a copy of stored signature i.
func (mh *MinHash) Signature(i int) ([]uint64, error) {
	mh.mu.RLock()
	defer mh.mu.RUnlock()

	sig, err := mh.e.At(i)
	if err != nil {
		return nil, translateError(err)
	}
	return slices.Clone(sig), nil
}

func (mh *MinHash) snapshot() *minhash.Snapshot {
	mh.mu.RLock()
	defer mh.mu.RUnlock()
	return mh.e.Snapshot()
}
