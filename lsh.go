package songclust

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/internal/lsh"
)

// LSHParams configures banded locality-sensitive hashing.
//
// T hash functions are split into B bands of R codes (T must equal R*B).
// Tau is the similarity threshold for queries; for the Euclidean family it
// also bounds the random offsets.
type LSHParams = lsh.Params

// LSH is a banded random-projection similarity index.
//
// It is safe for concurrent use: queries share a read lock, while HashData
// and Insert take the write lock.
type LSH struct {
	mu sync.RWMutex
	h  *lsh.Hasher
	o  options
}

// NewLSH validates p and returns an empty index.
func NewLSH(p LSHParams, optFns ...Option) (*LSH, error) {
	o := applyOptions(optFns)
	h, err := lsh.New(p, o.random())
	if err != nil {
		return nil, translateError(err)
	}
	return &LSH{h: h, o: o}, nil
}

// Params returns the index parameters.
func (l *LSH) Params() LSHParams { return l.h.Params() }

// Len returns the number of stored signatures.
func (l *LSH) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.h.Len()
}

// Dim returns the vector dimension of the current projections, or 0 before
// the first HashData.
func (l *LSH) Dim() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.h.Dim()
}

// HashData draws fresh projections for ds and replaces every stored
// signature with the signatures of its rows, in order. On error the previous
// state is kept.
func (l *LSH) HashData(ctx context.Context, ds *dataset.Dataset) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	_, err := l.h.HashData(ctx, ds)
	err = translateError(err)
	l.o.metricsCollector.RecordHash("lsh", ds.Len(), time.Since(start), err)
	l.o.logger.WithDimension(ds.Dim()).LogHash(ctx, "lsh", ds.Len(), err)
	return err
}

// Insert hashes vec with the current projections, appends its signature and
// returns its index.
func (l *LSH) Insert(vec []float64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	id, err := l.h.Insert(vec)
	err = translateError(err)
	l.o.metricsCollector.RecordHash("lsh", 1, time.Since(start), err)
	return id, err
}

// QueryAllSimilar returns, in ascending order, the indices of stored items
// whose estimated similarity to query is strictly above Tau.
func (l *LSH) QueryAllSimilar(ctx context.Context, query []float64) ([]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := time.Now()
	out, cands, err := l.h.Query(query)
	err = translateError(err)
	l.o.metricsCollector.RecordQuery("lsh", cands, len(out), time.Since(start), err)
	l.o.logger.LogQuery(ctx, cands, len(out), err)
	return out, err
}

// QuerySimilarity returns the banding estimate between stored items i and j.
func (l *LSH) QuerySimilarity(i, j int) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, err := l.h.QuerySimilarity(i, j)
	return v, translateError(err)
}

// Similarity hashes two vectors with the current projections and returns
// their banding estimate. Nothing is stored.
func (l *LSH) Similarity(a, b []float64) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	x, err := l.h.Hash(a)
	if err != nil {
		return 0, translateError(err)
	}
	y, err := l.h.Hash(b)
	if err != nil {
		return 0, translateError(err)
	}
	v, err := l.h.Estimate(x, y)
	return v, translateError(err)
}

// Signature returns a copy of the stored signature i.
func (l *LSH) Signature(i int) ([]int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= l.h.Len() {
		return nil, fmt.Errorf("%w: signature %d, len=%d", ErrInvalidArgument, i, l.h.Len())
	}
	return slices.Clone(l.h.Store().At(i)), nil
}

func (l *LSH) snapshot() (*lsh.Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, err := l.h.Snapshot()
	return s, translateError(err)
}
