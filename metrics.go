package songclust

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prometheus for a Prometheus implementation.
type MetricsCollector interface {
	// RecordFit is called after each Lloyd refinement run.
	// rule is the center-update rule name, err is nil if successful.
	RecordFit(rule string, k, iterations int, converged bool, duration time.Duration, err error)

	// RecordEmptyClusterRecovered is called each time an empty cluster is
	// reseeded with a random point.
	RecordEmptyClusterRecovered()

	// RecordAgglomerate is called after each agglomerative clustering run.
	RecordAgglomerate(linkage string, n, merges int, duration time.Duration, err error)

	// RecordHash is called after hashing count items. family is "lsh" or
	// "minhash".
	RecordHash(family string, count int, duration time.Duration, err error)

	// RecordQuery is called after each similarity query. candidates is the
	// number of items scored, results the number returned.
	RecordQuery(family string, candidates, results int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	// op is "save" or "load", bytes the encoded snapshot size.
	RecordSnapshot(op, kind string, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(string, int, int, bool, time.Duration, error)     {}
func (NoopMetricsCollector) RecordEmptyClusterRecovered()                               {}
func (NoopMetricsCollector) RecordAgglomerate(string, int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordHash(string, int, time.Duration, error)               {}
func (NoopMetricsCollector) RecordQuery(string, int, int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordSnapshot(string, string, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount          atomic.Int64
	FitErrors         atomic.Int64
	FitNonConverged   atomic.Int64
	FitIterations     atomic.Int64
	FitTotalNanos     atomic.Int64
	EmptyRecovered    atomic.Int64
	AgglomerateCount  atomic.Int64
	AgglomerateErrors atomic.Int64
	HashCount         atomic.Int64
	HashItems         atomic.Int64
	HashErrors        atomic.Int64
	QueryCount        atomic.Int64
	QueryErrors       atomic.Int64
	QueryCandidates   atomic.Int64
	QueryTotalNanos   atomic.Int64
	SnapshotCount     atomic.Int64
	SnapshotErrors    atomic.Int64
	SnapshotBytes     atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(_ string, _, iterations int, converged bool, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
		return
	}
	b.FitIterations.Add(int64(iterations))
	if !converged {
		b.FitNonConverged.Add(1)
	}
}

// RecordEmptyClusterRecovered implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmptyClusterRecovered() {
	b.EmptyRecovered.Add(1)
}

// RecordAgglomerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAgglomerate(_ string, _, _ int, _ time.Duration, err error) {
	b.AgglomerateCount.Add(1)
	if err != nil {
		b.AgglomerateErrors.Add(1)
	}
}

// RecordHash implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHash(_ string, count int, _ time.Duration, err error) {
	b.HashCount.Add(1)
	if err != nil {
		b.HashErrors.Add(1)
		return
	}
	b.HashItems.Add(int64(count))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ string, candidates, _ int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryCandidates.Add(int64(candidates))
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(_, _ string, bytes int64, _ time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FitCount:          b.FitCount.Load(),
		FitErrors:         b.FitErrors.Load(),
		FitNonConverged:   b.FitNonConverged.Load(),
		FitAvgIterations:  avg(b.FitIterations.Load(), b.FitCount.Load()-b.FitErrors.Load()),
		FitAvgNanos:       avg(b.FitTotalNanos.Load(), b.FitCount.Load()),
		EmptyRecovered:    b.EmptyRecovered.Load(),
		AgglomerateCount:  b.AgglomerateCount.Load(),
		AgglomerateErrors: b.AgglomerateErrors.Load(),
		HashCount:         b.HashCount.Load(),
		HashItems:         b.HashItems.Load(),
		HashErrors:        b.HashErrors.Load(),
		QueryCount:        b.QueryCount.Load(),
		QueryErrors:       b.QueryErrors.Load(),
		QueryAvgNanos:     avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		SnapshotCount:     b.SnapshotCount.Load(),
		SnapshotErrors:    b.SnapshotErrors.Load(),
		SnapshotBytes:     b.SnapshotBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count <= 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FitCount          int64
	FitErrors         int64
	FitNonConverged   int64
	FitAvgIterations  int64
	FitAvgNanos       int64
	EmptyRecovered    int64
	AgglomerateCount  int64
	AgglomerateErrors int64
	HashCount         int64
	HashItems         int64
	HashErrors        int64
	QueryCount        int64
	QueryErrors       int64
	QueryAvgNanos     int64
	SnapshotCount     int64
	SnapshotErrors    int64
	SnapshotBytes     int64
}
