package songclust

import (
	"context"
	"time"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/internal/hierarchy"
)

// Linkage is the policy that combines distances when two clusters merge.
type Linkage = hierarchy.Linkage

const (
	// SingleLinkage keeps the smaller of the two distances.
	SingleLinkage = hierarchy.Single
	// CompleteLinkage keeps the larger of the two distances.
	CompleteLinkage = hierarchy.Complete
	// MeanLinkage keeps the average of the two distances.
	MeanLinkage = hierarchy.Mean
)

// ParseLinkage maps "single", "complete" or "mean" to a Linkage.
func ParseLinkage(name string) (Linkage, error) {
	l, err := hierarchy.ParseLinkage(name)
	return l, translateError(err)
}

// Merge records one agglomeration step. Singletons have IDs 0..N-1, merged
// clusters get N, N+1, ... in merge order.
type Merge = hierarchy.Merge

// Partition is the result of agglomerative clustering.
type Partition struct {
	// Linkage is the policy the partition was built with.
	Linkage string `json:"linkage"`
	// Clusters lists the sorted members of each cluster, ordered by smallest
	// member.
	Clusters [][]int `json:"clusters"`
	// Labels maps every point to its index in Clusters.
	Labels []int `json:"labels"`
	// Merges is the merge trace in execution order.
	Merges []Merge `json:"merges"`
}

// LinkageMatrix returns the merge trace as rows of
// [left ID, right ID, distance, size].
func (p *Partition) LinkageMatrix() [][4]float64 {
	r := hierarchy.Result{Merges: p.Merges}
	return r.LinkageMatrix()
}

// Agglomerate merges the closest pair of clusters until target clusters
// remain. It needs an N×N distance matrix, which is reserved against the
// resource controller's memory budget for the duration of the run.
func Agglomerate(ctx context.Context, ds *dataset.Dataset, target int, linkage Linkage, optFns ...Option) (*Partition, error) {
	o := applyOptions(optFns)
	log := o.logger.WithCount(ds.Len())

	release, err := o.rc.ReserveMemory(hierarchy.MatrixBytes(ds.Len()))
	if err != nil {
		o.metricsCollector.RecordAgglomerate(linkage.String(), ds.Len(), 0, 0, err)
		log.LogAgglomerate(ctx, linkage.String(), 0, 0, err)
		return nil, err
	}
	defer release()

	start := time.Now()
	res, err := hierarchy.Fit(ctx, ds, target, linkage)
	elapsed := time.Since(start)
	if err != nil {
		err = translateError(err)
		o.metricsCollector.RecordAgglomerate(linkage.String(), ds.Len(), 0, elapsed, err)
		log.LogAgglomerate(ctx, linkage.String(), 0, elapsed, err)
		return nil, err
	}

	o.metricsCollector.RecordAgglomerate(linkage.String(), ds.Len(), len(res.Merges), elapsed, nil)
	log.LogAgglomerate(ctx, linkage.String(), len(res.Merges), elapsed, nil)
	return &Partition{
		Linkage:  linkage.String(),
		Clusters: res.Clusters,
		Labels:   res.Labels,
		Merges:   res.Merges,
	}, nil
}
