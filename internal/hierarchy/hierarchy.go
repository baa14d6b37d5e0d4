package hierarchy

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/songclust/dataset"
)

// Merge records one agglomeration step.
type Merge struct {
	// ID is the identifier given to the new cluster.
	ID int
	// Left is the surviving (lower) slot's cluster ID before the merge.
	Left int
	// Right is the absorbed cluster ID.
	Right int
	// Distance is the linkage distance at which the two clusters merged.
	Distance float64
	// Size is the number of points in the new cluster.
	Size int
}

// Result holds the final partition and the merge trace.
type Result struct {
	// Clusters lists the members of each final cluster in ascending order.
	// Clusters are ordered by their smallest member.
	Clusters [][]int
	// Labels maps every point to its index in Clusters.
	Labels []int
	// Merges is the merge trace in execution order.
	Merges []Merge
}

// LinkageMatrix returns the merge trace as rows of
// [left ID, right ID, distance, size].
func (r *Result) LinkageMatrix() [][4]float64 {
	out := make([][4]float64, len(r.Merges))
	for i, m := range r.Merges {
		out[i] = [4]float64{float64(m.Left), float64(m.Right), m.Distance, float64(m.Size)}
	}
	return out
}

// node is an arena entry.
type node struct {
	members []int
}

// Fit merges the closest pair of clusters until target clusters remain.
//
// Distances are squared Euclidean and never square-rooted. The closest pair
// is the first minimum found scanning the upper triangle row by row. The
// lower slot survives and takes the merged cluster. ctx is checked before
// every merge.
func Fit(ctx context.Context, ds *dataset.Dataset, target int, linkage Linkage) (*Result, error) {
	n := ds.Len()
	if target < 1 || target > n {
		return nil, fmt.Errorf("%w: target=%d, N=%d", ErrInvalidTarget, target, n)
	}
	if !linkage.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLinkage, int(linkage))
	}

	m := newMatrix(ds)

	arena := make([]node, n, 2*n-1)
	for i := range n {
		arena[i] = node{members: []int{i}}
	}

	merges := make([]Merge, 0, n-target)
	for clusters := n; clusters > target; clusters-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		left, right, d := m.closest()
		members := make([]int, 0, len(arena[left].members)+len(arena[right].members))
		members = append(members, arena[left].members...)
		members = append(members, arena[right].members...)

		id := len(arena)
		arena = append(arena, node{members: members})
		merges = append(merges, Merge{ID: id, Left: left, Right: right, Distance: d, Size: len(members)})

		m.merge(left, right, id, linkage)
	}

	return buildResult(n, arena, m.clusters(), merges), nil
}

func buildResult(n int, arena []node, ids []int, merges []Merge) *Result {
	clusters := make([][]int, 0, len(ids))
	for _, id := range ids {
		members := slices.Clone(arena[id].members)
		slices.Sort(members)
		clusters = append(clusters, members)
	}
	slices.SortFunc(clusters, func(x, y []int) int { return x[0] - y[0] })

	labels := make([]int, n)
	for c, members := range clusters {
		for _, p := range members {
			labels[p] = c
		}
	}

	return &Result{Clusters: clusters, Labels: labels, Merges: merges}
}
