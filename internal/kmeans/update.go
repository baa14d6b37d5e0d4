package kmeans

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/songclust/dataset"
)

// UpdateRule computes a new center from the members of one cluster.
//
// Update is only called with a non-empty member list; the refiner reseeds
// empty clusters before the update step.
type UpdateRule interface {
	// Name returns a short identifier used in logs.
	Name() string
	// Validate checks that the rule can run against ds.
	Validate(ds *dataset.Dataset) error
	// Update writes the new center for members into dst.
	Update(ds *dataset.Dataset, members []int, dst []float64)
}

// MeanUpdate moves each center to the arithmetic mean of its members.
type MeanUpdate struct{}

// Name implements UpdateRule.
func (MeanUpdate) Name() string { return "mean" }

// Validate implements UpdateRule.
func (MeanUpdate) Validate(*dataset.Dataset) error { return nil }

// Update implements UpdateRule.
func (MeanUpdate) Update(ds *dataset.Dataset, members []int, dst []float64) {
	meanOf(ds, members, dst)
}

// OldestUpdate moves each center to the mean of the members sharing the
// smallest non-zero ordering key (for example the earliest known release
// year). A key of 0 means unknown and is only used when no member of the
// cluster has a non-zero key.
type OldestUpdate struct {
	// Keys holds one ordering key per dataset row.
	Keys []float64
}

// Name implements UpdateRule.
func (OldestUpdate) Name() string { return "oldest" }

// Validate implements UpdateRule.
func (o OldestUpdate) Validate(ds *dataset.Dataset) error {
	if len(o.Keys) != ds.Len() {
		return fmt.Errorf("%w: got %d keys for %d points", ErrInvalidKeys, len(o.Keys), ds.Len())
	}
	return nil
}

// Update implements UpdateRule.
func (o OldestUpdate) Update(ds *dataset.Dataset, members []int, dst []float64) {
	meanOf(ds, o.Oldest(members), dst)
}

// Oldest returns the members that carry the minimum non-zero key, or the
// members with key 0 when no non-zero key exists.
func (o OldestUpdate) Oldest(members []int) []int {
	minKey := 0.0
	for _, m := range members {
		k := o.Keys[m]
		if k != 0 && (minKey == 0 || k < minKey) {
			minKey = k
		}
	}

	oldest := make([]int, 0, len(members))
	for _, m := range members {
		if o.Keys[m] == minKey {
			oldest = append(oldest, m)
		}
	}
	return oldest
}

func meanOf(ds *dataset.Dataset, members []int, dst []float64) {
	if len(members) == 0 {
		return
	}
	clear(dst)
	for _, m := range members {
		floats.Add(dst, ds.Row(m))
	}
	floats.Scale(1/float64(len(members)), dst)
}
