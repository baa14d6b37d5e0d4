package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/distance"
)

// Seeder picks k initial center indices from a dataset.
type Seeder interface {
	Seed(ctx context.Context, ds *dataset.Dataset, k int, rng *rand.Rand) ([]int, error)
}

// KPlusPlus is the k-means++ seeder.
//
// The first center is uniform. Every following center is drawn with
// probability proportional to the squared distance to the nearest center
// chosen so far. Chosen indices are not excluded from later draws: they carry
// zero weight, so they can only be drawn again through the fallback to the
// last point when the weighted walk never crosses zero (every point already
// coincides with a center).
type KPlusPlus struct{}

// Seed implements Seeder.
func (KPlusPlus) Seed(ctx context.Context, ds *dataset.Dataset, k int, rng *rand.Rand) ([]int, error) {
	if err := validateK(ds, k); err != nil {
		return nil, err
	}

	n := ds.Len()
	centers := make([]int, 0, k)
	centers = append(centers, rng.IntN(n))

	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}
	updateNearest(ds, nearest, centers[0])

	for len(centers) < k {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var total float64
		for _, d := range nearest {
			total += d
		}
		next := sampleWeighted(nearest, rng.Float64()*total)
		centers = append(centers, next)
		updateNearest(ds, nearest, next)
	}

	return centers, nil
}

// sampleWeighted walks weights in order, subtracting each from target, and
// returns the first index at which target drops below zero. If it never does,
// the last index is returned.
func sampleWeighted(weights []float64, target float64) int {
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// FarthestPoint is the Gonzalez farthest-point seeder.
//
// After the first center, each step picks the point whose squared distance
// to its nearest chosen center is largest (lowest index on ties). The
// traversal is deterministic given the first center. Use NewFarthestPoint for
// a random start or FarthestPointFrom to fix it.
type FarthestPoint struct {
	start int
	fixed bool
}

// NewFarthestPoint returns a FarthestPoint seeder with a uniformly random start.
func NewFarthestPoint() FarthestPoint {
	return FarthestPoint{}
}

// FarthestPointFrom returns a FarthestPoint seeder that always starts at index start.
func FarthestPointFrom(start int) FarthestPoint {
	return FarthestPoint{start: start, fixed: true}
}

// Seed implements Seeder.
func (f FarthestPoint) Seed(ctx context.Context, ds *dataset.Dataset, k int, rng *rand.Rand) ([]int, error) {
	if err := validateK(ds, k); err != nil {
		return nil, err
	}

	n := ds.Len()
	first := f.start
	if !f.fixed {
		first = rng.IntN(n)
	} else if first < 0 || first >= n {
		return nil, fmt.Errorf("%w: start %d, N=%d", ErrInvalidIndex, first, n)
	}

	centers := make([]int, 0, k)
	centers = append(centers, first)

	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}

	for len(centers) < k {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		updateNearest(ds, nearest, centers[len(centers)-1])

		best := 0
		for i := 1; i < n; i++ {
			if nearest[i] > nearest[best] {
				best = i
			}
		}
		centers = append(centers, best)
	}

	return centers, nil
}

// updateNearest lowers nearest[i] to the squared distance between point i and
// the point at index center when that is closer.
func updateNearest(ds *dataset.Dataset, nearest []float64, center int) {
	c := ds.Row(center)
	for i := range nearest {
		if d := distance.SquaredL2(ds.Row(i), c); d < nearest[i] {
			nearest[i] = d
		}
	}
}

func validateK(ds *dataset.Dataset, k int) error {
	if k <= 0 || k > ds.Len() {
		return fmt.Errorf("%w: k=%d, N=%d", ErrInvalidK, k, ds.Len())
	}
	return nil
}
