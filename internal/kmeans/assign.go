package kmeans

import (
	"fmt"
	"math"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/distance"
)

// AssignPartition returns the index of the center closest to vec and the
// squared distance to it. Ties go to the lowest center index.
func AssignPartition(vec []float64, centers [][]float64) (int, float64) {
	best := -1
	minDist := math.Inf(1)
	for j, c := range centers {
		if d := distance.SquaredL2(vec, c); d < minDist {
			minDist = d
			best = j
		}
	}
	if best < 0 && len(centers) > 0 {
		// Every distance is NaN or +Inf.
		best = 0
	}
	return best, minDist
}

// AssignCentersToData maps every row of ds to its nearest center.
func AssignCentersToData(ds *dataset.Dataset, centers [][]float64) ([]int, error) {
	if err := validateCenters(ds, centers); err != nil {
		return nil, err
	}
	out := make([]int, ds.Len())
	for i := range out {
		out[i], _ = AssignPartition(ds.Row(i), centers)
	}
	return out, nil
}

// CentersFromIndices copies the rows at idx into a new center set.
func CentersFromIndices(ds *dataset.Dataset, idx []int) ([][]float64, error) {
	if err := validateK(ds, len(idx)); err != nil {
		return nil, err
	}
	centers := make([][]float64, len(idx))
	for j, i := range idx {
		if i < 0 || i >= ds.Len() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
		}
		centers[j] = append([]float64(nil), ds.Row(i)...)
	}
	return centers, nil
}

// Inertia returns the mean squared distance between each point and the
// center it is assigned to.
func Inertia(ds *dataset.Dataset, centers [][]float64, assignment []int) (float64, error) {
	if err := validateCenters(ds, centers); err != nil {
		return 0, err
	}
	if len(assignment) != ds.Len() {
		return 0, fmt.Errorf("%w: %d labels for %d points", ErrInvalidAssignment, len(assignment), ds.Len())
	}
	var sum float64
	for i, a := range assignment {
		if a < 0 || a >= len(centers) {
			return 0, fmt.Errorf("%w: label %d at point %d", ErrInvalidAssignment, a, i)
		}
		sum += distance.SquaredL2(ds.Row(i), centers[a])
	}
	return sum / float64(ds.Len()), nil
}

func validateCenters(ds *dataset.Dataset, centers [][]float64) error {
	if len(centers) == 0 {
		return fmt.Errorf("%w: no centers", ErrInvalidK)
	}
	for _, c := range centers {
		if len(c) != ds.Dim() {
			return &ErrDimensionMismatch{Expected: ds.Dim(), Actual: len(c)}
		}
	}
	return nil
}
