package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not in [1, N].
	ErrInvalidK = errors.New("kmeans: k must be in [1, N]")

	// ErrInvalidKeys is returned when ordering keys are not aligned with the dataset.
	ErrInvalidKeys = errors.New("kmeans: ordering keys must have one entry per point")

	// ErrInvalidIndex is returned when a point index is outside [0, N).
	ErrInvalidIndex = errors.New("kmeans: point index out of range")

	// ErrInvalidAssignment is returned when an assignment does not match the dataset or centers.
	ErrInvalidAssignment = errors.New("kmeans: assignment does not match dataset")

	// ErrNilRule is returned when no update rule is supplied.
	ErrNilRule = errors.New("kmeans: update rule is nil")
)

// ErrDimensionMismatch is returned when a center and the dataset disagree on dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("kmeans: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
