package songclust

import (
	"errors"
	"fmt"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/internal/hierarchy"
	"github.com/hupe1980/songclust/internal/kmeans"
	"github.com/hupe1980/songclust/internal/lsh"
	"github.com/hupe1980/songclust/internal/minhash"
	"github.com/hupe1980/songclust/persistence"
	"github.com/hupe1980/songclust/resource"
)

var (
	// ErrInvalidArgument is returned for malformed input or parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidK is returned when k (or a hierarchy target) is outside [1, N].
	// It wraps ErrInvalidArgument.
	ErrInvalidK = fmt.Errorf("%w: k must be in [1, N]", ErrInvalidArgument)

	// ErrNotFitted is returned when a similarity query runs before any data
	// has been hashed.
	ErrNotFitted = errors.New("no data has been hashed")

	// ErrMemoryLimitExceeded is returned when a run would exceed the resource
	// controller's memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ErrDimensionMismatch indicates a vector/center dimensionality mismatch.
//
// It matches ErrInvalidArgument under errors.Is. The underlying error (if
// any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// Is reports whether target is ErrInvalidArgument.
func (e *ErrDimensionMismatch) Is(target error) bool { return target == ErrInvalidArgument }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Dimension normalization.
	var kdm *kmeans.ErrDimensionMismatch
	if errors.As(err, &kdm) {
		return &ErrDimensionMismatch{Expected: kdm.Expected, Actual: kdm.Actual, cause: err}
	}
	var ldm *lsh.ErrDimensionMismatch
	if errors.As(err, &ldm) {
		return &ErrDimensionMismatch{Expected: ldm.Expected, Actual: ldm.Actual, cause: err}
	}

	switch {
	case errors.Is(err, kmeans.ErrInvalidK), errors.Is(err, hierarchy.ErrInvalidTarget):
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	case errors.Is(err, lsh.ErrNotHashed):
		return fmt.Errorf("%w: %w", ErrNotFitted, err)
	case errors.Is(err, kmeans.ErrInvalidKeys),
		errors.Is(err, kmeans.ErrInvalidIndex),
		errors.Is(err, kmeans.ErrInvalidAssignment),
		errors.Is(err, kmeans.ErrNilRule),
		errors.Is(err, hierarchy.ErrUnknownLinkage),
		errors.Is(err, lsh.ErrInvalidParams),
		errors.Is(err, lsh.ErrBanding),
		errors.Is(err, lsh.ErrIndexOutOfRange),
		errors.Is(err, lsh.ErrInvalidSnapshot),
		errors.Is(err, minhash.ErrInvalidParams),
		errors.Is(err, minhash.ErrEmptyObservation),
		errors.Is(err, minhash.ErrIndexOutOfRange),
		errors.Is(err, minhash.ErrLengthMismatch),
		errors.Is(err, dataset.ErrEmpty),
		errors.Is(err, dataset.ErrRagged),
		errors.Is(err, persistence.ErrInvalidSnapshotName):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return err
}
