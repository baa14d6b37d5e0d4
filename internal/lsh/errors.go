package lsh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned when T, R, B or Tau are out of range.
	ErrInvalidParams = errors.New("lsh: invalid parameters")

	// ErrBanding is returned when T != R*B.
	ErrBanding = errors.New("lsh: hash count must equal rows per band times bands")

	// ErrNotHashed is returned when querying before any projections exist.
	ErrNotHashed = errors.New("lsh: no data has been hashed")

	// ErrIndexOutOfRange is returned for a stored signature index outside [0, Len).
	ErrIndexOutOfRange = errors.New("lsh: signature index out of range")

	// ErrInvalidSnapshot is returned when a snapshot is internally inconsistent.
	ErrInvalidSnapshot = errors.New("lsh: invalid snapshot")
)

// ErrDimensionMismatch is returned when a vector does not match the projection dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("lsh: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
