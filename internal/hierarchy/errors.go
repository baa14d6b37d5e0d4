package hierarchy

import "errors"

var (
	// ErrInvalidTarget is returned when the target cluster count is not in [1, N].
	ErrInvalidTarget = errors.New("hierarchy: target must be in [1, N]")

	// ErrUnknownLinkage is returned for an unrecognised linkage name or value.
	ErrUnknownLinkage = errors.New("hierarchy: unknown linkage")
)
