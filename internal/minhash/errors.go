package minhash

import "errors"

var (
	// ErrInvalidParams is returned when k is not positive or m is zero.
	ErrInvalidParams = errors.New("minhash: k must be positive and m non-zero")

	// ErrEmptyObservation is returned when an observation has no tokens.
	ErrEmptyObservation = errors.New("minhash: observation has no tokens")

	// ErrIndexOutOfRange is returned for a stored signature index outside [0, Len).
	ErrIndexOutOfRange = errors.New("minhash: signature index out of range")

	// ErrLengthMismatch is returned when comparing signatures of different lengths.
	ErrLengthMismatch = errors.New("minhash: signature length mismatch")
)
