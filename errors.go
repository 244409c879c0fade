package termfilter

import "errors"

var (
	// ErrInvalidRange is returned when a specification is constructed with
	// no usable bounds: both bounds absent, or an absent bound marked
	// inclusive. It is never returned during evaluation; a lower bound above
	// the upper bound is a vacuously empty range, not an error.
	ErrInvalidRange = errors.New("invalid range")

	// ErrEmptyTerm is returned when a strategy that requires a term
	// (prefix, exact term) is constructed without one.
	ErrEmptyTerm = errors.New("term must not be empty")
)
