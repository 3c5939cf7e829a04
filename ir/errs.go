package ir

import "errors"

var (
	// ErrShape is returned when a tree cannot be represented as JSON.
	ErrShape = errors.New("shape violation")

	// ErrNotFound is returned by label lookups that do not match.
	ErrNotFound = errors.New("not found")

	ErrNotScalar    = errors.New("not a scalar")
	ErrNotContainer = errors.New("not a container")
)
