package stream

import "errors"

var (
	ErrNoLabel      = errors.New("value written without a label")
	ErrMissingField = errors.New("missing field")
	ErrMissingChild = errors.New("missing child")
	ErrConversion   = errors.New("conversion failure")
)
