package jsonstream

import "errors"

var ErrIO = errors.New("i/o error")
