package encode

import "errors"

var ErrIO = errors.New("write error")
