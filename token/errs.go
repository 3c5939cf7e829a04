package token

import "errors"

var ErrBadQuoted = errors.New("bad quoted string")
