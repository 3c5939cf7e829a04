package token

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

// Quote returns v as a double-quoted JSON string.
func Quote(v string) string {
	return `"` + Escape(v) + `"`
}

// QuoteCompat wraps v in quotes first and then escapes, leaving the
// wrapping quotes untouched.
func QuoteCompat(v string) string {
	return EscapeCompat(`"` + v + `"`)
}

// Unquote decodes a double-quoted JSON string.
func Unquote(v string) (string, error) {
	d, err := jsontext.AppendUnquote(nil, v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadQuoted, err)
	}
	return string(d), nil
}

// Unescape decodes the body of a JSON string, as produced by Escape.
func Unescape(v string) (string, error) {
	return Unquote(`"` + v + `"`)
}
