package token

// safe reports whether c is copied verbatim: printable ASCII other than
// '"', '/' and '\\', and every byte from 0x5D up, including non-ASCII
// bytes which are the caller's encoding concern.
func safe(c byte) bool {
	return c == 0x20 || c == 0x21 ||
		(c >= 0x23 && c <= 0x2E) ||
		(c >= 0x30 && c <= 0x5B) ||
		c >= 0x5D
}

// Escape returns s with JSON string escapes applied, without surrounding
// quotes. Every '"' is escaped. A backslash that already starts a unicode
// escape (\u followed by a run of at least 4 hex digits ending at the end
// of s or at a byte equal to s[0]) is copied through instead of doubled.
// Control characters without a short escape become \u00XX.
func Escape(s string) string {
	return escape(s, false)
}

// EscapeCompat is Escape with the legacy quote rule: a '"' in the first or
// last position is copied unescaped, so a string that was already wrapped
// in quotes keeps its delimiters. Unnamed control characters are copied
// through unchanged.
func EscapeCompat(s string) string {
	return escape(s, true)
}

func escape(s string, compat bool) string {
	if s == "" {
		return ""
	}
	first := s[0]
	last := len(s) - 1
	d := make([]byte, 0, len(s)+len(s)/8+2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if safe(c) {
			d = append(d, c)
			continue
		}
		switch c {
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		case '\\':
			if unicodeEscape(s, i, first, compat) {
				d = append(d, '\\')
			} else {
				d = append(d, '\\', '\\')
			}
		case '"':
			if !compat || (i != 0 && i != last) {
				d = append(d, '\\')
			}
			d = append(d, '"')
		default:
			if !compat && c < 0x20 {
				d = append(d, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
				continue
			}
			d = append(d, c)
		}
	}
	return string(d)
}

const hexDigits = "0123456789abcdef"

// unicodeEscape reports whether the backslash at s[i] starts a unicode
// escape that must not be doubled.
func unicodeEscape(s string, i int, term byte, compat bool) bool {
	if i+1 >= len(s) || s[i+1] != 'u' {
		return false
	}
	j := i + 2
	for j < len(s) && isHex(s[j]) {
		j++
	}
	if j != len(s) && s[j] != term {
		return false
	}
	if compat {
		return true
	}
	return j-(i+2) >= 4
}

func isHex(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}
