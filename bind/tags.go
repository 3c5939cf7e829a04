package bind

import (
	"fmt"
	"strings"
)

// TagName is the struct tag key read by Struct.
const TagName = "jstream"

// ParseStructTag parses a struct tag string and returns a map of key-value pairs.
// Handles comma-separated values: `jstream:"field=name,optional"`
// Supports quoted values with spaces: `jstream:"field='a label'"`
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)

	if tag == "" {
		return result, nil
	}

	var parts []string
	var current strings.Builder
	inSingleQuote := false

	for i := 0; i < len(tag); i++ {
		char := tag[i]

		switch {
		case char == '\'':
			inSingleQuote = !inSingleQuote
			current.WriteByte(char)
		case char == ',' && !inSingleQuote:
			part := strings.TrimSpace(current.String())
			if part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}
	if inSingleQuote {
		return nil, fmt.Errorf("invalid tag: unterminated quote in %q", tag)
	}
	part := strings.TrimSpace(current.String())
	if part != "" {
		parts = append(parts, part)
	}

	for _, part := range parts {
		// Check if it's a key=value pair or just a flag
		if idx := strings.Index(part, "="); idx >= 0 {
			key := strings.TrimSpace(part[:idx])
			value := strings.TrimSpace(part[idx+1:])
			if key == "" {
				return nil, fmt.Errorf("invalid tag: empty key in %q", part)
			}
			result[key] = unquoteValue(value)
		} else {
			result[part] = ""
		}
	}

	return result, nil
}

// unquoteValue removes surrounding single quotes from a value.
func unquoteValue(value string) string {
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}
