package parse

import "github.com/signadot/jsonstream/ir"

type parseOpts struct {
	comments bool
	offsets  map[*ir.Node]int64
}

type ParseOption func(*parseOpts)

// ParseComments accepts JSONC input: comments and trailing commas are
// removed before tokenizing.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// ParseOffsets records, for each node, the input byte offset just after
// the token preceding it. Leading whitespace and separators are included.
func ParseOffsets(m map[*ir.Node]int64) ParseOption {
	return func(o *parseOpts) { o.offsets = m }
}
