// Package parse reads JSON text into an ir tree.
//
// Tokenizing is done by github.com/go-json-experiment/json/jsontext.
// Strings become ir.StringKind scalars holding the unescaped text,
// numbers and booleans ir.LiteralKind scalars holding the raw text, and
// null an ir.NullKind scalar. Objects keep their key order and arrays
// are marked so that an empty array is written back as [].
//
// A document whose root is a scalar is rejected with an error wrapping
// both ErrParse and ir.ErrShape.
package parse
