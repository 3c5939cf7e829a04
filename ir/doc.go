// Package ir provides the ordered labeled tree that sits between Go values
// and JSON text.
//
// # Node Structure
//
// A Node either holds a scalar or an ordered list of children:
//
//   - Scalar nodes have a Kind of StringKind, LiteralKind or NullKind and
//     their text in Scalar. The text is stored unquoted and unescaped; the
//     kind decides whether the writer quotes it.
//   - Container nodes have ContainerKind and a list of (label, node)
//     entries. Insertion order is preserved.
//
// A container renders as a JSON array when it is marked Array or when all
// of its children are unlabeled. Otherwise it renders as an object, and a
// container with no children renders as {}.
//
// # Constraints
//
// Insertion never rejects a malformed tree. Verify must be run before a
// tree is written:
//
//   - the root must not hold a scalar
//   - no node may hold both a scalar and children
//
// # Related Packages
//
//   - github.com/signadot/jsonstream/encode - write trees as JSON text
//   - github.com/signadot/jsonstream/parse - build trees from JSON text
//   - github.com/signadot/jsonstream/stream - cursors over trees
package ir
