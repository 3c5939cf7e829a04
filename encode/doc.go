// Package encode writes IR trees as JSON text.
//
// # Usage
//
//	root := ir.New()
//	root.AddLiteral("A", "1")
//	root.AddString("S", "hello")
//	err := encode.Encode(root, os.Stdout)              // {"A":1,"S":"hello"}
//	err = encode.Encode(root, os.Stdout, encode.Pretty(true))
//
// The tree is verified with ir.Verify before anything is written.
//
// # Related Packages
//
//   - github.com/signadot/jsonstream/ir - tree representation
//   - github.com/signadot/jsonstream/parse - parse JSON text into a tree
package encode
