// Package jsonstream converts between Go values and JSON text through an
// ordered labeled tree.
//
// # Usage
//
//	type Rec struct {
//	    A, B, C int
//	    S       string
//	}
//	d, err := jsonstream.Marshal(Rec{1, 2, 3, "hello"})
//	// {"A":1,"B":2,"C":3,"S":"hello"}
//	r, err := jsonstream.Into[Rec](string(d))
//
// Values are bound field by field by package bind, or by implementing
// stream.Marshaler and stream.Unmarshaler. Files ending in .zst are
// compressed with zstd by ReadFile and WriteFile.
//
// # Related Packages
//
//   - github.com/signadot/jsonstream/ir - tree representation
//   - github.com/signadot/jsonstream/stream - encode and decode cursors
//   - github.com/signadot/jsonstream/bind - field binding
//   - github.com/signadot/jsonstream/encode - writing JSON
//   - github.com/signadot/jsonstream/parse - reading JSON
package jsonstream
