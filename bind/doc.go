// Package bind drives stream cursors from an ordered list of labeled
// fields, so a record can be encoded and decoded by declaring its labels
// once.
//
// # Usage
//
//	type rec struct {
//	    A, B, C int
//	    S       string
//	}
//	var r rec
//	fields := bind.Fields([]string{"A", "B", "C", "S"}, &r.A, &r.B, &r.C, &r.S)
//	e := stream.NewEncoder(nil)
//	err := bind.Encode(e, fields...) // {"A":1,"B":2,"C":3,"S":"hello"}
//
//	// fields from struct tags
//	fields, err = bind.Struct(&r)
//	node, err := bind.Marshal(r)
//	err = bind.Unmarshal(node, &r)
//
// Each field is classified by its Go type. Scalars are written under
// their label. Slices, arrays and sets (map[K]struct{} or map[K]bool)
// are written as a nested array, and structs as a nested object. A
// pointer makes any of these optional: a nil scalar or record is written
// as null, a nil collection as [], and a missing label leaves the
// pointer unchanged on decode.
//
// # Related Packages
//
//   - github.com/signadot/jsonstream/stream - encode and decode cursors
//   - github.com/signadot/jsonstream/ir - tree representation
package bind
