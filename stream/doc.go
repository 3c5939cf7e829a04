// Package stream provides cursors for building and walking ir trees one
// field at a time.
//
// An Encoder appends values to a node:
//
//	e := stream.NewEncoder(nil)
//	e.Label("A").Value(1)
//	e.Label("S").Value("hello")
//	tags := e.Open("tags")
//	stream.WriteRange(tags, []string{"x", "y"})
//	tags.Close()
//	// e.Node() is {"A":1,"S":"hello","tags":["x","y"]}
//
// A Decoder reads them back:
//
//	d := stream.NewDecoder(node)
//	d.Label("A").Value(&a)
//	d.Optional().Label("missing").Value(&b) // b unchanged, d still OK
//	stream.ReadRange(d.Child("tags"), &tags)
//	if !d.OK() {
//		return d.Err()
//	}
//
// Neither cursor panics or returns errors from individual operations.
// The first failure is recorded and the cursor stops being OK; Optional
// turns a failure of the next operation into a no-op.
//
// Every Open must be matched by exactly one Close, including on error
// paths, or the nested node is never spliced into its parent.
package stream
