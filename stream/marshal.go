package stream

// Marshaler is implemented by types that write themselves as a nested
// object (or array) through an encode cursor.
type Marshaler interface {
	EncodeTree(e *Encoder)
}

// Unmarshaler is implemented by types that read themselves from a nested
// container through a decode cursor. Failures are reported by leaving d
// not OK.
type Unmarshaler interface {
	DecodeTree(d *Decoder)
}
