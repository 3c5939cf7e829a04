package jsonstream

import (
	"bytes"
	"fmt"

	"github.com/signadot/jsonstream/bind"
	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/parse"
)

// Marshal returns the compact JSON encoding of v, a struct, a pointer to a
// struct or a stream.Marshaler. opts are applied after the default of no
// trailing newline.
func Marshal(v any, opts ...encode.EncodeOption) ([]byte, error) {
	node, err := bind.Marshal(v)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	eOpts := append([]encode.EncodeOption{encode.TrailingNewline(false)}, opts...)
	if err := encode.Encode(node, buf, eOpts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses d and decodes it into v, a pointer to a struct or a
// stream.Unmarshaler.
func Unmarshal(d []byte, v any, opts ...parse.ParseOption) error {
	node, err := parse.Parse(d, opts...)
	if err != nil {
		return err
	}
	return bind.Unmarshal(node, v)
}

func Dumps(v any, opts ...encode.EncodeOption) (string, error) {
	d, err := Marshal(v, opts...)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

func Loads(s string, v any, opts ...parse.ParseOption) error {
	return Unmarshal([]byte(s), v, opts...)
}

// Into decodes s into a new T.
func Into[T any](s string, opts ...parse.ParseOption) (T, error) {
	var res T
	if err := Loads(s, &res, opts...); err != nil {
		var zero T
		return zero, err
	}
	return res, nil
}

// ToString returns the indented encoding of v, or a description of the
// error if v cannot be encoded. It is meant for logs and debugging.
func ToString(v any) string {
	s, err := Dumps(v, encode.Pretty(true))
	if err != nil {
		return fmt.Sprintf("<%T: %v>", v, err)
	}
	return s
}
