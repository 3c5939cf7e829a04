package bind

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/signadot/jsonstream/debug"
	"github.com/signadot/jsonstream/ir"
	"github.com/signadot/jsonstream/stream"
)

type class int

const (
	scalarClass class = iota
	collectionClass
	recordClass
	optScalarClass
	optCollectionClass
	optRecordClass
)

var (
	marshalerType       = reflect.TypeFor[stream.Marshaler]()
	unmarshalerType     = reflect.TypeFor[stream.Unmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// classify decides how a value of type t is bound: scalars (including
// anything the stream package writes on its own) by label, collections
// and records through a nested cursor. Pointers make each optional.
func classify(t reflect.Type) class {
	if t.Kind() == reflect.Pointer {
		switch classify(t.Elem()) {
		case collectionClass:
			return optCollectionClass
		case recordClass:
			return optRecordClass
		}
		return optScalarClass
	}
	if leaf(t) {
		return scalarClass
	}
	switch t.Kind() {
	case reflect.Struct:
		return recordClass
	case reflect.Slice, reflect.Array:
		return collectionClass
	case reflect.Map:
		if stream.IsSet(t) {
			return collectionClass
		}
	}
	return scalarClass
}

func leaf(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	switch {
	case t.Implements(marshalerType), pt.Implements(marshalerType), pt.Implements(unmarshalerType):
		return true
	case t.Implements(textMarshalerType), pt.Implements(textUnmarshalerType):
		return true
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return true
	}
	return false
}

func leafValue(rv reflect.Value) any {
	if rv.CanAddr() && !rv.Type().Implements(marshalerType) && reflect.PointerTo(rv.Type()).Implements(marshalerType) {
		return rv.Addr().Interface()
	}
	return rv.Interface()
}

func isRecordElem(t reflect.Type) bool {
	if t.Kind() == reflect.Map {
		return false
	}
	switch classify(t.Elem()) {
	case recordClass, optRecordClass:
		return true
	}
	return false
}

func elemPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// Encode writes each field to e in order: scalars under their label,
// collections and records as nested containers. A nil optional
// collection is written as []. It returns a *MarshalError naming the
// first field that failed, which is also e's failure.
func Encode(e *stream.Encoder, fields ...Field) error {
	if !e.OK() {
		err := cursorErr(e.Err())
		return &MarshalError{Message: err.Error(), Err: err}
	}
	path := encodeFields(e, fields, "")
	if e.OK() {
		return nil
	}
	err := cursorErr(e.Err())
	if debug.Bind() {
		debug.Logf("bind: encode %s: %v\n", path, err)
	}
	return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
}

func encodeFields(e *stream.Encoder, fields []Field, prefix string) string {
	for _, f := range fields {
		path := prefix + f.Label
		rv := reflect.ValueOf(f.Ptr)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			e.Fail(fmt.Errorf("%w: %q: %T is not a non-nil pointer", ErrBadField, f.Label, f.Ptr))
			return path
		}
		if p := encodeValue(e, f.Label, rv.Elem(), path); p != "" {
			return p
		}
	}
	return ""
}

func encodeValue(e *stream.Encoder, label string, rv reflect.Value, path string) string {
	switch classify(rv.Type()) {
	case scalarClass:
		e.Label(label).Value(leafValue(rv))
	case optScalarClass:
		e.Label(label).Pointer(rv.Interface())
	case collectionClass:
		if p := encodeCollection(e, label, rv, path); p != "" {
			return p
		}
	case optCollectionClass:
		if rv.IsNil() {
			sub := e.Open(label)
			sub.Range(nil)
			sub.Close()
			break
		}
		if p := encodeCollection(e, label, rv.Elem(), path); p != "" {
			return p
		}
	case recordClass:
		sub := e.Open(label)
		p := encodeRecord(sub, rv, path)
		sub.Close()
		if p != "" {
			return p
		}
	case optRecordClass:
		if rv.IsNil() {
			e.Label(label).Null()
			break
		}
		sub := e.Open(label)
		p := encodeRecord(sub, rv.Elem(), path)
		sub.Close()
		if p != "" {
			return p
		}
	}
	if !e.OK() {
		return path
	}
	return ""
}

func encodeCollection(e *stream.Encoder, label string, rv reflect.Value, path string) string {
	if !isRecordElem(rv.Type()) {
		sub := e.Open(label)
		sub.Range(rv.Interface())
		sub.Close()
		return ""
	}
	arr := e.OpenArray(label)
	defer arr.Close()
	for i := range rv.Len() {
		el := rv.Index(i)
		if el.Kind() == reflect.Pointer {
			if el.IsNil() {
				arr.Null()
				continue
			}
			el = el.Elem()
		}
		sub := arr.OpenElement()
		p := encodeRecord(sub, el, elemPath(path, i))
		sub.Close()
		if p != "" {
			return p
		}
	}
	return ""
}

func encodeRecord(e *stream.Encoder, rv reflect.Value, path string) string {
	infos, err := structFields(rv.Type())
	if err != nil {
		e.Fail(err)
		return path
	}
	for _, fi := range infos {
		if p := encodeValue(e, fi.Label, rv.FieldByIndex(fi.Index), path+"."+fi.Label); p != "" {
			return p
		}
	}
	return ""
}

// Decode reads each field from d in order. Optional fields, and fields
// bound to pointers, are left unchanged when their label is missing. An
// optional collection present as [] is left unset. It returns an
// *UnmarshalError naming the first field that failed, which is also d's
// failure.
func Decode(d *stream.Decoder, fields ...Field) error {
	if !d.OK() {
		err := cursorErr(d.Err())
		return &UnmarshalError{Message: err.Error(), Err: err}
	}
	path := decodeFields(d, fields, "")
	if d.OK() {
		return nil
	}
	err := cursorErr(d.Err())
	if debug.Bind() {
		debug.Logf("bind: decode %s: %v\n", path, err)
	}
	return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
}

// cursorErr returns the failure of a cursor that is not OK.
func cursorErr(err error) error {
	if err == nil {
		return ErrFailedCursor
	}
	return err
}

func decodeFields(d *stream.Decoder, fields []Field, prefix string) string {
	for _, f := range fields {
		path := prefix + f.Label
		rv := reflect.ValueOf(f.Ptr)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			d.Fail(fmt.Errorf("%w: %q: %T is not a non-nil pointer", ErrBadField, f.Label, f.Ptr))
			return path
		}
		if p := decodeValue(d, f.Label, f.Optional, rv.Elem(), path); p != "" {
			return p
		}
	}
	return ""
}

func decodeValue(d *stream.Decoder, label string, opt bool, rv reflect.Value, path string) string {
	switch classify(rv.Type()) {
	case scalarClass:
		if opt {
			d.Optional()
		}
		d.Label(label).Value(rv.Addr().Interface())
	case optScalarClass:
		if !d.Has(label) {
			return ""
		}
		d.Label(label).Value(rv.Addr().Interface())
	case collectionClass:
		if opt && !d.Has(label) {
			return ""
		}
		sub := d.Child(label)
		if p := decodeCollection(sub, rv, path); p != "" {
			return p
		}
	case optCollectionClass:
		n := d.Node().Get(label)
		switch {
		case n == nil:
			return ""
		case n.Kind == ir.NullKind:
			rv.SetZero()
			return ""
		}
		sub := d.Child(label)
		if sub.OK() && sub.Len() == 0 {
			return ""
		}
		tmp := reflect.New(rv.Type().Elem())
		if p := decodeCollection(sub, tmp.Elem(), path); p != "" {
			return p
		}
		if sub.OK() {
			rv.Set(tmp)
		}
	case recordClass:
		if opt && !d.Has(label) {
			return ""
		}
		sub := d.Child(label)
		tmp := reflect.New(rv.Type()).Elem()
		tmp.Set(rv)
		if p := decodeRecord(sub, tmp, path); p != "" {
			return p
		}
		if sub.OK() {
			rv.Set(tmp)
		}
	case optRecordClass:
		n := d.Node().Get(label)
		switch {
		case n == nil:
			return ""
		case n.Kind == ir.NullKind:
			rv.SetZero()
			return ""
		}
		sub := d.Child(label)
		tmp := reflect.New(rv.Type().Elem())
		if !rv.IsNil() {
			tmp.Elem().Set(rv.Elem())
		}
		if p := decodeRecord(sub, tmp.Elem(), path); p != "" {
			return p
		}
		if sub.OK() {
			rv.Set(tmp)
		}
	}
	if !d.OK() {
		return path
	}
	return ""
}

// decodeCollection replaces rv with the children of d's node; an empty
// slice or set decodes as nil. rv is left unchanged unless every element
// decodes.
func decodeCollection(d *stream.Decoder, rv reflect.Value, path string) string {
	t := rv.Type()
	if !isRecordElem(t) {
		tmp := reflect.New(t)
		d.Range(tmp.Interface())
		if !d.OK() {
			return path
		}
		rv.Set(tmp.Elem())
		return ""
	}
	n := d.Len()
	var res reflect.Value
	switch {
	case t.Kind() == reflect.Slice && n == 0:
		res = reflect.Zero(t)
	case t.Kind() == reflect.Slice:
		res = reflect.MakeSlice(t, n, n)
	default:
		if n > t.Len() {
			d.Fail(fmt.Errorf("%w: %s: %d elements for %s", stream.ErrConversion, d.Node().Path(), n, t))
			return path
		}
		res = reflect.New(t).Elem()
	}
	for i, el := range d.Elements() {
		target := res.Index(i)
		if target.Kind() == reflect.Pointer {
			if el.Node().Kind == ir.NullKind {
				continue
			}
			target.Set(reflect.New(t.Elem().Elem()))
			target = target.Elem()
		}
		if p := decodeRecord(el, target, elemPath(path, i)); p != "" {
			return p
		}
	}
	if !d.OK() {
		return path
	}
	rv.Set(res)
	return ""
}

func decodeRecord(d *stream.Decoder, rv reflect.Value, path string) string {
	if !d.OK() {
		return path
	}
	if d.Node().IsScalar() {
		d.Fail(fmt.Errorf("%w: %s: expected object for %s, got %s", stream.ErrConversion, d.Node().Path(), rv.Type(), d.Node().Kind))
		return path
	}
	infos, err := structFields(rv.Type())
	if err != nil {
		d.Fail(err)
		return path
	}
	for _, fi := range infos {
		if p := decodeValue(d, fi.Label, fi.Optional, rv.FieldByIndex(fi.Index), path+"."+fi.Label); p != "" {
			return p
		}
	}
	return ""
}

// Marshal encodes v, a struct, a pointer to a struct or a
// stream.Marshaler, into a new tree.
func Marshal(v any) (*ir.Node, error) {
	e := stream.NewEncoder(nil)
	if m, ok := v.(stream.Marshaler); ok {
		m.EncodeTree(e)
		if !e.OK() {
			err := cursorErr(e.Err())
			return nil, &MarshalError{Message: err.Error(), Err: err}
		}
		return e.Node(), nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Struct {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		v = p.Interface()
	}
	fields, err := Struct(v)
	if err != nil {
		return nil, &MarshalError{Message: err.Error(), Err: err}
	}
	if err := Encode(e, fields...); err != nil {
		return nil, err
	}
	return e.Node(), nil
}

// Unmarshal decodes node into v, a pointer to a struct or a
// stream.Unmarshaler.
func Unmarshal(node *ir.Node, v any) error {
	d := stream.NewDecoder(node)
	if u, ok := v.(stream.Unmarshaler); ok {
		u.DecodeTree(d)
		if !d.OK() {
			err := cursorErr(d.Err())
			return &UnmarshalError{Message: err.Error(), Err: err}
		}
		return nil
	}
	fields, err := Struct(v)
	if err != nil {
		return &UnmarshalError{Message: err.Error(), Err: err}
	}
	return Decode(d, fields...)
}
