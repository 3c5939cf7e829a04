package stream

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/signadot/jsonstream/debug"
	"github.com/signadot/jsonstream/ir"
)

// Decoder reads labeled or positional values out of a tree node.
//
// Failures follow the same protocol as Encoder: the first one is kept,
// the decoder stops being OK and later reads are no-ops. A failure in a
// child decoder obtained from Child or Index also fails its parent.
type Decoder struct {
	node *ir.Node

	label    string
	labeled  bool
	optional bool

	ok  bool
	err error

	parent *Decoder
}

func NewDecoder(root *ir.Node) *Decoder {
	if root == nil {
		root = ir.New()
	}
	return &Decoder{node: root, ok: true}
}

// Label sets the label of the next read.
func (d *Decoder) Label(name string) *Decoder {
	d.label = name
	d.labeled = true
	return d
}

// Optional makes a missing or unconvertible value in the next read leave
// both the target and the decoder untouched.
func (d *Decoder) Optional() *Decoder {
	d.optional = true
	return d
}

func (d *Decoder) OK() bool       { return d.ok }
func (d *Decoder) Err() error     { return d.err }
func (d *Decoder) Node() *ir.Node { return d.node }
func (d *Decoder) Len() int       { return d.node.Len() }

// Has reports whether the node has a child under label.
func (d *Decoder) Has(label string) bool {
	return d.node.Get(label) != nil
}

// Fail records err as the decoder's failure, subject to a pending
// Optional.
func (d *Decoder) Fail(err error) {
	_, _, opt := d.take()
	d.fail(opt, err)
}

func (d *Decoder) take() (label string, labeled, optional bool) {
	label, labeled, optional = d.label, d.labeled, d.optional
	d.label, d.labeled, d.optional = "", false, false
	return
}

func (d *Decoder) fail(optional bool, err error) {
	if debug.Decode() {
		debug.Logf("decode %s (optional=%t): %v\n", d.node.Path(), optional, err)
	}
	if optional || !d.ok {
		return
	}
	d.ok = false
	d.err = err
	if d.parent != nil {
		d.parent.fail(false, err)
	}
}

// Value reads into ptr, which must be a non-nil pointer, from the child
// under the pending label, or from the decoder's own node if no label is
// pending. The target is only modified when the read succeeds.
func (d *Decoder) Value(ptr any) *Decoder {
	label, labeled, opt := d.take()
	if !d.ok {
		return d
	}
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		d.fail(false, fmt.Errorf("%w: %s: target %T is not a non-nil pointer", ErrConversion, d.node.Path(), ptr))
		return d
	}
	src := d.node
	if labeled && label != "" {
		src = d.node.Get(label)
		if src == nil {
			d.fail(opt, fmt.Errorf("%w: %q at %s", ErrMissingField, label, d.node.Path()))
			return d
		}
	}
	tmp := reflect.New(rv.Elem().Type())
	if err := decodeValue(src, tmp.Elem()); err != nil {
		d.fail(opt, err)
		return d
	}
	rv.Elem().Set(tmp.Elem())
	return d
}

// Range appends every child of the decoder's node, in order, to the slice
// or set ptr points to; null appends nothing. A fixed size array is
// filled from its start. The target is modified only if every element
// converts.
func (d *Decoder) Range(ptr any) *Decoder {
	_, _, opt := d.take()
	if !d.ok {
		return d
	}
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		d.fail(false, fmt.Errorf("%w: %s: target %T is not a non-nil pointer", ErrConversion, d.node.Path(), ptr))
		return d
	}
	if err := decodeRange(d.node, rv.Elem()); err != nil {
		d.fail(opt, err)
	}
	return d
}

// Child returns a decoder over the container child under label (or the
// pending label if label is empty). A missing child fails d unless the
// read is optional, in which case the returned decoder is OK, detached
// from d and wraps an empty node.
func (d *Decoder) Child(label string) *Decoder {
	pl, labeled, opt := d.take()
	if label == "" && labeled {
		label = pl
	}
	if !d.ok {
		return &Decoder{node: ir.New(), err: d.err, parent: d}
	}
	c := d.node.Get(label)
	var err error
	switch {
	case c == nil:
		err = fmt.Errorf("%w: %q at %s", ErrMissingChild, label, d.node.Path())
	case c.Kind == ir.NullKind:
		err = fmt.Errorf("%w: %s is null", ErrMissingChild, c.Path())
	case c.IsScalar():
		err = fmt.Errorf("%w: %w: %s", ErrMissingChild, ir.ErrNotContainer, c.Path())
	}
	if err != nil {
		if opt {
			return &Decoder{node: ir.New(), ok: true}
		}
		d.fail(false, err)
		return &Decoder{node: ir.New(), err: err, parent: d}
	}
	return &Decoder{node: c, ok: d.ok, err: d.err, parent: d}
}

// Index returns a decoder over the i'th child.
func (d *Decoder) Index(i int) *Decoder {
	if i < 0 || i >= d.node.Len() {
		err := fmt.Errorf("%w: index %d of %d at %s", ErrMissingChild, i, d.node.Len(), d.node.Path())
		d.fail(false, err)
		return &Decoder{node: ir.New(), err: err, parent: d}
	}
	return &Decoder{node: d.node.Children[i].Node, ok: d.ok, err: d.err, parent: d}
}

// Elements iterates over decoders for each child of d's node.
func (d *Decoder) Elements() iter.Seq2[int, *Decoder] {
	return func(yield func(int, *Decoder) bool) {
		for i := range d.node.Len() {
			if !yield(i, d.Index(i)) {
				return
			}
		}
	}
}

// ReadRange appends the children of d's node to *dst.
func ReadRange[T any](d *Decoder, dst *[]T) *Decoder {
	return d.Range(dst)
}

// ReadSet adds the children of d's node to the members of *dst.
func ReadSet[K comparable](d *Decoder, dst *map[K]struct{}) *Decoder {
	return d.Range(dst)
}

// decodeValue sets rv from n. Containers are built aside and assigned
// only on success.
func decodeValue(n *ir.Node, rv reflect.Value) error {
	if u, ok := rv.Addr().Interface().(Unmarshaler); ok {
		if n.IsScalar() {
			return fmt.Errorf("%w: %s: expected container for %s, got %s", ErrConversion, n.Path(), rv.Type(), n.Kind)
		}
		sub := &Decoder{node: n, ok: true}
		u.DecodeTree(sub)
		if !sub.ok {
			return sub.err
		}
		return nil
	}
	handled, err := fromScalar(n, rv)
	if handled {
		return err
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if n.Kind == ir.NullKind {
			rv.SetZero()
			return nil
		}
		p := reflect.New(rv.Type().Elem())
		if err := decodeValue(n, p.Elem()); err != nil {
			return err
		}
		rv.Set(p)
		return nil
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			break
		}
		v, err := toAny(n)
		if err != nil {
			return err
		}
		if v == nil {
			rv.SetZero()
			return nil
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	case reflect.Slice, reflect.Array:
		return decodeRange(n, rv)
	case reflect.Map:
		if IsSet(rv.Type()) {
			return decodeRange(n, rv)
		}
		if rv.Type().Key().Kind() == reflect.String {
			return decodeObject(n, rv)
		}
	}
	return fmt.Errorf("%w: %s: cannot read into %s", ErrConversion, n.Path(), rv.Type())
}

func decodeRange(n *ir.Node, rv reflect.Value) error {
	t := rv.Type()
	if n.Kind == ir.NullKind && (t.Kind() == reflect.Slice || t.Kind() == reflect.Map) {
		return nil
	}
	if n.IsScalar() {
		return fmt.Errorf("%w: %s: expected array for %s, got %s", ErrConversion, n.Path(), t, n.Kind)
	}
	switch t.Kind() {
	case reflect.Slice:
		if n.Len() == 0 {
			return nil
		}
		res := reflect.MakeSlice(t, rv.Len(), rv.Len()+n.Len())
		reflect.Copy(res, rv)
		for _, e := range n.Children {
			el := reflect.New(t.Elem()).Elem()
			if err := decodeValue(e.Node, el); err != nil {
				return err
			}
			res = reflect.Append(res, el)
		}
		rv.Set(res)
		return nil
	case reflect.Array:
		if n.Len() > t.Len() {
			return fmt.Errorf("%w: %s: %d elements for %s", ErrConversion, n.Path(), n.Len(), t)
		}
		res := reflect.New(t).Elem()
		for i, e := range n.Children {
			if err := decodeValue(e.Node, res.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(res)
		return nil
	case reflect.Map:
		if !IsSet(t) {
			break
		}
		if n.Len() == 0 {
			return nil
		}
		res := reflect.MakeMapWithSize(t, rv.Len()+n.Len())
		for it := rv.MapRange(); it.Next(); {
			res.SetMapIndex(it.Key(), it.Value())
		}
		member := reflect.New(t.Elem()).Elem()
		if t.Elem().Kind() == reflect.Bool {
			member.SetBool(true)
		}
		for _, e := range n.Children {
			k := reflect.New(t.Key()).Elem()
			if err := decodeValue(e.Node, k); err != nil {
				return err
			}
			res.SetMapIndex(k, member)
		}
		rv.Set(res)
		return nil
	}
	return fmt.Errorf("%w: %s: cannot read a range into %s", ErrConversion, n.Path(), t)
}

func decodeObject(n *ir.Node, rv reflect.Value) error {
	t := rv.Type()
	if n.Kind == ir.NullKind {
		rv.SetZero()
		return nil
	}
	if n.IsScalar() || (n.IsArray() && n.Len() != 0) {
		return fmt.Errorf("%w: %s: expected object for %s", ErrConversion, n.Path(), t)
	}
	res := reflect.MakeMapWithSize(t, n.Len())
	for _, e := range n.Children {
		el := reflect.New(t.Elem()).Elem()
		if err := decodeValue(e.Node, el); err != nil {
			return err
		}
		res.SetMapIndex(reflect.ValueOf(e.Label).Convert(t.Key()), el)
	}
	rv.Set(res)
	return nil
}
