package stream

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/signadot/jsonstream/debug"
	"github.com/signadot/jsonstream/ir"
)

// Encoder appends labeled or positional values to a tree node.
//
// A label set with Label is consumed by the next value operation. Once a
// write fails the encoder is no longer OK and further writes are no-ops,
// so a sequence of writes can be pumped without checking each one.
type Encoder struct {
	node *ir.Node
	path string

	label    string
	labeled  bool
	optional bool
	array    bool

	ok  bool
	err error

	parent      *Encoder
	parentLabel string
	openOpt     bool
	closed      bool
}

// NewEncoder returns an encoder appending to root. A nil root is replaced
// by a fresh empty node.
func NewEncoder(root *ir.Node) *Encoder {
	if root == nil {
		root = ir.New()
	}
	return &Encoder{node: root, path: "$", ok: true, array: root.Array}
}

// Label sets the label of the next value.
func (e *Encoder) Label(name string) *Encoder {
	e.label = name
	e.labeled = true
	return e
}

// Optional makes a failure of the next operation leave the encoder OK.
func (e *Encoder) Optional() *Encoder {
	e.optional = true
	return e
}

func (e *Encoder) OK() bool       { return e.ok }
func (e *Encoder) Err() error     { return e.err }
func (e *Encoder) Node() *ir.Node { return e.node }

// Fail records err as the encoder's failure, subject to a pending
// Optional. It is for Marshalers that detect invalid values.
func (e *Encoder) Fail(err error) {
	_, _, opt := e.take()
	e.fail(opt, err)
}

func (e *Encoder) take() (label string, labeled, optional bool) {
	label, labeled, optional = e.label, e.labeled, e.optional
	e.label, e.labeled, e.optional = "", false, false
	return
}

func (e *Encoder) fail(optional bool, err error) {
	if debug.Encode() {
		debug.Logf("encode %s (optional=%t): %v\n", e.path, optional, err)
	}
	if optional || !e.ok {
		return
	}
	e.ok = false
	e.err = err
}

// key returns the child label for the next value: empty in array mode,
// otherwise the pending label, which must be set.
func (e *Encoder) key(label string, labeled bool) (string, error) {
	if e.array {
		return "", nil
	}
	if !labeled || label == "" {
		return "", fmt.Errorf("%w at %s", ErrNoLabel, e.path)
	}
	return label, nil
}

func (e *Encoder) childPath(key string) string {
	if key == "" {
		return e.path + "[" + strconv.Itoa(e.node.Len()) + "]"
	}
	return e.path + "." + key
}

// Value writes v under the pending label, or as the next element in array
// mode. Scalars are converted by type; nil, nil pointers and nil
// interfaces become null; Marshalers, slices, arrays, sets and string
// keyed maps become nested containers.
func (e *Encoder) Value(v any) *Encoder {
	label, labeled, opt := e.take()
	if !e.ok {
		return e
	}
	k, err := e.key(label, labeled)
	if err != nil {
		e.fail(opt, err)
		return e
	}
	n, err := valueNode(v, e.childPath(k))
	if err != nil {
		e.fail(opt, err)
		return e
	}
	e.node.AddChild(k, n)
	return e
}

// Pointer writes *p, or null if p is nil.
func (e *Encoder) Pointer(p any) *Encoder {
	if _, ok := p.(Marshaler); ok {
		return e.Value(p)
	}
	rv := reflect.ValueOf(p)
	if p == nil || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return e.Null()
	}
	if rv.Kind() == reflect.Pointer {
		return e.Value(rv.Elem().Interface())
	}
	return e.Value(p)
}

func (e *Encoder) Null() *Encoder {
	label, labeled, opt := e.take()
	if !e.ok {
		return e
	}
	k, err := e.key(label, labeled)
	if err != nil {
		e.fail(opt, err)
		return e
	}
	e.node.AddNull(k)
	return e
}

// Range switches e to array mode and appends each element of v, which
// must be a slice, an array or a set (map[K]struct{} or map[K]bool). An
// empty or nil v still marks the node as an array so it is written as [].
func (e *Encoder) Range(v any) *Encoder {
	_, _, opt := e.take()
	if !e.ok {
		return e
	}
	for _, c := range e.node.Children {
		if c.Label != "" {
			e.fail(opt, fmt.Errorf("%w: %s: range written to an object", ir.ErrShape, e.path))
			return e
		}
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			rv = reflect.Value{}
			break
		}
		rv = rv.Elem()
	}
	var ns []*ir.Node
	if rv.IsValid() {
		var err error
		ns, err = rangeNodes(rv, e.path, e.node.Len())
		if err != nil {
			e.fail(opt, err)
			return e
		}
	}
	e.array = true
	e.node.Array = true
	for _, n := range ns {
		e.node.AddChild("", n)
	}
	return e
}

// Open starts a nested object. The returned encoder writes into a fresh
// node that is spliced into e by Close, under label (or the pending label
// if label is empty), or as the next element when e is in array mode.
func (e *Encoder) Open(label string) *Encoder {
	return e.open(label, ir.New(), false)
}

// OpenArray is Open for a nested array.
func (e *Encoder) OpenArray(label string) *Encoder {
	return e.open(label, ir.NewArray(), true)
}

// OpenElement starts a nested object as the next array element.
func (e *Encoder) OpenElement() *Encoder {
	return e.open("", ir.New(), false)
}

func (e *Encoder) open(label string, n *ir.Node, array bool) *Encoder {
	pl, labeled, opt := e.take()
	if label == "" && labeled {
		label = pl
	}
	k := label
	if e.array {
		k = ""
	}
	return &Encoder{
		node:        n,
		path:        e.childPath(k),
		array:       array,
		ok:          e.ok,
		err:         e.err,
		parent:      e,
		parentLabel: label,
		openOpt:     opt,
	}
}

// Close splices a nested encoder's node into its parent. If the nested
// encoder failed its node is discarded and the parent fails too, unless
// it was opened as optional. Closing the root or closing twice does
// nothing.
func (e *Encoder) Close() {
	p := e.parent
	if p == nil || e.closed {
		return
	}
	e.closed = true
	if !p.ok {
		return
	}
	if !e.ok {
		p.fail(e.openOpt, e.err)
		return
	}
	k, err := p.key(e.parentLabel, true)
	if err != nil {
		p.fail(e.openOpt, err)
		return
	}
	p.node.AddChild(k, e.node)
}

// WriteRange writes xs as the elements of e's node.
func WriteRange[T any](e *Encoder, xs []T) *Encoder {
	return e.Range(xs)
}

// WriteSet writes the members of set in ascending order.
func WriteSet[K comparable](e *Encoder, set map[K]struct{}) *Encoder {
	return e.Range(set)
}

func valueNode(v any, path string) (*ir.Node, error) {
	if v == nil {
		return ir.Null(), nil
	}
	if m, ok := v.(Marshaler); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ir.Null(), nil
		}
		sub := &Encoder{node: ir.New(), path: path, ok: true}
		m.EncodeTree(sub)
		if !sub.ok {
			return nil, sub.err
		}
		return sub.node, nil
	}
	kind, text, handled, err := toScalar(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConversion, path, err)
	}
	if handled {
		return &ir.Node{Kind: kind, Scalar: text}, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return valueNode(rv.Elem().Interface(), path)
	case reflect.Slice, reflect.Array:
		return arrayNode(rv, path)
	case reflect.Map:
		if IsSet(rv.Type()) {
			return arrayNode(rv, path)
		}
		if rv.Type().Key().Kind() == reflect.String {
			return objectNode(rv, path)
		}
	}
	return nil, fmt.Errorf("%w: %s: cannot write %s", ErrConversion, path, rv.Type())
}

func arrayNode(rv reflect.Value, path string) (*ir.Node, error) {
	ns, err := rangeNodes(rv, path, 0)
	if err != nil {
		return nil, err
	}
	return ir.FromSlice(ns), nil
}

func objectNode(rv reflect.Value, path string) (*ir.Node, error) {
	res := ir.New()
	for _, k := range sortedKeys(rv) {
		c, err := valueNode(rv.MapIndex(k).Interface(), path+"."+k.String())
		if err != nil {
			return nil, err
		}
		res.AddChild(k.String(), c)
	}
	return res, nil
}

// rangeNodes converts the elements of a slice, array or set. Nothing is
// returned if any element fails.
func rangeNodes(rv reflect.Value, path string, start int) ([]*ir.Node, error) {
	elemPath := func(i int) string {
		return path + "[" + strconv.Itoa(start+i) + "]"
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		res := make([]*ir.Node, 0, rv.Len())
		for i := range rv.Len() {
			n, err := valueNode(rv.Index(i).Interface(), elemPath(i))
			if err != nil {
				return nil, err
			}
			res = append(res, n)
		}
		return res, nil
	case reflect.Map:
		if !IsSet(rv.Type()) {
			break
		}
		boolSet := rv.Type().Elem().Kind() == reflect.Bool
		res := make([]*ir.Node, 0, rv.Len())
		for _, k := range sortedKeys(rv) {
			if boolSet && !rv.MapIndex(k).Bool() {
				continue
			}
			n, err := valueNode(k.Interface(), elemPath(len(res)))
			if err != nil {
				return nil, err
			}
			res = append(res, n)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: %s: cannot write %s as a range", ErrConversion, path, rv.Type())
}
