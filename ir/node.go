package ir

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Node is an element of an ordered labeled tree. A node either carries a
// scalar (Kind != ContainerKind) or an ordered list of children.
type Node struct {
	Kind   Kind
	Scalar string

	Children []*Entry

	// Array marks a container produced by a range write or parsed from a
	// JSON array, so that it renders as [] even when it has no children.
	Array bool

	Parent      *Node
	ParentIndex int
	ParentLabel string
}

// Entry is a (label, node) pair in a parent's child list. Array elements
// have the empty label.
type Entry struct {
	Label string
	Node  *Node
}

func New() *Node {
	return &Node{}
}

func NewArray() *Node {
	return &Node{Array: true}
}

func FromString(v string) *Node {
	return &Node{Kind: StringKind, Scalar: v}
}

func FromLiteral(v string) *Node {
	return &Node{Kind: LiteralKind, Scalar: v}
}

func FromInt(v int64) *Node {
	return FromLiteral(strconv.FormatInt(v, 10))
}

func FromBool(v bool) *Node {
	return FromLiteral(strconv.FormatBool(v))
}

func Null() *Node {
	return &Node{Kind: NullKind, Scalar: "null"}
}

// FromSlice returns an array node holding ns as unlabeled children.
func FromSlice(ns []*Node) *Node {
	res := NewArray()
	for _, n := range ns {
		res.AddChild("", n)
	}
	return res
}

// KeyVal is a labeled child used by FromKeyVals.
type KeyVal struct {
	Key string
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := New()
	for _, kv := range kvs {
		res.AddChild(kv.Key, kv.Val)
	}
	return res
}

func (y *Node) IsScalar() bool {
	return y.Kind != ContainerKind
}

// IsArray reports whether y renders as a JSON array: every child is
// unlabeled. Array only decides the childless case, [] rather than {}.
func (y *Node) IsArray() bool {
	if y.IsScalar() {
		return false
	}
	if len(y.Children) == 0 {
		return y.Array
	}
	for _, e := range y.Children {
		if e.Label != "" {
			return false
		}
	}
	return true
}

func (y *Node) Shape() Shape {
	switch {
	case y.IsScalar():
		return ScalarShape
	case y.IsArray():
		return ArrayShape
	default:
		return ObjectShape
	}
}

func (y *Node) Len() int {
	return len(y.Children)
}

// AddScalar appends a scalar child under label. A non-empty label that is
// already present has its node replaced in place, keeping labels unique
// among siblings.
func (y *Node) AddScalar(label string, kind Kind, text string) *Node {
	return y.AddChild(label, &Node{Kind: kind, Scalar: text})
}

func (y *Node) AddString(label, v string) *Node {
	return y.AddScalar(label, StringKind, v)
}

func (y *Node) AddLiteral(label, v string) *Node {
	return y.AddScalar(label, LiteralKind, v)
}

func (y *Node) AddNull(label string) *Node {
	return y.AddScalar(label, NullKind, "null")
}

// AddChild splices sub under label and returns it. sub is not copied.
// Mixing a scalar and children on one node is not rejected here; Verify
// reports it before the tree is written.
func (y *Node) AddChild(label string, sub *Node) *Node {
	if sub == nil {
		sub = New()
	}
	if label != "" {
		for i, e := range y.Children {
			if e.Label == label {
				e.Node.Parent = nil
				e.Node = sub
				sub.Parent = y
				sub.ParentIndex = i
				sub.ParentLabel = label
				return sub
			}
		}
	}
	sub.Parent = y
	sub.ParentIndex = len(y.Children)
	sub.ParentLabel = label
	y.Children = append(y.Children, &Entry{Label: label, Node: sub})
	return sub
}

// Get returns the first child with the given label, or nil.
func (y *Node) Get(label string) *Node {
	for _, e := range y.Children {
		if e.Label == label {
			return e.Node
		}
	}
	return nil
}

// GetScalar returns the scalar text and kind of the child under label.
func (y *Node) GetScalar(label string) (string, Kind, error) {
	c := y.Get(label)
	if c == nil {
		return "", ContainerKind, fmt.Errorf("%w: %q at %s", ErrNotFound, label, y.Path())
	}
	if !c.IsScalar() {
		return "", ContainerKind, fmt.Errorf("%w: %s", ErrNotScalar, c.Path())
	}
	return c.Scalar, c.Kind, nil
}

// GetChild returns the container child under label.
func (y *Node) GetChild(label string) (*Node, error) {
	c := y.Get(label)
	if c == nil {
		return nil, fmt.Errorf("%w: %q at %s", ErrNotFound, label, y.Path())
	}
	if c.IsScalar() {
		return nil, fmt.Errorf("%w: %s", ErrNotContainer, c.Path())
	}
	return c, nil
}

// Entries iterates over the children of y in insertion order.
func (y *Node) Entries() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		for _, e := range y.Children {
			if !yield(e.Label, e.Node) {
				return
			}
		}
	}
}

// Clone returns a deep copy of y detached from any parent.
func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

// CloneTo copies the subtree of y into dst. dst keeps its own parent
// links.
func (y *Node) CloneTo(dst *Node) *Node {
	dst.Kind = y.Kind
	dst.Scalar = y.Scalar
	dst.Array = y.Array
	dst.Children = make([]*Entry, len(y.Children))
	for i, e := range y.Children {
		c := e.Node.Clone()
		c.Parent = dst
		c.ParentIndex = i
		c.ParentLabel = e.Label
		dst.Children[i] = &Entry{Label: e.Label, Node: c}
	}
	return dst
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Path returns a $-rooted path to y for diagnostics.
func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	if y.Parent.IsArray() || y.ParentLabel == "" {
		return y.Parent.Path() + "[" + strconv.Itoa(y.ParentIndex) + "]"
	}
	f := y.ParentLabel
	prefix := y.Parent.Path() + "."
	if strings.IndexAny(f, "'.*$[] ") == -1 {
		return prefix + f
	}
	return prefix + "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// Visit walks y depth first, calling f before (isPost false) and after
// (isPost true) the children. Children are skipped if f returns false.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, e := range y.Children {
			if err := e.Node.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
