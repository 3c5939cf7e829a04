package ir

import "fmt"

// Kind records how a node's scalar text is rendered. Nodes without a
// scalar have ContainerKind.
type Kind int

const (
	ContainerKind Kind = iota
	StringKind
	LiteralKind
	NullKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		ContainerKind: "Container",
		StringKind:    "String",
		LiteralKind:   "Literal",
		NullKind:      "Null",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Container": ContainerKind,
		"String":    StringKind,
		"Literal":   LiteralKind,
		"Null":      NullKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

// Shape is the JSON form a node renders as.
type Shape int

const (
	ObjectShape Shape = iota
	ArrayShape
	ScalarShape
)

func (s Shape) String() string {
	switch s {
	case ObjectShape:
		return "object"
	case ArrayShape:
		return "array"
	case ScalarShape:
		return "scalar"
	default:
		return "<unknown shape>"
	}
}
