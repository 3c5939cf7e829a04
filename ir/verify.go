package ir

import "fmt"

// Verify checks that y can be written as JSON: the root carries no scalar
// and no node carries both a scalar and children. It is run once before a
// tree is written so that a document is never partially emitted.
func Verify(y *Node) error {
	return verify(y, 0)
}

func verify(y *Node, depth int) error {
	if depth == 0 && y.IsScalar() {
		return fmt.Errorf("%w: root holds scalar %q", ErrShape, y.Scalar)
	}
	if y.IsScalar() && len(y.Children) != 0 {
		return fmt.Errorf("%w: %s holds both scalar %q and %d children", ErrShape, y.Path(), y.Scalar, len(y.Children))
	}
	for _, e := range y.Children {
		if e.Node == nil {
			return fmt.Errorf("%w: nil child %q under %s", ErrShape, e.Label, y.Path())
		}
		if err := verify(e.Node, depth+1); err != nil {
			return err
		}
	}
	return nil
}
