package debug

import (
	"fmt"
	"os"
	"strconv"

	"github.com/signadot/jsonstream/ir"
)

// Logf writes to stderr. *ir.Node arguments are rendered as a $-path
// followed by a compact outline of the subtree.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *ir.Node:
			if x == nil {
				args[i] = "<nil>"
				continue
			}
			args[i] = x.Path() + " " + outline(x, 3)
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func outline(y *ir.Node, depth int) string {
	if y.IsScalar() {
		if y.Kind == ir.StringKind {
			return strconv.Quote(y.Scalar)
		}
		return y.Scalar
	}
	open, cl := "{", "}"
	if y.IsArray() {
		open, cl = "[", "]"
	}
	if depth == 0 {
		return fmt.Sprintf("%s..%d..%s", open, len(y.Children), cl)
	}
	res := open
	for i, e := range y.Children {
		if i != 0 {
			res += ","
		}
		if e.Label != "" {
			res += strconv.Quote(e.Label) + ":"
		}
		res += outline(e.Node, depth-1)
	}
	return res + cl
}
