package encode

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/jsonstream/debug"
	"github.com/signadot/jsonstream/ir"
	"github.com/signadot/jsonstream/token"
)

type EncState struct {
	depth, indent int
	pretty        bool
	compat        bool
	newline       bool

	Color func(ir.Kind, ColorAttr, string) string
}

// Encode verifies node and writes it to w as JSON. Nothing is written if
// verification fails.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent:  4,
		newline: true,
	}
	for _, opt := range opts {
		opt(es)
	}
	if err := ir.Verify(node); err != nil {
		if debug.Encode() {
			debug.Logf("refusing to encode: %v\n", err)
		}
		return err
	}
	buf := bytes.NewBuffer(nil)
	encode(node, buf, es)
	if es.newline {
		buf.WriteByte('\n')
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Helper functions for writing
func writeNL(w *bytes.Buffer, es *EncState) {
	if !es.pretty {
		return
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(" ", es.indent*es.depth))
}

func applyColor(es *EncState, kind ir.Kind, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(kind, attr, v)
}

func writeSep(w *bytes.Buffer, es *EncState, sep string) {
	w.WriteString(applyColor(es, ir.ContainerKind, SepColor, sep))
}

// Main encode function

func encode(node *ir.Node, w *bytes.Buffer, es *EncState) {
	switch node.Shape() {
	case ir.ScalarShape:
		encodeScalar(node, w, es)
	case ir.ArrayShape:
		encodeArray(node, w, es)
	default:
		encodeObject(node, w, es)
	}
}

func encodeScalar(node *ir.Node, w *bytes.Buffer, es *EncState) {
	v := node.Scalar
	if node.Kind == ir.StringKind {
		v = quoteString(v, es)
	}
	w.WriteString(applyColor(es, node.Kind, ValueColor, v))
}

func encodeArray(node *ir.Node, w *bytes.Buffer, es *EncState) {
	writeSep(w, es, "[")
	n := len(node.Children)
	if n == 0 {
		writeSep(w, es, "]")
		return
	}
	es.depth++
	for i, e := range node.Children {
		writeNL(w, es)
		encode(e.Node, w, es)
		if i < n-1 {
			writeSep(w, es, ",")
		}
	}
	es.depth--
	writeNL(w, es)
	writeSep(w, es, "]")
}

func encodeObject(node *ir.Node, w *bytes.Buffer, es *EncState) {
	writeSep(w, es, "{")
	n := len(node.Children)
	if n == 0 {
		writeSep(w, es, "}")
		return
	}
	es.depth++
	for i, e := range node.Children {
		writeNL(w, es)
		writeField(w, e.Label, es)
		encode(e.Node, w, es)
		if i < n-1 {
			writeSep(w, es, ",")
		}
	}
	es.depth--
	writeNL(w, es)
	writeSep(w, es, "}")
}

func writeField(w *bytes.Buffer, f string, es *EncState) {
	var q string
	if es.compat {
		q = `"` + token.EscapeCompat(f) + `"`
	} else {
		q = token.Quote(f)
	}
	w.WriteString(applyColor(es, ir.ContainerKind, FieldColor, q))
	sep := ":"
	if es.pretty {
		sep = ": "
	}
	writeSep(w, es, sep)
}

// String quoting helper

func quoteString(v string, es *EncState) string {
	if es.compat {
		return token.QuoteCompat(v)
	}
	return token.Quote(v)
}
