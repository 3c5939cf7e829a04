package jsonstream

import (
	"fmt"

	"github.com/signadot/jsonstream/debug"
	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/ir"
	"github.com/signadot/jsonstream/parse"

	jsonpatch "github.com/evanphx/json-patch"
)

// Patch applies an RFC 6902 patch to doc and returns the patched document
// in compact form.
func Patch(doc, patch []byte) ([]byte, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", parse.ErrParse, err)
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return nil, err
	}
	return canonical(out)
}

// MergePatch applies an RFC 7386 merge patch to doc.
func MergePatch(doc, patch []byte) ([]byte, error) {
	out, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, err
	}
	return canonical(out)
}

// PatchNode is Patch over trees.
func PatchNode(doc, patch *ir.Node) (*ir.Node, error) {
	if debug.Encode() {
		debug.Logf("patching %v with %v\n", doc, patch)
	}
	d, err := encode.String(doc)
	if err != nil {
		return nil, err
	}
	p, err := encode.String(patch)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch([]byte(p))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", parse.ErrParse, err)
	}
	out, err := ops.Apply([]byte(d))
	if err != nil {
		return nil, err
	}
	return parse.Parse(out)
}

func canonical(d []byte) ([]byte, error) {
	node, err := parse.Parse(d)
	if err != nil {
		return nil, err
	}
	s, err := encode.String(node)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
