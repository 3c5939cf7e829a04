package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/jsonstream/debug"
	"github.com/signadot/jsonstream/ir"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/jsonc"
)

// Parse builds a tree from a single JSON document. The root must be an
// object or an array.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	if pOpts.comments {
		d = jsonc.ToJSON(d)
	}
	return parse(bytes.NewReader(d), pOpts)
}

func ParseReader(r io.Reader, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	if pOpts.comments {
		d, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		return parse(bytes.NewReader(jsonc.ToJSON(d)), pOpts)
	}
	return parse(r, pOpts)
}

// recordingReader remembers the first error of the underlying reader other
// than io.EOF, so tokenizer errors caused by it are reported as ErrRead.
type recordingReader struct {
	r   io.Reader
	err error
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && err != io.EOF && rr.err == nil {
		rr.err = err
	}
	return n, err
}

func parse(r io.Reader, opts *parseOpts) (*ir.Node, error) {
	rr := &recordingReader{r: r}
	dec := jsontext.NewDecoder(rr)
	res, err := parseDoc(dec, opts)
	if err != nil {
		if rr.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, rr.err)
		}
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("parsed %v\n", res)
	}
	return res, nil
}

func parseDoc(dec *jsontext.Decoder, opts *parseOpts) (*ir.Node, error) {
	off := dec.InputOffset()
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, wrapErr(err)
	}
	switch tok.Kind() {
	case '{', '[':
	default:
		return nil, fmt.Errorf("%w: %w: document root is %s, not an object or array", ErrParse, ir.ErrShape, tok.Kind())
	}
	res, err := parseValue(dec, tok, off, opts)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("%w: data after document at offset %d", ErrParse, dec.InputOffset())
		}
		return nil, wrapErr(err)
	}
	return res, nil
}

func parseValue(dec *jsontext.Decoder, tok jsontext.Token, off int64, opts *parseOpts) (*ir.Node, error) {
	var res *ir.Node
	switch tok.Kind() {
	case '{':
		res = ir.New()
		if err := parseObject(dec, res, opts); err != nil {
			return nil, err
		}
	case '[':
		res = ir.NewArray()
		if err := parseArray(dec, res, opts); err != nil {
			return nil, err
		}
	case '"':
		res = ir.FromString(tok.String())
	case 'n':
		res = ir.Null()
	case '0', 't', 'f':
		res = ir.FromLiteral(tok.String())
	default:
		return nil, fmt.Errorf("%w: unexpected token %s at offset %d", ErrParse, tok.Kind(), off)
	}
	if opts.offsets != nil {
		opts.offsets[res] = off
	}
	return res, nil
}

func parseObject(dec *jsontext.Decoder, res *ir.Node, opts *parseOpts) error {
	for {
		tok, err := dec.ReadToken()
		if err != nil {
			return wrapErr(err)
		}
		if tok.Kind() == '}' {
			return nil
		}
		label := tok.String()
		off := dec.InputOffset()
		vtok, err := dec.ReadToken()
		if err != nil {
			return wrapErr(err)
		}
		child, err := parseValue(dec, vtok, off, opts)
		if err != nil {
			return err
		}
		res.AddChild(label, child)
	}
}

func parseArray(dec *jsontext.Decoder, res *ir.Node, opts *parseOpts) error {
	for {
		off := dec.InputOffset()
		tok, err := dec.ReadToken()
		if err != nil {
			return wrapErr(err)
		}
		if tok.Kind() == ']' {
			return nil
		}
		child, err := parseValue(dec, tok, off, opts)
		if err != nil {
			return err
		}
		res.AddChild("", child)
	}
}

func wrapErr(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %w", ErrParse, err)
}
