package jsonstream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signadot/jsonstream/bind"
	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/ir"
	"github.com/signadot/jsonstream/parse"

	"github.com/klauspost/compress/zstd"
)

// ZstdSuffix marks files that are read and written zstd compressed.
const ZstdSuffix = ".zst"

// ReadNode parses the JSON document in the named file. "-" reads stdin.
func ReadNode(path string, opts ...parse.ParseOption) (*ir.Node, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		defer f.Close()
		r = f
	}
	if strings.HasSuffix(path, ZstdSuffix) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
		}
		defer zr.Close()
		r = zr
	}
	node, err := parse.ParseReader(bufio.NewReader(r), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

// ReadFile decodes the named file into v.
func ReadFile(path string, v any, opts ...parse.ParseOption) error {
	node, err := ReadNode(path, opts...)
	if err != nil {
		return err
	}
	return bind.Unmarshal(node, v)
}

// WriteNode encodes node to the named file, replacing it. "-" writes
// stdout.
func WriteNode(path string, node *ir.Node, opts ...encode.EncodeOption) (err error) {
	var w io.Writer
	if path == "-" {
		w = os.Stdout
	} else {
		f, oErr := os.Create(path)
		if oErr != nil {
			return fmt.Errorf("%w: %w", ErrIO, oErr)
		}
		defer func() {
			if cErr := f.Close(); cErr != nil && err == nil {
				err = fmt.Errorf("%w: %w", ErrIO, cErr)
			}
		}()
		w = f
	}
	if strings.HasSuffix(path, ZstdSuffix) {
		zw, zErr := zstd.NewWriter(w)
		if zErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrIO, path, zErr)
		}
		if err := encode.Encode(node, zw, opts...); err != nil {
			zw.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
		}
		return nil
	}
	return encode.Encode(node, w, opts...)
}

// WriteFile encodes v to the named file.
func WriteFile(path string, v any, opts ...encode.EncodeOption) error {
	node, err := bind.Marshal(v)
	if err != nil {
		return err
	}
	return WriteNode(path, node, opts...)
}
