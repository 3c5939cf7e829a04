package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/jsonstream"
	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/ir"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	y1, err := jsonstream.ReadNode(args[0], cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	y2, err := jsonstream.ReadNode(args[1], cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	if cfg.Reverse {
		y1, y2 = y2, y1
	}
	differs, err := diffNodes(cc.Out, y1, y2, cfg.Color || useColor(cc.Out))
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffNodes writes a line diff of the pretty renderings of from and to,
// with "-" and "+" marking removed and added lines, and reports whether
// they differ.
func diffNodes(w io.Writer, from, to *ir.Node, colored bool) (bool, error) {
	if ir.Equal(from, to) {
		return false, nil
	}
	a, err := encode.String(from, encode.Pretty(true))
	if err != nil {
		return false, err
	}
	b, err := encode.String(to, encode.Pretty(true))
	if err != nil {
		return false, err
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a+"\n", b+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	del, ins := fmt.Sprint, fmt.Sprint
	if colored {
		del = color.New(color.FgRed).Sprint
		ins = color.New(color.FgGreen).Sprint
	}
	var buf strings.Builder
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, paint = "-", del
		case diffpatch.DiffInsert:
			prefix, paint = "+", ins
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(paint(prefix + strings.TrimSuffix(line, "\n")))
			buf.WriteByte('\n')
		}
	}
	if _, err := io.WriteString(w, buf.String()); err != nil {
		return true, err
	}
	return true, nil
}
