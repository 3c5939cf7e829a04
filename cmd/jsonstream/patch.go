package main

import (
	"fmt"
	"io"

	"github.com/signadot/jsonstream"
	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/ir"
	"github.com/signadot/jsonstream/parse"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.File == "" {
		return fmt.Errorf("%w: patch requires -p <patchfile>", cli.ErrUsage)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: patch takes at most one file, got %v", cli.ErrUsage, args)
	}
	p, err := jsonstream.ReadNode(cfg.File, cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding patch %s: %w", cfg.File, err)
	}
	file := inputs(args)[0]
	target, err := jsonstream.ReadNode(file, cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	return patchTo(cfg, cc.Out, target, p)
}

func patchTo(cfg *PatchConfig, w io.Writer, target, p *ir.Node) error {
	var (
		res *ir.Node
		err error
	)
	if cfg.Merge {
		res, err = mergeNodes(target, p)
	} else {
		res, err = jsonstream.PatchNode(target, p)
	}
	if err != nil {
		return fmt.Errorf("error patching: %w", err)
	}
	if err := encode.Encode(res, w, cfg.encOpts(w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func mergeNodes(target, p *ir.Node) (*ir.Node, error) {
	d, err := encode.String(target)
	if err != nil {
		return nil, err
	}
	m, err := encode.String(p)
	if err != nil {
		return nil, err
	}
	out, err := jsonstream.MergePatch([]byte(d), []byte(m))
	if err != nil {
		return nil, err
	}
	return parse.Parse(out)
}
