package main

import (
	"fmt"
	"io"

	"github.com/signadot/jsonstream"
	"github.com/signadot/jsonstream/encode"

	"github.com/scott-cotton/cli"
)

func fmtCmd(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		cfg.Fmt.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	return fmtFiles(cfg.MainConfig, cc.Out, inputs(args))
}

func fmtFiles(cfg *MainConfig, w io.Writer, files []string) error {
	for _, file := range files {
		node, err := jsonstream.ReadNode(file, cfg.parseOpts()...)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if err := encode.Encode(node, w, cfg.encOpts(w)...); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}
