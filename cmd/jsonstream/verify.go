package main

import (
	"fmt"

	"github.com/signadot/jsonstream"
	"github.com/signadot/jsonstream/ir"

	"github.com/scott-cotton/cli"
)

func verify(cfg *VerifyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Verify.Parse(cc, args)
	if err != nil {
		cfg.Verify.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	failed := 0
	for _, file := range inputs(args) {
		if err := verifyFile(cfg.MainConfig, file); err != nil {
			theLog.Error("verify", "file", file, "err", err)
			failed++
			continue
		}
		if !cfg.Quiet {
			theLog.Info("ok", "file", file)
		}
	}
	if failed != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func verifyFile(cfg *MainConfig, file string) error {
	node, err := jsonstream.ReadNode(file, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	if err := ir.Verify(node); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}
