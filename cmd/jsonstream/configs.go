package main

import (
	"io"
	"os"

	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Pretty   bool `cli:"name=pretty desc='indent output'"`
	Compat   bool `cli:"name=compat desc='escape strings like the legacy writer'"`
	Color    bool `cli:"name=color desc='encode with color'"`
	Comments bool `cli:"name=c desc='accept comments and trailing commas in input'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{parse.ParseComments(cfg.Comments)}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.Pretty(cfg.Pretty),
		encode.Compat(cfg.Compat),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return res
			}
		}
	}
	if useColor(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type FmtConfig struct {
	*MainConfig

	Fmt *cli.Command
}

type VerifyConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='do not report files that verify'"`

	Verify *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	File  string `cli:"name=p desc='patch file'"`
	Merge bool   `cli:"name=m desc='treat the patch as a merge patch'"`

	Patch *cli.Command
}

type EvalConfig struct {
	*MainConfig
	Expr string `cli:"name=e desc='expression to evaluate'"`

	Eval *cli.Command
}

type DemoConfig struct {
	*MainConfig

	Demo *cli.Command
}
