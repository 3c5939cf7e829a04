package main

import (
	"fmt"
	"io"

	"github.com/signadot/jsonstream"
	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/ir"
	"github.com/signadot/jsonstream/stream"
	"github.com/signadot/jsonstream/token"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

func eval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		cfg.Eval.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Expr == "" {
		return fmt.Errorf("%w: eval requires -e <expr>", cli.ErrUsage)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: eval takes at most one file, got %v", cli.ErrUsage, args)
	}
	file := inputs(args)[0]
	doc, err := jsonstream.ReadNode(file, cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	return evalTo(cfg, cc.Out, cfg.Expr, doc)
}

func evalEnv(doc *ir.Node) (map[string]any, error) {
	var v any
	d := stream.NewDecoder(doc)
	if !d.Value(&v).OK() {
		return nil, d.Err()
	}
	env := map[string]any{}
	if m, ok := v.(map[string]any); ok {
		for k, fv := range m {
			env[k] = fv
		}
	}
	env["doc"] = v
	return env, nil
}

func evalTo(cfg *EvalConfig, w io.Writer, src string, doc *ir.Node) error {
	env, err := evalEnv(doc)
	if err != nil {
		return err
	}
	prg, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return fmt.Errorf("error compiling %q: %w", src, err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return fmt.Errorf("error evaluating %q: %w", src, err)
	}
	e := stream.NewEncoder(nil)
	if !e.Label("result").Value(res).OK() {
		return fmt.Errorf("error converting result: %w", e.Err())
	}
	out := e.Node().Get("result")
	if !out.IsScalar() {
		return encode.Encode(out, w, cfg.encOpts(w)...)
	}
	text := out.Scalar
	if out.Kind == ir.StringKind {
		text = token.Quote(text)
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
