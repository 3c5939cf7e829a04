package main

import (
	"fmt"
	"io"

	"github.com/signadot/jsonstream"
	"github.com/signadot/jsonstream/bind"
	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/stream"

	"github.com/scott-cotton/cli"
)

type bar struct {
	tt  int
	baz string
}

func (b *bar) EncodeTree(e *stream.Encoder) {
	e.Label("int_arg").Value(b.tt).Label("string_arg").Value(b.baz)
}

func (b *bar) DecodeTree(d *stream.Decoder) {
	d.Label("int_arg").Value(&b.tt).Label("string_arg").Value(&b.baz)
}

type foo struct {
	a, b, c    int
	s          string
	dp         *float64
	list       []*bar
	simpleList []int
}

func (f *foo) EncodeTree(e *stream.Encoder) {
	e.Label("a").Value(f.a).Label("b").Value(f.b).Label("c").Value(f.c)
	e.Label("s").Value(f.s).Label("dp").Pointer(f.dp)
	sl := e.Open("simple_list")
	stream.WriteRange(sl, f.simpleList)
	sl.Close()
	l := e.Open("struct_array")
	stream.WriteRange(l, f.list)
	l.Close()
}

func (f *foo) DecodeTree(d *stream.Decoder) {
	d.Label("a").Value(&f.a).Label("b").Value(&f.b).Label("c").Value(&f.c)
	d.Label("s").Value(&f.s).Label("dp").Value(&f.dp)
	stream.ReadRange(d.Child("simple_list"), &f.simpleList)
	stream.ReadRange(d.Child("struct_array"), &f.list)
}

type abcs struct {
	A, B, C int
	S       string
}

type header struct {
	kind    string
	replies []string
}

func (h *header) DecodeTree(d *stream.Decoder) {
	title := d.Child("title")
	title.Label("reply_type").Value(&h.kind)
	stream.ReadRange(title.Optional().Child("replies"), &h.replies)
}

func demo(cfg *DemoConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Demo.Parse(cc, args); err != nil {
		cfg.Demo.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	return runDemo(cfg.MainConfig, cc.Out)
}

func runDemo(cfg *MainConfig, w io.Writer) error {
	opts := cfg.encOpts(w)

	r := abcs{A: 1, B: 2, C: 3, S: "hello"}
	shown, err := jsonstream.Dumps(&r, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "record:\n%s\n", shown)
	d, err := jsonstream.Marshal(&r)
	if err != nil {
		return err
	}
	var back abcs
	if err := jsonstream.Unmarshal(d, &back); err != nil {
		return err
	}
	theLog.Info("record", "a", back.A, "b", back.B, "c", back.C, "s", back.S)

	f := &foo{
		list:       []*bar{{234, "jjj"}, {987, "iuywieru"}},
		simpleList: []int{1, 17},
	}
	e := stream.NewEncoder(nil)
	start := e.Open("start")
	f.EncodeTree(start)
	start.Close()
	e.Open("second").Close()
	if !e.OK() {
		return e.Err()
	}
	msg, err := encode.String(e.Node(), opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "message:\n%s\n", msg)

	var f2 foo
	if err := bind.Unmarshal(e.Node().Get("start"), &f2); err != nil {
		return err
	}
	theLog.Info("nested", "a", f2.a, "items", len(f2.list), "simple_list", f2.simpleList)

	var h header
	in := `{"title":{"reply_type":"ack","replies":["pong"]},"body":{}}`
	if err := jsonstream.Loads(in, &h); err != nil {
		return err
	}
	theLog.Info("header", "reply_type", h.kind, "replies", h.replies)
	return nil
}
