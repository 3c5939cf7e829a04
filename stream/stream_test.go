package stream

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/jsonstream/encode"
	"github.com/signadot/jsonstream/ir"
	"github.com/signadot/jsonstream/parse"
)

type abcs struct {
	A, B, C int
	S       string
}

func (r *abcs) EncodeTree(e *Encoder) {
	e.Label("A").Value(r.A)
	e.Label("B").Value(r.B)
	e.Label("C").Value(r.C)
	e.Label("S").Value(r.S)
}

func (r *abcs) DecodeTree(d *Decoder) {
	d.Label("A").Value(&r.A)
	d.Label("B").Value(&r.B)
	d.Label("C").Value(&r.C)
	d.Label("S").Value(&r.S)
}

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestEncodeRecord(t *testing.T) {
	e := NewEncoder(nil)
	r := &abcs{A: 1, B: 2, C: 3, S: "hello"}
	r.EncodeTree(e)
	if !e.OK() {
		t.Fatal(e.Err())
	}
	got := encode.MustString(e.Node())
	if want := `{"A":1,"B":2,"C":3,"S":"hello"}`; got != want {
		t.Errorf("got %s want %s", got, want)
	}

	var back abcs
	d := NewDecoder(mustParse(t, got))
	back.DecodeTree(d)
	if !d.OK() {
		t.Fatal(d.Err())
	}
	if diff := cmp.Diff(*r, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestEncodeScalars(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	e := NewEncoder(nil)
	e.Label("i8").Value(int8(-3))
	e.Label("u").Value(uint64(math.MaxUint64))
	e.Label("f").Value(1.5)
	e.Label("f32").Value(float32(0.25))
	e.Label("b").Value(true)
	e.Label("bytes").Value([]byte("hi"))
	e.Label("dur").Value(90 * time.Second)
	e.Label("time").Value(ts)
	e.Label("nil").Value(nil)
	e.Label("ptr").Pointer((*int)(nil))
	n := 7
	e.Label("ptr7").Pointer(&n)
	e.Label("null").Null()
	if !e.OK() {
		t.Fatal(e.Err())
	}
	want := `{"i8":-3,"u":18446744073709551615,"f":1.5,"f32":0.25,"b":true,` +
		`"bytes":"aGk=","dur":"1m30s","time":"2024-01-02T03:04:05Z",` +
		`"nil":null,"ptr":null,"ptr7":7,"null":null}`
	if got := encode.MustString(e.Node()); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeNoLabel(t *testing.T) {
	e := NewEncoder(nil)
	e.Value(1)
	if e.OK() || !errors.Is(e.Err(), ErrNoLabel) {
		t.Fatalf("expected ErrNoLabel, got ok=%t err=%v", e.OK(), e.Err())
	}
	// later writes are no-ops
	e.Label("A").Value(2)
	if e.Node().Len() != 0 {
		t.Errorf("wrote after failure: %s", encode.MustString(e.Node()))
	}

	e = NewEncoder(nil)
	e.Optional().Value(1)
	e.Label("A").Value(2)
	if !e.OK() {
		t.Fatal(e.Err())
	}
	if got := encode.MustString(e.Node()); got != `{"A":2}` {
		t.Errorf("got %s", got)
	}
}

func TestEncodeConversionFailure(t *testing.T) {
	e := NewEncoder(nil)
	e.Label("nan").Value(math.NaN())
	if !errors.Is(e.Err(), ErrConversion) {
		t.Errorf("expected ErrConversion, got %v", e.Err())
	}
	e = NewEncoder(nil)
	e.Label("ch").Value(make(chan int))
	if !errors.Is(e.Err(), ErrConversion) {
		t.Errorf("expected ErrConversion, got %v", e.Err())
	}
}

func TestWriteRange(t *testing.T) {
	tests := []struct {
		name  string
		write func(e *Encoder)
		want  string
	}{
		{
			name: "ints",
			write: func(e *Encoder) {
				c := e.Open("xs")
				WriteRange(c, []int{1, 2, 3})
				c.Close()
			},
			want: `{"xs":[1,2,3]}`,
		},
		{
			name: "empty range is an array",
			write: func(e *Encoder) {
				c := e.Open("xs")
				WriteRange(c, []string{})
				c.Close()
			},
			want: `{"xs":[]}`,
		},
		{
			name: "nil range is an array",
			write: func(e *Encoder) {
				c := e.Open("xs")
				WriteRange[int](c, nil)
				c.Close()
			},
			want: `{"xs":[]}`,
		},
		{
			name: "empty open is an object",
			write: func(e *Encoder) {
				e.Open("o").Close()
			},
			want: `{"o":{}}`,
		},
		{
			name: "set is sorted",
			write: func(e *Encoder) {
				c := e.Open("set")
				WriteSet(c, map[string]struct{}{"b": {}, "a": {}, "c": {}})
				c.Close()
			},
			want: `{"set":["a","b","c"]}`,
		},
		{
			name: "bool set skips false",
			write: func(e *Encoder) {
				e.Label("set").Value(map[int]bool{3: true, 1: true, 2: false})
			},
			want: `{"set":[1,3]}`,
		},
		{
			name: "nested slices",
			write: func(e *Encoder) {
				e.Label("m").Value([][]int{{1}, {}, {2, 3}})
			},
			want: `{"m":[[1],[],[2,3]]}`,
		},
		{
			name: "string map is a sorted object",
			write: func(e *Encoder) {
				e.Label("m").Value(map[string]int{"z": 1, "a": 2})
			},
			want: `{"m":{"a":2,"z":1}}`,
		},
		{
			name: "marshalers in a range",
			write: func(e *Encoder) {
				c := e.Open("rs")
				WriteRange(c, []*abcs{{A: 1, S: "x"}})
				c.Close()
			},
			want: `{"rs":[{"A":1,"B":0,"C":0,"S":"x"}]}`,
		},
		{
			name: "elements of an open array",
			write: func(e *Encoder) {
				arr := e.OpenArray("objs")
				el := arr.OpenElement()
				el.Label("k").Value("v")
				el.Close()
				arr.Value(5)
				arr.Close()
			},
			want: `{"objs":[{"k":"v"},5]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder(nil)
			tt.write(e)
			if !e.OK() {
				t.Fatal(e.Err())
			}
			if got := encode.MustString(e.Node()); got != tt.want {
				t.Errorf("got %s want %s", got, tt.want)
			}
		})
	}
}

func TestCloseFailedChild(t *testing.T) {
	e := NewEncoder(nil)
	c := e.Open("c")
	c.Label("ok").Value(1)
	c.Value("no label")
	c.Close()
	if e.OK() || !errors.Is(e.Err(), ErrNoLabel) {
		t.Fatalf("expected parent to fail with ErrNoLabel, got %v", e.Err())
	}
	if e.Node().Len() != 0 {
		t.Errorf("failed child was spliced: %s", encode.MustString(e.Node()))
	}

	e = NewEncoder(nil)
	c = e.Optional().Open("c")
	c.Value("no label")
	c.Close()
	e.Label("after").Value(true)
	if !e.OK() {
		t.Fatal(e.Err())
	}
	if got := encode.MustString(e.Node()); got != `{"after":true}` {
		t.Errorf("got %s", got)
	}
}

func TestCloseTwice(t *testing.T) {
	e := NewEncoder(nil)
	c := e.Open("c")
	c.Label("x").Value(1)
	c.Close()
	c.Close()
	e.Close()
	if got := encode.MustString(e.Node()); got != `{"c":{"x":1}}` {
		t.Errorf("got %s", got)
	}
}

func TestRangeOnObject(t *testing.T) {
	e := NewEncoder(nil)
	e.Label("a").Value(1)
	WriteRange(e, []int{1})
	if !errors.Is(e.Err(), ir.ErrShape) {
		t.Errorf("expected shape error, got %v", e.Err())
	}
}

func TestDecodeScalars(t *testing.T) {
	node := mustParse(t, `{"i8":-3,"u":18446744073709551615,"f":1.5,"b":true,`+
		`"bytes":"aGk=","dur":"1m30s","time":"2024-01-02T03:04:05Z","null":null,"n":"12"}`)
	var (
		i8    int8
		u     uint64
		f     float32
		b     bool
		bs    []byte
		dur   time.Duration
		ts    time.Time
		np    = new(int)
		n     int
		anyv  any
		shown string
	)
	d := NewDecoder(node)
	d.Label("i8").Value(&i8)
	d.Label("u").Value(&u)
	d.Label("f").Value(&f)
	d.Label("b").Value(&b)
	d.Label("bytes").Value(&bs)
	d.Label("dur").Value(&dur)
	d.Label("time").Value(&ts)
	d.Label("null").Value(&np)
	d.Label("n").Value(&n)
	d.Label("b").Value(&anyv)
	d.Label("f").Value(&shown)
	if !d.OK() {
		t.Fatal(d.Err())
	}
	if i8 != -3 || u != math.MaxUint64 || f != 1.5 || !b || string(bs) != "hi" || dur != 90*time.Second {
		t.Errorf("got %v %v %v %v %q %v", i8, u, f, b, bs, dur)
	}
	if !ts.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("time %v", ts)
	}
	if np != nil {
		t.Errorf("expected null to clear pointer")
	}
	if n != 12 {
		t.Errorf("string typed number: %d", n)
	}
	if anyv != true {
		t.Errorf("any: %v", anyv)
	}
	if shown != "1.5" {
		t.Errorf("literal as string: %q", shown)
	}
}

func TestDecodeOptional(t *testing.T) {
	node := mustParse(t, `{"A":1,"bad":"x"}`)
	a, b := 10, 20
	d := NewDecoder(node)
	d.Optional().Label("missing").Value(&b)
	d.Optional().Label("bad").Value(&b)
	d.Label("A").Value(&a)
	if !d.OK() {
		t.Fatal(d.Err())
	}
	if a != 1 || b != 20 {
		t.Errorf("a=%d b=%d", a, b)
	}

	d.Label("missing").Value(&b)
	if d.OK() || !errors.Is(d.Err(), ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", d.Err())
	}
	// the first failure is kept and reads are no-ops
	d.Label("A").Value(&b)
	if b != 20 || !errors.Is(d.Err(), ErrMissingField) {
		t.Errorf("read after failure: b=%d err=%v", b, d.Err())
	}
}

func TestDecodeConversionFailure(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ptr  any
	}{
		{"overflow", `{"v":300}`, new(int8)},
		{"negative unsigned", `{"v":-1}`, new(uint)},
		{"not a bool", `{"v":"yes"}`, new(bool)},
		{"null int", `{"v":null}`, new(int)},
		{"object as int", `{"v":{}}`, new(int)},
		{"bad base64", `{"v":"!!"}`, new([]byte)},
		{"bad duration", `{"v":"soon"}`, new(time.Duration)},
		{"scalar as slice", `{"v":1}`, new([]int)},
		{"array too long", `{"v":[1,2,3]}`, new([2]int)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(mustParse(t, tt.in))
			d.Label("v").Value(tt.ptr)
			if d.OK() || !errors.Is(d.Err(), ErrConversion) {
				t.Errorf("expected ErrConversion, got %v", d.Err())
			}
		})
	}
}

func TestDecodeBadTarget(t *testing.T) {
	d := NewDecoder(mustParse(t, `{"v":1}`))
	var v int
	d.Optional().Label("v").Value(v)
	if d.OK() {
		t.Error("non-pointer target accepted")
	}
}

func TestReadRange(t *testing.T) {
	node := mustParse(t, `{"xs":[1,2,3],"empty":[],"set":["b","a"],"mixed":[1,"x"],"nested":[[1],[]]}`)
	d := NewDecoder(node)

	var xs []int
	ReadRange(d.Child("xs"), &xs)
	if diff := cmp.Diff([]int{1, 2, 3}, xs); diff != "" {
		t.Errorf("xs (-want +got):\n%s", diff)
	}

	empty := []int{9}
	ReadRange(d.Child("empty"), &empty)
	if diff := cmp.Diff([]int{9}, empty); diff != "" {
		t.Errorf("empty (-want +got):\n%s", diff)
	}

	var set map[string]struct{}
	ReadSet(d.Child("set"), &set)
	if diff := cmp.Diff(map[string]struct{}{"a": {}, "b": {}}, set); diff != "" {
		t.Errorf("set (-want +got):\n%s", diff)
	}

	var nested [][]int
	d.Label("nested").Value(&nested)
	if diff := cmp.Diff([][]int{{1}, nil}, nested); diff != "" {
		t.Errorf("nested (-want +got):\n%s", diff)
	}
	if !d.OK() {
		t.Fatal(d.Err())
	}

	mixed := []int{7}
	ReadRange(d.Child("mixed"), &mixed)
	if d.OK() || !errors.Is(d.Err(), ErrConversion) {
		t.Fatalf("expected conversion failure to reach parent, got %v", d.Err())
	}
	if diff := cmp.Diff([]int{7}, mixed); diff != "" {
		t.Errorf("partial range kept (-want +got):\n%s", diff)
	}
}

func TestReadRangeAppends(t *testing.T) {
	node := mustParse(t, `{"xs":[3,4],"set":["b","c"],"z":null,"bad":[5,"x"]}`)
	tests := []struct {
		name  string
		label string
		dst   any
		want  any
		ok    bool
	}{
		{
			name:  "slice",
			label: "xs",
			dst:   &[]int{1, 2},
			want:  &[]int{1, 2, 3, 4},
			ok:    true,
		},
		{
			name:  "set",
			label: "set",
			dst:   &map[string]struct{}{"a": {}, "b": {}},
			want:  &map[string]struct{}{"a": {}, "b": {}, "c": {}},
			ok:    true,
		},
		{
			name:  "null appends nothing",
			label: "z",
			dst:   &[]int{1},
			want:  &[]int{1},
			ok:    true,
		},
		{
			name:  "failed element keeps contents",
			label: "bad",
			dst:   &[]int{1},
			want:  &[]int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(node.Get(tt.label))
			d.Range(tt.dst)
			if d.OK() != tt.ok {
				t.Fatalf("ok=%t err=%v", d.OK(), d.Err())
			}
			if diff := cmp.Diff(tt.want, tt.dst); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadSetSharesNothing(t *testing.T) {
	orig := map[string]struct{}{"a": {}}
	set := orig
	ReadSet(NewDecoder(mustParse(t, `["b"]`)), &set)
	if _, ok := orig["b"]; ok {
		t.Error("original map modified")
	}
	if len(set) != 2 {
		t.Errorf("set: %v", set)
	}
}

func TestReadRangeOptional(t *testing.T) {
	d := NewDecoder(mustParse(t, `[1,"x"]`))
	xs := []int{5}
	d.Optional().Range(&xs)
	if !d.OK() {
		t.Fatal(d.Err())
	}
	if len(xs) != 1 || xs[0] != 5 {
		t.Errorf("target modified: %v", xs)
	}
}

func TestChild(t *testing.T) {
	node := mustParse(t, `{"o":{"k":"v"},"s":"x","z":null}`)

	d := NewDecoder(node)
	var k string
	d.Child("o").Label("k").Value(&k)
	if !d.OK() || k != "v" {
		t.Fatalf("k=%q err=%v", k, d.Err())
	}

	c := d.Optional().Child("missing")
	if !c.OK() || c.Len() != 0 || !d.OK() {
		t.Errorf("optional missing child: child ok=%t len=%d parent ok=%t", c.OK(), c.Len(), d.OK())
	}
	c.Label("k").Value(&k)
	if !d.OK() {
		t.Error("detached child failure reached parent")
	}

	for _, label := range []string{"missing", "s", "z"} {
		d := NewDecoder(node)
		c := d.Child(label)
		if c.OK() || d.OK() || !errors.Is(d.Err(), ErrMissingChild) {
			t.Errorf("%s: expected ErrMissingChild, got %v", label, d.Err())
		}
	}
}

func TestChildFailurePropagates(t *testing.T) {
	node := mustParse(t, `{"o":{"k":"v"}}`)
	d := NewDecoder(node)
	var n int
	d.Child("o").Label("k").Value(&n)
	if d.OK() || !errors.Is(d.Err(), ErrConversion) {
		t.Errorf("expected conversion failure on parent, got %v", d.Err())
	}
}

func TestElements(t *testing.T) {
	node := mustParse(t, `[{"A":1,"B":2,"C":3,"S":"a"},{"A":4,"B":5,"C":6,"S":"b"}]`)
	d := NewDecoder(node)
	var got []abcs
	for _, el := range d.Elements() {
		var r abcs
		r.DecodeTree(el)
		got = append(got, r)
	}
	if !d.OK() {
		t.Fatal(d.Err())
	}
	want := []abcs{{1, 2, 3, "a"}, {4, 5, 6, "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	d.Index(2)
	if !errors.Is(d.Err(), ErrMissingChild) {
		t.Errorf("out of range index: %v", d.Err())
	}
}

func TestDecodeUnmarshalerAndMaps(t *testing.T) {
	node := mustParse(t, `{"r":{"A":1,"B":2,"C":3,"S":"x"},"m":{"a":[1],"b":[]},"g":{"l":[true,null,"s",2]}}`)
	d := NewDecoder(node)
	var (
		r abcs
		m map[string][]int
		g map[string]any
	)
	d.Label("r").Value(&r)
	d.Label("m").Value(&m)
	d.Label("g").Value(&g)
	if !d.OK() {
		t.Fatal(d.Err())
	}
	if diff := cmp.Diff(abcs{1, 2, 3, "x"}, r); diff != "" {
		t.Errorf("r (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]int{"a": {1}, "b": nil}, m); diff != "" {
		t.Errorf("m (-want +got):\n%s", diff)
	}
	wantG := map[string]any{"l": []any{true, nil, "s", 2.0}}
	if diff := cmp.Diff(wantG, g); diff != "" {
		t.Errorf("g (-want +got):\n%s", diff)
	}
}

func TestUnmarshalerFailureLeavesTarget(t *testing.T) {
	d := NewDecoder(mustParse(t, `{"r":{"A":1}}`))
	r := abcs{S: "keep"}
	d.Optional().Label("r").Value(&r)
	if !d.OK() {
		t.Fatal(d.Err())
	}
	if r.S != "keep" || r.A != 0 {
		t.Errorf("target modified: %+v", r)
	}
}
