package ir

import (
	"errors"
	"testing"
)

func TestShape(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want Shape
	}{
		{"empty container", New(), ObjectShape},
		{"empty array", NewArray(), ArrayShape},
		{"scalar", FromString("x"), ScalarShape},
		{"unlabeled children", FromSlice([]*Node{FromInt(1), FromInt(2)}), ArrayShape},
		{"labeled children", FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}), ObjectShape},
		{"mixed children", func() *Node {
			n := New()
			n.AddLiteral("", "1")
			n.AddLiteral("a", "2")
			return n
		}(), ObjectShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Shape(); got != tt.want {
				t.Errorf("Shape() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddAndGet(t *testing.T) {
	root := New()
	root.AddLiteral("a", "1")
	root.AddString("s", "hello")
	sub := root.AddChild("sub", New())
	sub.AddNull("n")

	text, kind, err := root.GetScalar("s")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" || kind != StringKind {
		t.Errorf("GetScalar(s) = %q %s", text, kind)
	}
	if _, _, err := root.GetScalar("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetScalar(missing) err = %v, want ErrNotFound", err)
	}
	if _, _, err := root.GetScalar("sub"); !errors.Is(err, ErrNotScalar) {
		t.Errorf("GetScalar(sub) err = %v, want ErrNotScalar", err)
	}
	c, err := root.GetChild("sub")
	if err != nil {
		t.Fatal(err)
	}
	if c != sub {
		t.Errorf("GetChild returned a different node")
	}
	if _, err := root.GetChild("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChild(nope) err = %v", err)
	}
	if _, err := sub.GetChild("n"); !errors.Is(err, ErrNotContainer) {
		t.Errorf("GetChild(n) err = %v, want ErrNotContainer", err)
	}
	if got := sub.Get("n").Path(); got != "$.sub.n" {
		t.Errorf("Path() = %q", got)
	}
}

func TestAddReplacesLabel(t *testing.T) {
	root := New()
	root.AddLiteral("a", "1")
	root.AddLiteral("b", "2")
	root.AddLiteral("a", "3")
	if root.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", root.Len())
	}
	labels := []string{}
	for label, n := range root.Entries() {
		labels = append(labels, label+"="+n.Scalar)
	}
	if labels[0] != "a=3" || labels[1] != "b=2" {
		t.Errorf("entries = %v", labels)
	}
}

func TestUnlabeledAppends(t *testing.T) {
	root := NewArray()
	root.AddLiteral("", "1")
	root.AddLiteral("", "2")
	if root.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", root.Len())
	}
	if got := root.Children[1].Node.Path(); got != "$[1]" {
		t.Errorf("Path() = %q", got)
	}
}

func TestVerify(t *testing.T) {
	mixed := New()
	mixed.AddLiteral("a", "1").AddLiteral("b", "2")

	tests := []struct {
		name    string
		node    *Node
		wantErr bool
	}{
		{"empty", New(), false},
		{"object", FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}), false},
		{"nested", FromKeyVals([]KeyVal{{Key: "a", Val: FromSlice([]*Node{FromString("x")})}}), false},
		{"root scalar", FromString("x"), true},
		{"root null", Null(), true},
		{"scalar with children", mixed, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.node)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrShape) {
				t.Errorf("Verify() error = %v, want ErrShape", err)
			}
		})
	}
}

func TestCloneEqual(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "l", Val: FromSlice([]*Node{FromString("x"), Null()})},
		{Key: "e", Val: NewArray()},
	})
	c := orig.Clone()
	if !Equal(orig, c) {
		t.Fatal("clone differs from original")
	}
	c.Get("l").AddString("", "y")
	if Equal(orig, c) {
		t.Error("mutating clone changed equality")
	}
	if Equal(New(), NewArray()) {
		t.Error("{} and [] compare equal")
	}
}

func TestCloneDetached(t *testing.T) {
	root := New()
	sub := root.AddChild("sub", New())
	sub.AddLiteral("n", "1")

	c := sub.Clone()
	if c.Parent != nil || c.Root() != c {
		t.Fatal("clone still linked to the source parent")
	}
	if got := c.Path(); got != "$" {
		t.Errorf("clone Path() = %q", got)
	}
	if got := c.Get("n").Path(); got != "$.n" {
		t.Errorf("clone child Path() = %q", got)
	}
}

func TestVisit(t *testing.T) {
	root := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "b", Val: FromSlice([]*Node{FromInt(2), FromInt(3)})},
	})
	n := 0
	err := root.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			n++
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("visited %d nodes, want 5", n)
	}
}
