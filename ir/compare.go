package ir

// Equal reports whether a and b have the same shape, labels and scalars.
// Parent links are ignored.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Scalar != b.Scalar {
		return false
	}
	if a.IsArray() != b.IsArray() {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i, ea := range a.Children {
		eb := b.Children[i]
		if ea.Label != eb.Label {
			return false
		}
		if !Equal(ea.Node, eb.Node) {
			return false
		}
	}
	return true
}
