package encode

type EncodeOption func(*EncState)

// Pretty puts each entry and closing bracket on its own line, indented
// by the indent width (4 unless changed with Indent) per depth.
func Pretty(v bool) EncodeOption {
	return func(es *EncState) { es.pretty = v }
}
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// Compat selects the legacy escaping rules of token.EscapeCompat.
func Compat(v bool) EncodeOption {
	return func(es *EncState) { es.compat = v }
}
func TrailingNewline(v bool) EncodeOption {
	return func(es *EncState) { es.newline = v }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
