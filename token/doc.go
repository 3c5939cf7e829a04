// Package token implements the escaping rules used when scalar text and
// labels are written as JSON strings.
//
// Escape is the default. EscapeCompat reproduces the legacy rule of
// leaving a '"' in the first or last position unescaped, which gives
// byte-identical output to writers that store strings already quoted.
package token
