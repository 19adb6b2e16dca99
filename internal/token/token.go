package token

import "fmt"

// Token is the source anchor of an AST node. Alpine modules reach the
// analyzer already parsed, so a token only carries the lexeme that
// names the node and where it starts.
type Token struct {
	Lexeme string
	File   string
	Line   int // 1-based, 0 when unknown
	Column int // 1-based, 0 when unknown
}

// IsValid reports whether the token points at a source position.
func (t Token) IsValid() bool {
	return t.Line > 0
}

// Pos formats the position as file:line:col, omitting unknown parts.
func (t Token) Pos() string {
	switch {
	case !t.IsValid() && t.File == "":
		return "<unknown>"
	case !t.IsValid():
		return t.File
	case t.File == "":
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
	}
}
