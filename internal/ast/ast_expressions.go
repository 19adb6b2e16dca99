package ast

import (
	"strconv"

	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/token"
)

// If is a conditional expression. Both branches are mandatory.
type If struct {
	Typed
	Token     token.Token
	Condition Expression
	Then      Expression
	Else      Expression
	ThenScope symbols.ScopeID
	ElseScope symbols.ScopeID
}

func (i *If) Accept(v Visitor)      { v.VisitIf(i) }
func (i *If) expressionNode()       {}
func (i *If) TokenLiteral() string  { return i.Token.Lexeme }
func (i *If) GetToken() token.Token { return i.Token }

// Match selects the first case whose pattern matches the subject.
type Match struct {
	Typed
	Token   token.Token
	Subject Expression
	Cases   []*MatchCase
}

func (m *Match) Accept(v Visitor)      { v.VisitMatch(m) }
func (m *Match) expressionNode()       {}
func (m *Match) TokenLiteral() string  { return m.Token.Lexeme }
func (m *Match) GetToken() token.Token { return m.Token }

// MatchCase is `with pattern :: value`. Let bindings of the pattern live
// in InnerScope.
type MatchCase struct {
	Token      token.Token
	Pattern    Expression
	Value      Expression
	InnerScope symbols.ScopeID
}

func (mc *MatchCase) Accept(v Visitor)      { v.VisitMatchCase(mc) }
func (mc *MatchCase) TokenLiteral() string  { return mc.Token.Lexeme }
func (mc *MatchCase) GetToken() token.Token { return mc.Token }

// LetBinding introduces a name inside a pattern: #succ(let n).
type LetBinding struct {
	Typed
	Token  token.Token
	Name   string
	Scope  symbols.ScopeID
	Symbol symbols.SymbolID
}

func (lb *LetBinding) Accept(v Visitor)      { v.VisitLetBinding(lb) }
func (lb *LetBinding) expressionNode()       {}
func (lb *LetBinding) TokenLiteral() string  { return lb.Token.Lexeme }
func (lb *LetBinding) GetToken() token.Token { return lb.Token }

// Binary is `left op right`. Rewritten into a Call before analysis.
type Binary struct {
	Typed
	Token      token.Token
	Op         *Ident
	Left       Expression
	Right      Expression
	Precedence int
}

func (b *Binary) Accept(v Visitor)      { v.VisitBinary(b) }
func (b *Binary) expressionNode()       {}
func (b *Binary) TokenLiteral() string  { return b.Token.Lexeme }
func (b *Binary) GetToken() token.Token { return b.Token }

// Unary is `op operand`. Rewritten into a Call before analysis.
type Unary struct {
	Typed
	Token   token.Token
	Op      *Ident
	Operand Expression
}

func (u *Unary) Accept(v Visitor)      { v.VisitUnary(u) }
func (u *Unary) expressionNode()       {}
func (u *Unary) TokenLiteral() string  { return u.Token.Lexeme }
func (u *Unary) GetToken() token.Token { return u.Token }

// Call applies a callee to labeled or positional arguments.
type Call struct {
	Typed
	Token  token.Token
	Callee Expression
	Args   []*Arg
}

func (c *Call) Accept(v Visitor)      { v.VisitCall(c) }
func (c *Call) expressionNode()       {}
func (c *Call) TokenLiteral() string  { return c.Token.Lexeme }
func (c *Call) GetToken() token.Token { return c.Token }

// Arg is one argument of a call. Label is empty for a positional argument.
type Arg struct {
	Typed
	Token token.Token
	Label string
	Value Expression
}

func (a *Arg) Accept(v Visitor)      { v.VisitArg(a) }
func (a *Arg) expressionNode()       {}
func (a *Arg) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Arg) GetToken() token.Token { return a.Token }

// Tuple builds a tuple value, e.g. #succ(#zero) or (x: 1, y: 2).
type Tuple struct {
	Typed
	Token    token.Token
	Label    string
	Elements []*TupleElem
}

func (t *Tuple) Accept(v Visitor)      { v.VisitTuple(t) }
func (t *Tuple) expressionNode()       {}
func (t *Tuple) TokenLiteral() string  { return t.Token.Lexeme }
func (t *Tuple) GetToken() token.Token { return t.Token }

// TupleElem is one element of a tuple literal.
type TupleElem struct {
	Typed
	Token token.Token
	Label string
	Value Expression
}

func (te *TupleElem) Accept(v Visitor)      { v.VisitTupleElem(te) }
func (te *TupleElem) expressionNode()       {}
func (te *TupleElem) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TupleElem) GetToken() token.Token { return te.Token }

// Member designates a tuple element by label, or by position when Label
// is empty.
type Member struct {
	Label string
	Index int
}

// ByLabel is the member named label.
func ByLabel(label string) Member { return Member{Label: label} }

// ByIndex is the member at position index.
func ByIndex(index int) Member { return Member{Index: index} }

// IsLabel reports whether the member is designated by label.
func (m Member) IsLabel() bool { return m.Label != "" }

func (m Member) String() string {
	if m.IsLabel() {
		return m.Label
	}
	return strconv.Itoa(m.Index)
}

// Select projects an element out of a tuple: owner.label or owner.0
type Select struct {
	Typed
	Token token.Token
	Owner Expression
	Ownee Member
}

func (s *Select) Accept(v Visitor)      { v.VisitSelect(s) }
func (s *Select) expressionNode()       {}
func (s *Select) TokenLiteral() string  { return s.Token.Lexeme }
func (s *Select) GetToken() token.Token { return s.Token }

// Ident references a symbol. Until dispatch an identifier may stand for
// several overloads (Candidates); afterwards Symbol is the chosen one.
type Ident struct {
	Typed
	Token      token.Token
	Name       string
	Scope      symbols.ScopeID
	Candidates []symbols.SymbolID
	Symbol     symbols.SymbolID
}

func (i *Ident) Accept(v Visitor)      { v.VisitIdent(i) }
func (i *Ident) expressionNode()       {}
func (i *Ident) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Ident) GetToken() token.Token { return i.Token }

type IntLiteral struct {
	Typed
	Token token.Token
	Value int64
}

func (il *IntLiteral) Accept(v Visitor)      { v.VisitIntLiteral(il) }
func (il *IntLiteral) expressionNode()       {}
func (il *IntLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntLiteral) GetToken() token.Token { return il.Token }

type FloatLiteral struct {
	Typed
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Accept(v Visitor)      { v.VisitFloatLiteral(fl) }
func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

type BoolLiteral struct {
	Typed
	Token token.Token
	Value bool
}

func (bl *BoolLiteral) Accept(v Visitor)      { v.VisitBoolLiteral(bl) }
func (bl *BoolLiteral) expressionNode()       {}
func (bl *BoolLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BoolLiteral) GetToken() token.Token { return bl.Token }

type StringLiteral struct {
	Typed
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
