package ast

import (
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/token"
)

// Func is a function literal, named or not. Functions are expressions:
// they may be nested in the body of another function.
// func add(_ x: Int, _ y: Int) -> Int :: x + y
type Func struct {
	Typed
	Token      token.Token
	Name       string // empty for an anonymous function
	Signature  *FuncSign
	Body       Expression
	Scope      symbols.ScopeID // where the function is declared
	InnerScope symbols.ScopeID // holds the parameters
	Symbol     symbols.SymbolID
	Params     []symbols.SymbolID // one per domain element
}

func (f *Func) Accept(v Visitor)      { v.VisitFunc(f) }
func (f *Func) expressionNode()       {}
func (f *Func) TokenLiteral() string  { return f.Token.Lexeme }
func (f *Func) GetToken() token.Token { return f.Token }

// TypeAlias names a type signature.
// type Nat :: #zero or #succ(Nat)
type TypeAlias struct {
	Token     token.Token
	Name      string
	Signature TypeSign
	Scope     symbols.ScopeID
	Symbol    symbols.SymbolID
}

func (ta *TypeAlias) Accept(v Visitor)      { v.VisitTypeAlias(ta) }
func (ta *TypeAlias) TokenLiteral() string  { return ta.Token.Lexeme }
func (ta *TypeAlias) GetToken() token.Token { return ta.Token }
