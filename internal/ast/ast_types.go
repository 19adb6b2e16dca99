package ast

import (
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/token"
	"github.com/funvibe/alpine/internal/typesystem"
)

// TypeSign is a type signature as written in the source.
type TypeSign interface {
	Node
	typeSignNode()
}

// TypeIdent names a type, e.g. Int or Nat.
type TypeIdent struct {
	Token token.Token
	Name  string
	Scope symbols.ScopeID
	Type  *typesystem.Metatype // set when the name resolves
}

func (ti *TypeIdent) Accept(v Visitor)      { v.VisitTypeIdent(ti) }
func (ti *TypeIdent) typeSignNode()         {}
func (ti *TypeIdent) TokenLiteral() string  { return ti.Token.Lexeme }
func (ti *TypeIdent) GetToken() token.Token { return ti.Token }

// FuncSign is (domain) -> codomain.
type FuncSign struct {
	Token    token.Token
	Domain   *TupleSign
	Codomain TypeSign
}

func (fs *FuncSign) Accept(v Visitor)      { v.VisitFuncSign(fs) }
func (fs *FuncSign) typeSignNode()         {}
func (fs *FuncSign) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *FuncSign) GetToken() token.Token { return fs.Token }

// TupleSign is #label(a: T, _ b: U). Parameter lists are tuple signatures.
type TupleSign struct {
	Token    token.Token
	Label    string
	Elements []*TupleSignElem
}

func (ts *TupleSign) Accept(v Visitor)      { v.VisitTupleSign(ts) }
func (ts *TupleSign) typeSignNode()         {}
func (ts *TupleSign) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TupleSign) GetToken() token.Token { return ts.Token }

// TupleSignElem is one element of a tuple signature. In a parameter list,
// Label is the argument label and Name the parameter name.
type TupleSignElem struct {
	Token     token.Token
	Label     string
	Name      string
	Signature TypeSign
}

func (te *TupleSignElem) Accept(v Visitor)      { v.VisitTupleSignElem(te) }
func (te *TupleSignElem) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TupleSignElem) GetToken() token.Token { return te.Token }

// UnionSign is A or B or C.
type UnionSign struct {
	Token token.Token
	Cases []TypeSign
}

func (us *UnionSign) Accept(v Visitor)      { v.VisitUnionSign(us) }
func (us *UnionSign) typeSignNode()         {}
func (us *UnionSign) TokenLiteral() string  { return us.Token.Lexeme }
func (us *UnionSign) GetToken() token.Token { return us.Token }
