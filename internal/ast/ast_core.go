package ast

import (
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/token"
	"github.com/funvibe/alpine/internal/typesystem"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Accept(v Visitor)
}

// Expression is a Node that has a value, and therefore a type.
type Expression interface {
	Node
	expressionNode()
	GetType() typesystem.Type
	SetType(typesystem.Type)
}

// Typed is the mutable type slot embedded in every typed node. It is
// empty until constraint generation, holds type variables until dispatch,
// and a concrete type afterwards.
type Typed struct {
	Type typesystem.Type
}

func (t *Typed) GetType() typesystem.Type    { return t.Type }
func (t *Typed) SetType(typ typesystem.Type) { t.Type = typ }

// Module is the root node. Statements are functions, type aliases, or
// top-level expressions.
type Module struct {
	Token      token.Token
	Name       string
	ID         string // unique per loaded module, owns its scopes
	Statements []Node
	Scope      symbols.ScopeID
}

func (m *Module) Accept(v Visitor)      { v.VisitModule(m) }
func (m *Module) GetToken() token.Token { return m.Token }
func (m *Module) TokenLiteral() string  { return m.Name }

// Visitor has one method per concrete node type.
type Visitor interface {
	VisitModule(*Module)

	VisitFunc(*Func)
	VisitTypeAlias(*TypeAlias)

	VisitFuncSign(*FuncSign)
	VisitTupleSign(*TupleSign)
	VisitTupleSignElem(*TupleSignElem)
	VisitUnionSign(*UnionSign)
	VisitTypeIdent(*TypeIdent)

	VisitIf(*If)
	VisitMatch(*Match)
	VisitMatchCase(*MatchCase)
	VisitLetBinding(*LetBinding)
	VisitBinary(*Binary)
	VisitUnary(*Unary)
	VisitCall(*Call)
	VisitArg(*Arg)
	VisitTuple(*Tuple)
	VisitTupleElem(*TupleElem)
	VisitSelect(*Select)
	VisitIdent(*Ident)
	VisitIntLiteral(*IntLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitBoolLiteral(*BoolLiteral)
	VisitStringLiteral(*StringLiteral)
}
