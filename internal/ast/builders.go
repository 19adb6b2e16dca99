package ast

import (
	"strconv"

	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/token"
)

// Constructors for building trees without a parser. Nodes come out
// unbound, with zero tokens; use At to attach a position.

func tok(lexeme string) token.Token { return token.Token{Lexeme: lexeme} }

func NewModule(name string, stmts ...Node) *Module {
	return &Module{Token: tok(name), Name: name, Statements: stmts, Scope: symbols.NoScope}
}

func NewIdent(name string) *Ident {
	return &Ident{Token: tok(name), Name: name, Scope: symbols.NoScope, Symbol: symbols.NoSymbol}
}

func NewInt(v int64) *IntLiteral {
	return &IntLiteral{Token: tok(strconv.FormatInt(v, 10)), Value: v}
}

func NewFloat(v float64) *FloatLiteral {
	return &FloatLiteral{Token: tok(strconv.FormatFloat(v, 'g', -1, 64)), Value: v}
}

func NewBool(v bool) *BoolLiteral {
	return &BoolLiteral{Token: tok(strconv.FormatBool(v)), Value: v}
}

func NewString(v string) *StringLiteral {
	return &StringLiteral{Token: tok(strconv.Quote(v)), Value: v}
}

func NewLet(name string) *LetBinding {
	return &LetBinding{Token: tok("let"), Name: name, Scope: symbols.NoScope, Symbol: symbols.NoSymbol}
}

// NewArg builds an argument; label may be empty.
func NewArg(label string, value Expression) *Arg {
	return &Arg{Token: value.GetToken(), Label: label, Value: value}
}

// NewCall builds a call with positional arguments.
func NewCall(callee Expression, args ...Expression) *Call {
	c := &Call{Token: callee.GetToken(), Callee: callee}
	for _, a := range args {
		c.Args = append(c.Args, NewArg("", a))
	}
	return c
}

// NewLabeledCall builds a call from prebuilt arguments.
func NewLabeledCall(callee Expression, args ...*Arg) *Call {
	return &Call{Token: callee.GetToken(), Callee: callee, Args: args}
}

func NewBinary(op string, left, right Expression) *Binary {
	return &Binary{Token: tok(op), Op: NewIdent(op), Left: left, Right: right}
}

func NewUnary(op string, operand Expression) *Unary {
	return &Unary{Token: tok(op), Op: NewIdent(op), Operand: operand}
}

func NewIf(cond, then, els Expression) *If {
	return &If{
		Token:     tok("if"),
		Condition: cond,
		Then:      then,
		Else:      els,
		ThenScope: symbols.NoScope,
		ElseScope: symbols.NoScope,
	}
}

func NewMatch(subject Expression, cases ...*MatchCase) *Match {
	return &Match{Token: tok("match"), Subject: subject, Cases: cases}
}

func NewCase(pattern, value Expression) *MatchCase {
	return &MatchCase{Token: tok("with"), Pattern: pattern, Value: value, InnerScope: symbols.NoScope}
}

// NewTupleElem builds a tuple element; label may be empty.
func NewTupleElem(label string, value Expression) *TupleElem {
	return &TupleElem{Token: value.GetToken(), Label: label, Value: value}
}

// NewTuple builds a tuple literal with unlabeled elements.
func NewTuple(label string, values ...Expression) *Tuple {
	t := &Tuple{Token: tok("#" + label), Label: label}
	for _, v := range values {
		t.Elements = append(t.Elements, NewTupleElem("", v))
	}
	return t
}

// NewRecord builds a tuple literal from prebuilt elements.
func NewRecord(label string, elems ...*TupleElem) *Tuple {
	return &Tuple{Token: tok("#" + label), Label: label, Elements: elems}
}

func NewSelect(owner Expression, ownee Member) *Select {
	return &Select{Token: tok("." + ownee.String()), Owner: owner, Ownee: ownee}
}

func NewTypeIdent(name string) *TypeIdent {
	return &TypeIdent{Token: tok(name), Name: name, Scope: symbols.NoScope}
}

// NewParam builds a parameter: label is the argument label (empty for
// `_`), name the parameter name.
func NewParam(label, name string, sign TypeSign) *TupleSignElem {
	return &TupleSignElem{Token: tok(name), Label: label, Name: name, Signature: sign}
}

func NewTupleSign(label string, elems ...*TupleSignElem) *TupleSign {
	return &TupleSign{Token: tok("#" + label), Label: label, Elements: elems}
}

func NewFuncSign(codomain TypeSign, params ...*TupleSignElem) *FuncSign {
	return &FuncSign{Token: tok("->"), Domain: NewTupleSign("", params...), Codomain: codomain}
}

func NewUnionSign(cases ...TypeSign) *UnionSign {
	return &UnionSign{Token: tok("or"), Cases: cases}
}

// NewFunc builds a function; name may be empty.
func NewFunc(name string, sign *FuncSign, body Expression) *Func {
	return &Func{
		Token:      tok(name),
		Name:       name,
		Signature:  sign,
		Body:       body,
		Scope:      symbols.NoScope,
		InnerScope: symbols.NoScope,
		Symbol:     symbols.NoSymbol,
	}
}

func NewTypeAlias(name string, sign TypeSign) *TypeAlias {
	return &TypeAlias{Token: tok(name), Name: name, Signature: sign, Scope: symbols.NoScope, Symbol: symbols.NoSymbol}
}

// positioned is implemented by every node through its Token field.
type positioned interface {
	Node
	setToken(token.Token)
}

// At attaches a source position to node and returns it.
func At[N Node](node N, file string, line, col int) N {
	if p, ok := any(node).(positioned); ok {
		t := node.GetToken()
		t.File, t.Line, t.Column = file, line, col
		p.setToken(t)
	}
	return node
}

func (m *Module) setToken(t token.Token)         { m.Token = t }
func (f *Func) setToken(t token.Token)           { f.Token = t }
func (ta *TypeAlias) setToken(t token.Token)     { ta.Token = t }
func (ti *TypeIdent) setToken(t token.Token)     { ti.Token = t }
func (fs *FuncSign) setToken(t token.Token)      { fs.Token = t }
func (ts *TupleSign) setToken(t token.Token)     { ts.Token = t }
func (te *TupleSignElem) setToken(t token.Token) { te.Token = t }
func (us *UnionSign) setToken(t token.Token)     { us.Token = t }
func (i *If) setToken(t token.Token)             { i.Token = t }
func (m *Match) setToken(t token.Token)          { m.Token = t }
func (mc *MatchCase) setToken(t token.Token)     { mc.Token = t }
func (lb *LetBinding) setToken(t token.Token)    { lb.Token = t }
func (b *Binary) setToken(t token.Token)         { b.Token = t }
func (u *Unary) setToken(t token.Token)          { u.Token = t }
func (c *Call) setToken(t token.Token)           { c.Token = t }
func (a *Arg) setToken(t token.Token)            { a.Token = t }
func (t *Tuple) setToken(tk token.Token)         { t.Token = tk }
func (te *TupleElem) setToken(t token.Token)     { te.Token = t }
func (s *Select) setToken(t token.Token)         { s.Token = t }
func (i *Ident) setToken(t token.Token)          { i.Token = t }
func (il *IntLiteral) setToken(t token.Token)    { il.Token = t }
func (fl *FloatLiteral) setToken(t token.Token)  { fl.Token = t }
func (bl *BoolLiteral) setToken(t token.Token)   { bl.Token = t }
func (sl *StringLiteral) setToken(t token.Token) { sl.Token = t }
