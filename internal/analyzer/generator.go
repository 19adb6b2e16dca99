package analyzer

import (
	"fmt"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/typesystem"
)

// GenerateConstraints assigns a type to every expression of m and
// records in ctx the constraints those types must satisfy. The module
// must be normalized and bound.
func GenerateConstraints(ctx *Context, m *ast.Module) {
	m.Accept(&generator{ctx: ctx})
}

type generator struct {
	ctx *Context
}

func (g *generator) add(c Constraint) {
	g.ctx.AddConstraint(c)
}

func (g *generator) symbolType(id symbols.SymbolID) typesystem.Type {
	if id == symbols.NoSymbol {
		return typesystem.Error
	}
	return g.ctx.Table.Symbol(id).Type
}

func (g *generator) VisitModule(m *ast.Module) {
	for _, stmt := range m.Statements {
		stmt.Accept(g)
	}
}

func (g *generator) VisitFunc(f *ast.Func) {
	fnType, ok := f.GetType().(*typesystem.FunctionType)
	if !ok {
		panic(fmt.Sprintf("function %q was not bound", f.Name))
	}
	if f.Signature != nil {
		g.add(Equality(fnType, g.read(f.Signature), LocationOf(f, Step(PathSignature))))
	}
	if f.Body != nil {
		f.Body.Accept(g)
		g.add(Conformance(f.Body.GetType(), fnType.Codomain, LocationOf(f, Step(PathBody))))
	}
}

func (g *generator) VisitTypeAlias(a *ast.TypeAlias) {
	if a.Symbol == symbols.NoSymbol || a.Signature == nil {
		return
	}
	meta := typesystem.MetatypeOf(g.read(a.Signature))
	g.add(Equality(g.symbolType(a.Symbol), meta, LocationOf(a, Step(PathSignature))))
}

// read evaluates a type signature.
func (g *generator) read(sign ast.TypeSign) typesystem.Type {
	switch s := sign.(type) {
	case *ast.TypeIdent:
		ids := g.ctx.Table.Lookup(s.Scope, s.Name)
		if len(ids) == 0 {
			g.ctx.AddError(diagnostics.NewError(diagnostics.ErrA001, s.Token, "%s", s.Name))
			return typesystem.Error
		}
		if len(ids) > 1 {
			g.ctx.AddError(diagnostics.NewError(diagnostics.ErrA002, s.Token, "%s names %d symbols", s.Name, len(ids)))
			return typesystem.Error
		}
		meta, ok := g.ctx.Table.Symbol(ids[0]).Type.(*typesystem.Metatype)
		if !ok {
			g.ctx.AddError(diagnostics.NewError(diagnostics.ErrA002, s.Token, "%s is not a type", s.Name))
			return typesystem.Error
		}
		s.Type = meta
		return meta.Type

	case *ast.FuncSign:
		return typesystem.NewFunction(g.readTuple(s.Domain), g.read(s.Codomain))

	case *ast.TupleSign:
		return g.readTuple(s)

	case *ast.UnionSign:
		cases := make([]typesystem.Type, len(s.Cases))
		for i, c := range s.Cases {
			cases[i] = g.read(c)
		}
		return typesystem.NewUnion(cases...)

	case nil:
		return typesystem.Unit()
	}
	panic(fmt.Sprintf("unexpected signature %T", sign))
}

func (g *generator) readTuple(s *ast.TupleSign) *typesystem.TupleType {
	if s == nil {
		return typesystem.Unit()
	}
	elems := make([]typesystem.TupleElem, len(s.Elements))
	for i, e := range s.Elements {
		elems[i] = typesystem.Elem(e.Label, g.read(e.Signature))
	}
	return typesystem.NewTuple(s.Label, elems...)
}

func (g *generator) VisitIf(i *ast.If) {
	i.Condition.Accept(g)
	g.add(Equality(i.Condition.GetType(), typesystem.Bool, LocationOf(i, Step(PathCondition))))
	i.Then.Accept(g)
	i.Else.Accept(g)
	i.SetType(typesystem.NewUnion(i.Then.GetType(), i.Else.GetType()))
}

func (g *generator) VisitMatch(m *ast.Match) {
	m.Subject.Accept(g)
	values := make([]typesystem.Type, len(m.Cases))
	for i, c := range m.Cases {
		c.Accept(g)
		values[i] = c.Value.GetType()
		g.add(Conformance(c.Pattern.GetType(), m.Subject.GetType(), LocationOf(m, MatchPattern(i))))
	}
	m.SetType(typesystem.NewUnion(values...))
}

func (g *generator) VisitMatchCase(c *ast.MatchCase) {
	c.Pattern.Accept(g)
	c.Value.Accept(g)
}

func (g *generator) VisitLetBinding(l *ast.LetBinding) {
	l.SetType(g.symbolType(l.Symbol))
}

func (g *generator) VisitBinary(*ast.Binary) {
	panic("constraint generation on a binary expression: AST not normalized")
}

func (g *generator) VisitUnary(*ast.Unary) {
	panic("constraint generation on a unary expression: AST not normalized")
}

func (g *generator) VisitCall(c *ast.Call) {
	elems := make([]typesystem.TupleElem, len(c.Args))
	for i, a := range c.Args {
		elems[i] = typesystem.Elem(a.Label, g.ctx.Fresh())
		a.Accept(g)
		g.add(Conformance(a.GetType(), elems[i].Type, LocationOf(c, Step(PathTuple), ElementIndex(i))))
	}
	result := g.ctx.Fresh()
	c.SetType(result)

	c.Callee.Accept(g)
	fn := typesystem.NewFunction(typesystem.NewTuple("", elems...), result)
	g.add(Equality(c.Callee.GetType(), fn, LocationOf(c, Step(PathCallee))))
}

func (g *generator) VisitArg(a *ast.Arg) {
	a.Value.Accept(g)
	a.SetType(a.Value.GetType())
}

func (g *generator) VisitTuple(t *ast.Tuple) {
	elems := make([]typesystem.TupleElem, len(t.Elements))
	for i, e := range t.Elements {
		e.Accept(g)
		elems[i] = typesystem.Elem(e.Label, e.GetType())
	}
	t.SetType(typesystem.NewTuple(t.Label, elems...))
}

func (g *generator) VisitTupleElem(e *ast.TupleElem) {
	e.Value.Accept(g)
	e.SetType(e.Value.GetType())
}

func (g *generator) VisitSelect(s *ast.Select) {
	s.Owner.Accept(g)
	t := g.ctx.Fresh()
	s.SetType(t)
	g.add(MemberOf(s.Owner.GetType(), s.Ownee, t, LocationOf(s, accessorPath(s.Ownee))))
}

func (g *generator) VisitIdent(i *ast.Ident) {
	i.Candidates = g.ctx.Table.Lookup(i.Scope, i.Name)
	if len(i.Candidates) == 0 {
		g.ctx.AddError(diagnostics.NewError(diagnostics.ErrA001, i.Token, "%s", i.Name))
		i.SetType(typesystem.Error)
		return
	}

	t := g.ctx.Fresh()
	i.SetType(t)
	at := LocationOf(i, Step(PathIdentifier))
	if len(i.Candidates) == 1 {
		i.Symbol = i.Candidates[0]
		g.add(Equality(t, g.symbolType(i.Symbol), at))
		return
	}
	choices := make([]Constraint, len(i.Candidates))
	for k, id := range i.Candidates {
		choices[k] = Equality(t, g.symbolType(id), at)
	}
	g.add(OneOf(choices, at))
}

func (g *generator) VisitIntLiteral(n *ast.IntLiteral)       { n.SetType(typesystem.Int) }
func (g *generator) VisitFloatLiteral(n *ast.FloatLiteral)   { n.SetType(typesystem.Float) }
func (g *generator) VisitBoolLiteral(n *ast.BoolLiteral)     { n.SetType(typesystem.Bool) }
func (g *generator) VisitStringLiteral(n *ast.StringLiteral) { n.SetType(typesystem.String) }

// Signatures are evaluated by read, never visited.
func (g *generator) VisitFuncSign(*ast.FuncSign)           {}
func (g *generator) VisitTupleSign(*ast.TupleSign)         {}
func (g *generator) VisitTupleSignElem(*ast.TupleSignElem) {}
func (g *generator) VisitUnionSign(*ast.UnionSign)         {}
func (g *generator) VisitTypeIdent(*ast.TypeIdent)         {}
