package analyzer

import (
	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/typesystem"
	"github.com/google/uuid"
)

// AnalyzeNaming creates the scopes of m and declares every symbol in
// them. Functions and type aliases of the module are hoisted so they can
// be referenced before their declaration (and recursively).
//
// Every name-introducing or name-referencing node gets its scope
// attached. Identifiers are not resolved here: constraint generation
// looks them up, since resolution of overloads is its business.
func AnalyzeNaming(ctx *Context, m *ast.Module) {
	b := &binder{ctx: ctx, scope: ctx.Prelude, declared: make(map[*ast.Func]bool)}
	m.Accept(b)
}

type binder struct {
	ctx      *Context
	scope    symbols.ScopeID
	module   string
	declared map[*ast.Func]bool
}

func (b *binder) enter(name string, typ symbols.ScopeType) func() {
	outer := b.scope
	b.scope = b.ctx.Table.NewScope(name, typ, outer, b.module)
	return func() { b.scope = outer }
}

func (b *binder) duplicate(node ast.Node, name string) {
	b.ctx.AddError(diagnostics.NewError(diagnostics.ErrA003, node.GetToken(),
		"%q is already declared in %s", name, b.ctx.Table.Path(b.scope)))
}

func (b *binder) VisitModule(m *ast.Module) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	b.module = m.ID
	b.scope = b.ctx.Table.NewScope(m.Name, symbols.ScopeModule, b.ctx.Prelude, m.ID)
	m.Scope = b.scope

	for _, stmt := range m.Statements {
		switch s := stmt.(type) {
		case *ast.Func:
			if s.Name != "" {
				b.declareFunc(s)
			}
		case *ast.TypeAlias:
			b.declareAlias(s)
		}
	}
	for _, stmt := range m.Statements {
		stmt.Accept(b)
	}
}

// declareFunc gives f its nominal type, a function from fresh variables
// (labeled as in the signature) to a fresh variable, and declares it as
// an overloadable symbol when it is named.
func (b *binder) declareFunc(f *ast.Func) {
	b.declared[f] = true
	f.Scope = b.scope
	f.Symbol = symbols.NoSymbol

	var elems []typesystem.TupleElem
	if f.Signature != nil && f.Signature.Domain != nil {
		for _, p := range f.Signature.Domain.Elements {
			elems = append(elems, typesystem.Elem(p.Label, b.ctx.Fresh()))
		}
	}
	fnType := typesystem.NewFunction(typesystem.NewTuple("", elems...), b.ctx.Fresh())
	f.SetType(fnType)

	if f.Name == "" {
		return
	}
	if !b.ctx.Table.CanDeclare(b.scope, f.Name, true) {
		b.duplicate(f, f.Name)
		return
	}
	f.Symbol = b.ctx.Table.Declare(b.scope, f.Name, fnType, true)
}

func (b *binder) declareAlias(a *ast.TypeAlias) {
	a.Scope = b.scope
	a.Symbol = symbols.NoSymbol
	if !b.ctx.Table.CanDeclare(b.scope, a.Name, false) {
		b.duplicate(a, a.Name)
		return
	}
	a.Symbol = b.ctx.Table.Declare(b.scope, a.Name, typesystem.MetatypeOf(b.ctx.Fresh()), false)
}

func (b *binder) VisitFunc(f *ast.Func) {
	if !b.declared[f] {
		b.declareFunc(f)
	}
	if f.Signature != nil {
		f.Signature.Accept(b)
	}

	leave := b.enter(f.Name, symbols.ScopeFunction)
	defer leave()
	f.InnerScope = b.scope
	f.Params = nil

	fnType := f.GetType().(*typesystem.FunctionType)
	if f.Signature != nil && f.Signature.Domain != nil {
		for i, p := range f.Signature.Domain.Elements {
			name := p.Name
			if name == "" {
				name = p.Label
			}
			if name == "" {
				continue
			}
			if !b.ctx.Table.CanDeclare(b.scope, name, false) {
				b.duplicate(p, name)
				continue
			}
			f.Params = append(f.Params, b.ctx.Table.Declare(b.scope, name, fnType.Domain.Elements[i].Type, false))
		}
	}
	if f.Body != nil {
		f.Body.Accept(b)
	}
}

func (b *binder) VisitTypeAlias(a *ast.TypeAlias) {
	if a.Signature != nil {
		a.Signature.Accept(b)
	}
}

func (b *binder) VisitFuncSign(s *ast.FuncSign) {
	if s.Domain != nil {
		s.Domain.Accept(b)
	}
	if s.Codomain != nil {
		s.Codomain.Accept(b)
	}
}

func (b *binder) VisitTupleSign(s *ast.TupleSign) {
	for _, e := range s.Elements {
		e.Accept(b)
	}
}

func (b *binder) VisitTupleSignElem(e *ast.TupleSignElem) {
	if e.Signature != nil {
		e.Signature.Accept(b)
	}
}

func (b *binder) VisitUnionSign(s *ast.UnionSign) {
	for _, c := range s.Cases {
		c.Accept(b)
	}
}

func (b *binder) VisitTypeIdent(t *ast.TypeIdent) {
	t.Scope = b.scope
}

func (b *binder) VisitIf(i *ast.If) {
	i.Condition.Accept(b)

	leave := b.enter("", symbols.ScopeBranch)
	i.ThenScope = b.scope
	i.Then.Accept(b)
	leave()

	leave = b.enter("", symbols.ScopeBranch)
	i.ElseScope = b.scope
	i.Else.Accept(b)
	leave()
}

func (b *binder) VisitMatch(m *ast.Match) {
	m.Subject.Accept(b)
	for _, c := range m.Cases {
		c.Accept(b)
	}
}

func (b *binder) VisitMatchCase(c *ast.MatchCase) {
	leave := b.enter("", symbols.ScopeMatchCase)
	defer leave()
	c.InnerScope = b.scope
	c.Pattern.Accept(b)
	c.Value.Accept(b)
}

func (b *binder) VisitLetBinding(l *ast.LetBinding) {
	l.Scope = b.scope
	l.Symbol = symbols.NoSymbol
	if !b.ctx.Table.CanDeclare(b.scope, l.Name, false) {
		b.duplicate(l, l.Name)
		return
	}
	l.Symbol = b.ctx.Table.Declare(b.scope, l.Name, b.ctx.Fresh(), false)
}

func (b *binder) VisitBinary(n *ast.Binary) {
	n.Op.Accept(b)
	n.Left.Accept(b)
	n.Right.Accept(b)
}

func (b *binder) VisitUnary(n *ast.Unary) {
	n.Op.Accept(b)
	n.Operand.Accept(b)
}

func (b *binder) VisitCall(c *ast.Call) {
	c.Callee.Accept(b)
	for _, a := range c.Args {
		a.Accept(b)
	}
}

func (b *binder) VisitArg(a *ast.Arg) { a.Value.Accept(b) }

func (b *binder) VisitTuple(t *ast.Tuple) {
	for _, e := range t.Elements {
		e.Accept(b)
	}
}

func (b *binder) VisitTupleElem(e *ast.TupleElem) { e.Value.Accept(b) }
func (b *binder) VisitSelect(s *ast.Select)       { s.Owner.Accept(b) }

func (b *binder) VisitIdent(i *ast.Ident) {
	i.Scope = b.scope
	i.Symbol = symbols.NoSymbol
	i.Candidates = nil
}

func (b *binder) VisitIntLiteral(*ast.IntLiteral)       {}
func (b *binder) VisitFloatLiteral(*ast.FloatLiteral)   {}
func (b *binder) VisitBoolLiteral(*ast.BoolLiteral)     {}
func (b *binder) VisitStringLiteral(*ast.StringLiteral) {}
