package analyzer

import (
	"context"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/typesystem"
)

// Dispatch applies a solution to m. Each overloaded identifier is bound
// to the first candidate whose equality with the identifier's type holds
// under the solution, then every expression type and every symbol type
// is reified.
func Dispatch(ctx context.Context, actx *Context, m *ast.Module, solution typesystem.Subst) {
	ast.Inspect(m, func(n ast.Node) bool {
		if ident, ok := n.(*ast.Ident); ok {
			dispatchIdent(ctx, actx, ident, solution)
		}
		return true
	})

	actx.Table.Symbols(func(sym *symbols.Symbol) {
		sym.Type = solution.Reify(sym.Type)
	})
	ast.Inspect(m, func(n ast.Node) bool {
		if e, ok := n.(ast.Expression); ok && e.GetType() != nil {
			e.SetType(solution.Reify(e.GetType()))
		}
		return true
	})
}

func dispatchIdent(ctx context.Context, actx *Context, ident *ast.Ident, solution typesystem.Subst) {
	if len(ident.Candidates) <= 1 {
		return
	}
	at := LocationOf(ident, Step(PathIdentifier))
	for _, id := range ident.Candidates {
		check := Equality(ident.GetType(), actx.Table.Symbol(id).Type, at)
		if NewSolver([]Constraint{check}, solution).Solve(ctx).OK() {
			ident.Symbol = id
			return
		}
	}
	actx.AddError(diagnostics.NewError(diagnostics.ErrD001, ident.Token,
		"no overload of %s has type %s", ident.Name, solution.Reify(ident.GetType())))
}
