package analyzer

import (
	"fmt"

	"github.com/funvibe/alpine/internal/ast"
)

// Normalizer rewrites operators into calls so that later passes only see
// calls, tuples and arguments:
//
//	a + b  =>  +(a, b)
//	not a  =>  not(a)
//
// Replace substitutes identifiers by name with a fresh copy of the given
// expression, which lets a caller splice values into a module before it
// is analyzed.
type Normalizer struct {
	Replace map[string]ast.Expression
}

// NewNormalizer creates a normalizer without replacements.
func NewNormalizer() *Normalizer {
	return &Normalizer{Replace: make(map[string]ast.Expression)}
}

// Module normalizes every statement of m in place.
func (n *Normalizer) Module(m *ast.Module) {
	for i, stmt := range m.Statements {
		switch s := stmt.(type) {
		case *ast.TypeAlias:
			// Signatures contain no expressions.
		case ast.Expression:
			m.Statements[i] = n.Expr(s)
		default:
			panic(fmt.Sprintf("normalizer: unexpected statement %T", stmt))
		}
	}
}

// Expr returns the normalized form of e. Nodes are rewritten in place
// where their shape does not change.
func (n *Normalizer) Expr(e ast.Expression) ast.Expression {
	switch node := e.(type) {
	case nil:
		return nil

	case *ast.Binary:
		return &ast.Call{
			Token:  node.Token,
			Callee: node.Op,
			Args: []*ast.Arg{
				{Token: node.Left.GetToken(), Value: n.Expr(node.Left)},
				{Token: node.Right.GetToken(), Value: n.Expr(node.Right)},
			},
		}

	case *ast.Unary:
		return &ast.Call{
			Token:  node.Token,
			Callee: node.Op,
			Args: []*ast.Arg{
				{Token: node.Operand.GetToken(), Value: n.Expr(node.Operand)},
			},
		}

	case *ast.Ident:
		if repl, ok := n.Replace[node.Name]; ok {
			// Replacements are not themselves subject to replacement.
			return (&Normalizer{}).Expr(ast.Copy(repl))
		}
		return node

	case *ast.Func:
		node.Body = n.Expr(node.Body)
	case *ast.If:
		node.Condition = n.Expr(node.Condition)
		node.Then = n.Expr(node.Then)
		node.Else = n.Expr(node.Else)
	case *ast.Match:
		node.Subject = n.Expr(node.Subject)
		for _, c := range node.Cases {
			c.Pattern = n.Expr(c.Pattern)
			c.Value = n.Expr(c.Value)
		}
	case *ast.Call:
		node.Callee = n.Expr(node.Callee)
		for _, a := range node.Args {
			a.Value = n.Expr(a.Value)
		}
	case *ast.Arg:
		node.Value = n.Expr(node.Value)
	case *ast.Tuple:
		for _, el := range node.Elements {
			el.Value = n.Expr(el.Value)
		}
	case *ast.TupleElem:
		node.Value = n.Expr(node.Value)
	case *ast.Select:
		node.Owner = n.Expr(node.Owner)
	}
	return e
}
