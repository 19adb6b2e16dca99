package ast

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, n := range ns {
			if n != nil {
				out = append(out, n)
			}
		}
	}

	switch n := node.(type) {
	case *Module:
		add(n.Statements...)
	case *Func:
		if n.Signature != nil {
			add(n.Signature)
		}
		add(n.Body)
	case *TypeAlias:
		add(n.Signature)
	case *FuncSign:
		if n.Domain != nil {
			add(n.Domain)
		}
		add(n.Codomain)
	case *TupleSign:
		for _, e := range n.Elements {
			add(e)
		}
	case *TupleSignElem:
		add(n.Signature)
	case *UnionSign:
		for _, c := range n.Cases {
			add(c)
		}
	case *If:
		add(n.Condition, n.Then, n.Else)
	case *Match:
		add(n.Subject)
		for _, c := range n.Cases {
			add(c)
		}
	case *MatchCase:
		add(n.Pattern, n.Value)
	case *Binary:
		if n.Op != nil {
			add(n.Op)
		}
		add(n.Left, n.Right)
	case *Unary:
		if n.Op != nil {
			add(n.Op)
		}
		add(n.Operand)
	case *Call:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *Arg:
		add(n.Value)
	case *Tuple:
		for _, e := range n.Elements {
			add(e)
		}
	case *TupleElem:
		add(n.Value)
	case *Select:
		add(n.Owner)
	}
	return out
}

// Inspect traverses the tree depth-first in source order, calling fn on
// every node. Children are skipped when fn returns false.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, fn)
	}
}
