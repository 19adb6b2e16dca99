package ast

import (
	"fmt"

	"github.com/funvibe/alpine/internal/symbols"
)

// Copy deep copies a subtree. The copy is unbound and untyped: scopes,
// symbols and type slots are reset so the copy can be analyzed again.
func Copy[N Node](node N) N {
	return copyNode(node).(N)
}

func copyExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return copyNode(e).(Expression)
}

func copySign(s TypeSign) TypeSign {
	if s == nil {
		return nil
	}
	return copyNode(s).(TypeSign)
}

func copyNode(node Node) Node {
	switch n := node.(type) {
	case *Module:
		stmts := make([]Node, len(n.Statements))
		for i, s := range n.Statements {
			stmts[i] = copyNode(s)
		}
		return &Module{Token: n.Token, Name: n.Name, ID: n.ID, Statements: stmts, Scope: symbols.NoScope}
	case *Func:
		var sign *FuncSign
		if n.Signature != nil {
			sign = copyNode(n.Signature).(*FuncSign)
		}
		return &Func{
			Token:      n.Token,
			Name:       n.Name,
			Signature:  sign,
			Body:       copyExpr(n.Body),
			Scope:      symbols.NoScope,
			InnerScope: symbols.NoScope,
			Symbol:     symbols.NoSymbol,
		}
	case *TypeAlias:
		return &TypeAlias{
			Token:     n.Token,
			Name:      n.Name,
			Signature: copySign(n.Signature),
			Scope:     symbols.NoScope,
			Symbol:    symbols.NoSymbol,
		}
	case *TypeIdent:
		return &TypeIdent{Token: n.Token, Name: n.Name, Scope: symbols.NoScope}
	case *FuncSign:
		var domain *TupleSign
		if n.Domain != nil {
			domain = copyNode(n.Domain).(*TupleSign)
		}
		return &FuncSign{Token: n.Token, Domain: domain, Codomain: copySign(n.Codomain)}
	case *TupleSign:
		elems := make([]*TupleSignElem, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = copyNode(e).(*TupleSignElem)
		}
		return &TupleSign{Token: n.Token, Label: n.Label, Elements: elems}
	case *TupleSignElem:
		return &TupleSignElem{Token: n.Token, Label: n.Label, Name: n.Name, Signature: copySign(n.Signature)}
	case *UnionSign:
		cases := make([]TypeSign, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = copySign(c)
		}
		return &UnionSign{Token: n.Token, Cases: cases}
	case *If:
		return &If{
			Token:     n.Token,
			Condition: copyExpr(n.Condition),
			Then:      copyExpr(n.Then),
			Else:      copyExpr(n.Else),
			ThenScope: symbols.NoScope,
			ElseScope: symbols.NoScope,
		}
	case *Match:
		cases := make([]*MatchCase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = copyNode(c).(*MatchCase)
		}
		return &Match{Token: n.Token, Subject: copyExpr(n.Subject), Cases: cases}
	case *MatchCase:
		return &MatchCase{
			Token:      n.Token,
			Pattern:    copyExpr(n.Pattern),
			Value:      copyExpr(n.Value),
			InnerScope: symbols.NoScope,
		}
	case *LetBinding:
		return &LetBinding{Token: n.Token, Name: n.Name, Scope: symbols.NoScope, Symbol: symbols.NoSymbol}
	case *Binary:
		return &Binary{
			Token:      n.Token,
			Op:         Copy(n.Op),
			Left:       copyExpr(n.Left),
			Right:      copyExpr(n.Right),
			Precedence: n.Precedence,
		}
	case *Unary:
		return &Unary{Token: n.Token, Op: Copy(n.Op), Operand: copyExpr(n.Operand)}
	case *Call:
		args := make([]*Arg, len(n.Args))
		for i, a := range n.Args {
			args[i] = copyNode(a).(*Arg)
		}
		return &Call{Token: n.Token, Callee: copyExpr(n.Callee), Args: args}
	case *Arg:
		return &Arg{Token: n.Token, Label: n.Label, Value: copyExpr(n.Value)}
	case *Tuple:
		elems := make([]*TupleElem, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = copyNode(e).(*TupleElem)
		}
		return &Tuple{Token: n.Token, Label: n.Label, Elements: elems}
	case *TupleElem:
		return &TupleElem{Token: n.Token, Label: n.Label, Value: copyExpr(n.Value)}
	case *Select:
		return &Select{Token: n.Token, Owner: copyExpr(n.Owner), Ownee: n.Ownee}
	case *Ident:
		return &Ident{Token: n.Token, Name: n.Name, Scope: symbols.NoScope, Symbol: symbols.NoSymbol}
	case *IntLiteral:
		return &IntLiteral{Token: n.Token, Value: n.Value}
	case *FloatLiteral:
		return &FloatLiteral{Token: n.Token, Value: n.Value}
	case *BoolLiteral:
		return &BoolLiteral{Token: n.Token, Value: n.Value}
	case *StringLiteral:
		return &StringLiteral{Token: n.Token, Value: n.Value}
	}
	panic(fmt.Sprintf("ast: cannot copy %T", node))
}
