package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/alpine/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter). Every operator is left
// associative.
var operatorPrecedence = map[string]int{
	"or":  1,
	"and": 2,
	"==":  3,
	"!=":  3,
	"<":   4,
	">":   4,
	"<=":  4,
	">=":  4,
	"+":   5,
	"-":   5,
	"*":   6,
	"/":   6,
}

// prefixPrecedence is above every binary operator.
const prefixPrecedence = 10

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return prefixPrecedence
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a node with a fresh printer.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.Binary:
		prec := getPrecedence(e.Op.Name)
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Op.Name + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.Unary:
		p.write(e.Op.Name)
		if e.Op.Name == "not" {
			p.write(" ")
		}
		p.printExpr(e.Operand, prefixPrecedence, false)
	case *ast.If, *ast.Match, *ast.Func:
		// Open-ended forms extend as far right as possible.
		if parentPrec > 0 {
			p.write("(")
			expr.Accept(p)
			p.write(")")
			return
		}
		expr.Accept(p)
	default:
		expr.Accept(p)
	}
}

func (p *CodePrinter) VisitModule(n *ast.Module) {
	for i, stmt := range n.Statements {
		if i > 0 {
			p.writeln()
		}
		p.writeIndent()
		stmt.Accept(p)
		p.writeln()
	}
}

func (p *CodePrinter) VisitFunc(n *ast.Func) {
	p.write("func")
	if n.Name != "" {
		p.write(" " + n.Name)
	}
	if n.Signature != nil {
		p.printParams(n.Signature.Domain)
		p.write(" -> ")
		p.printSign(n.Signature.Codomain)
	} else {
		p.write("()")
	}
	p.write(" :: ")
	p.printExpr(n.Body, 0, false)
}

// printParams prints a parameter list: `_ x: Int` for a positional
// parameter, `op: T` when label and name agree, `label name: T` otherwise.
func (p *CodePrinter) printParams(domain *ast.TupleSign) {
	p.write("(")
	if domain != nil {
		for i, e := range domain.Elements {
			if i > 0 {
				p.write(", ")
			}
			switch {
			case e.Label == "" && e.Name == "":
				p.write("_")
			case e.Label == "":
				p.write("_ " + e.Name)
			case e.Name == "" || e.Name == e.Label:
				p.write(e.Label)
			default:
				p.write(e.Label + " " + e.Name)
			}
			p.write(": ")
			p.printSign(e.Signature)
		}
	}
	p.write(")")
}

func (p *CodePrinter) VisitTypeAlias(n *ast.TypeAlias) {
	p.write("type " + n.Name + " :: ")
	p.printSign(n.Signature)
}

func (p *CodePrinter) printSign(s ast.TypeSign) {
	if s == nil {
		p.write("()")
		return
	}
	s.Accept(p)
}

func (p *CodePrinter) VisitFuncSign(n *ast.FuncSign) {
	p.printSign(n.Domain)
	p.write(" -> ")
	p.printSign(n.Codomain)
}

func (p *CodePrinter) VisitTupleSign(n *ast.TupleSign) {
	if n.Label != "" {
		p.write("#" + n.Label)
		if len(n.Elements) == 0 {
			return
		}
	}
	p.write("(")
	for i, e := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		e.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitTupleSignElem(n *ast.TupleSignElem) {
	if n.Label != "" {
		p.write(n.Label + ": ")
	}
	p.printSign(n.Signature)
}

func (p *CodePrinter) VisitUnionSign(n *ast.UnionSign) {
	for i, c := range n.Cases {
		if i > 0 {
			p.write(" or ")
		}
		if _, nested := c.(*ast.FuncSign); nested {
			p.write("(")
			c.Accept(p)
			p.write(")")
			continue
		}
		p.printSign(c)
	}
}

func (p *CodePrinter) VisitTypeIdent(n *ast.TypeIdent) { p.write(n.Name) }

func (p *CodePrinter) VisitIf(n *ast.If) {
	p.write("if ")
	p.printExpr(n.Condition, 0, false)
	p.write(" then ")
	p.printExpr(n.Then, 0, false)
	p.write(" else ")
	p.printExpr(n.Else, 0, false)
}

func (p *CodePrinter) VisitMatch(n *ast.Match) {
	p.write("match ")
	p.printExpr(n.Subject, 0, false)
	p.indent++

	// Calculate max pattern width for alignment
	maxPatLen := 0
	patStrings := make([]string, len(n.Cases))
	for i, c := range n.Cases {
		temp := &CodePrinter{}
		temp.printExpr(c.Pattern, 0, false)
		patStrings[i] = temp.String()
		if len(patStrings[i]) > maxPatLen {
			maxPatLen = len(patStrings[i])
		}
	}

	for i, c := range n.Cases {
		p.writeln()
		p.writeIndent()
		p.write("with " + patStrings[i])
		p.write(strings.Repeat(" ", maxPatLen-len(patStrings[i])))
		p.write(" :: ")
		p.printExpr(c.Value, 0, false)
	}
	p.indent--
}

func (p *CodePrinter) VisitMatchCase(n *ast.MatchCase) {
	p.write("with ")
	p.printExpr(n.Pattern, 0, false)
	p.write(" :: ")
	p.printExpr(n.Value, 0, false)
}

func (p *CodePrinter) VisitLetBinding(n *ast.LetBinding) { p.write("let " + n.Name) }
func (p *CodePrinter) VisitBinary(n *ast.Binary)         { p.printExpr(n, 0, false) }
func (p *CodePrinter) VisitUnary(n *ast.Unary)           { p.printExpr(n, 0, false) }

func (p *CodePrinter) VisitCall(n *ast.Call) {
	p.printExpr(n.Callee, prefixPrecedence, false)
	p.write("(")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitArg(n *ast.Arg) {
	if n.Label != "" {
		p.write(n.Label + ": ")
	}
	p.printExpr(n.Value, 0, false)
}

func (p *CodePrinter) VisitTuple(n *ast.Tuple) {
	if n.Label != "" {
		p.write("#" + n.Label)
		if len(n.Elements) == 0 {
			return
		}
	}
	p.write("(")
	for i, e := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		e.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitTupleElem(n *ast.TupleElem) {
	if n.Label != "" {
		p.write(n.Label + ": ")
	}
	p.printExpr(n.Value, 0, false)
}

func (p *CodePrinter) VisitSelect(n *ast.Select) {
	p.printExpr(n.Owner, prefixPrecedence, false)
	p.write("." + n.Ownee.String())
}

func (p *CodePrinter) VisitIdent(n *ast.Ident)                 { p.write(n.Name) }
func (p *CodePrinter) VisitIntLiteral(n *ast.IntLiteral)       { p.write(n.Token.Lexeme) }
func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral)   { p.write(n.Token.Lexeme) }
func (p *CodePrinter) VisitBoolLiteral(n *ast.BoolLiteral)     { p.write(n.Token.Lexeme) }
func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) { p.write(n.Token.Lexeme) }
