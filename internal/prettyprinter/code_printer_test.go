package prettyprinter

import (
	"testing"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/stretchr/testify/assert"
)

func TestPrintPrecedence(t *testing.T) {
	tests := []struct {
		expr ast.Expression
		want string
	}{
		{ast.NewBinary("+", ast.NewInt(1), ast.NewBinary("*", ast.NewInt(2), ast.NewInt(3))), "1 + 2 * 3"},
		{ast.NewBinary("*", ast.NewBinary("+", ast.NewInt(1), ast.NewInt(2)), ast.NewInt(3)), "(1 + 2) * 3"},
		{ast.NewBinary("-", ast.NewInt(1), ast.NewBinary("-", ast.NewInt(2), ast.NewInt(3))), "1 - (2 - 3)"},
		{ast.NewBinary("-", ast.NewBinary("-", ast.NewInt(1), ast.NewInt(2)), ast.NewInt(3)), "1 - 2 - 3"},
		{ast.NewUnary("not", ast.NewBinary("and", ast.NewBool(true), ast.NewBool(false))), "not (true and false)"},
		{ast.NewUnary("-", ast.NewFloat(1.5)), "-1.5"},
		{ast.NewCall(ast.NewIdent("+"), ast.NewInt(1), ast.NewInt(2)), "+(1, 2)"},
		{ast.NewSelect(ast.NewRecord("", ast.NewTupleElem("x", ast.NewString("a"))), ast.ByLabel("x")), `(x: "a").x`},
		{ast.NewTuple("succ", ast.NewLet("m")), "#succ(let m)"},
		{ast.NewTuple("zero"), "#zero"},
		{ast.NewIf(ast.NewBool(true), ast.NewInt(1), ast.NewInt(2)), "if true then 1 else 2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Print(tt.expr))
	}
}

func TestPrintModule(t *testing.T) {
	nat := ast.NewTypeAlias("Nat", ast.NewUnionSign(
		ast.NewTupleSign("zero"),
		ast.NewTupleSign("succ", ast.NewParam("", "", ast.NewTypeIdent("Nat"))),
	))
	pred := ast.NewFunc("pred",
		ast.NewFuncSign(ast.NewTypeIdent("Nat"), ast.NewParam("", "n", ast.NewTypeIdent("Nat"))),
		ast.NewMatch(ast.NewIdent("n"),
			ast.NewCase(ast.NewTuple("zero"), ast.NewTuple("zero")),
			ast.NewCase(ast.NewTuple("succ", ast.NewLet("m")), ast.NewIdent("m")),
		))
	apply := ast.NewFunc("apply",
		ast.NewFuncSign(ast.NewTypeIdent("Int"),
			ast.NewParam("", "x", ast.NewTypeIdent("Int")),
			ast.NewParam("op", "op", ast.NewFuncSign(ast.NewTypeIdent("Int"), ast.NewParam("", "", ast.NewTypeIdent("Int"))))),
		ast.NewCall(ast.NewIdent("op"), ast.NewIdent("x")))

	want := `type Nat :: #zero or #succ(Nat)

func pred(_ n: Nat) -> Nat :: match n
    with #zero        :: #zero
    with #succ(let m) :: m

func apply(_ x: Int, op: (Int) -> Int) -> Int :: op(x)
`
	assert.Equal(t, want, Print(ast.NewModule("nat", nat, pred, apply)))
}

func TestPrintNestedFunction(t *testing.T) {
	lambda := ast.NewFunc("", ast.NewFuncSign(ast.NewTypeIdent("Bool"), ast.NewParam("", "b", ast.NewTypeIdent("Bool"))),
		ast.NewUnary("not", ast.NewIdent("b")))
	assert.Equal(t, "(func(_ b: Bool) -> Bool :: not b)(true)", Print(ast.NewCall(lambda, ast.NewBool(true))))
}
