package analyzer

import (
	"github.com/funvibe/alpine/internal/config"
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/typesystem"
)

// RegisterBuiltins creates the prelude scope in table: the builtin types
// and the operator overloads that desugared expressions call.
func RegisterBuiltins(table *symbols.Table) symbols.ScopeID {
	prelude := table.NewScope(config.PreludeScopeName, symbols.ScopePrelude, symbols.NoScope, config.PreludeScopeName)

	// Register primitive types as metatypes so they can be named in signatures
	for _, b := range typesystem.Builtins {
		table.Declare(prelude, b.Name, typesystem.MetatypeOf(b), false)
	}

	numeric := []typesystem.Type{typesystem.Int, typesystem.Float}
	scalars := []typesystem.Type{typesystem.Bool, typesystem.Int, typesystem.Float, typesystem.String}

	binary := func(op string, operands []typesystem.Type, result func(typesystem.Type) typesystem.Type) {
		for _, t := range operands {
			table.Declare(prelude, op, binaryOp(t, result(t)), true)
		}
	}
	same := func(t typesystem.Type) typesystem.Type { return t }
	boolean := func(typesystem.Type) typesystem.Type { return typesystem.Bool }

	binary(config.AddOp, []typesystem.Type{typesystem.Int, typesystem.Float, typesystem.String}, same)
	binary(config.SubOp, numeric, same)
	binary(config.MulOp, numeric, same)
	binary(config.DivOp, numeric, same)
	for _, op := range []string{config.LtOp, config.LeOp, config.GtOp, config.GeOp} {
		binary(op, numeric, boolean)
	}
	for _, op := range []string{config.EqOp, config.NeOp} {
		binary(op, scalars, boolean)
	}
	binary(config.AndOp, []typesystem.Type{typesystem.Bool}, same)
	binary(config.OrOp, []typesystem.Type{typesystem.Bool}, same)

	// Unary minus shares its name with binary minus; arity tells them apart.
	for _, t := range numeric {
		table.Declare(prelude, config.SubOp, unaryOp(t, t), true)
	}
	table.Declare(prelude, config.NotOp, unaryOp(typesystem.Bool, typesystem.Bool), true)

	return prelude
}

func binaryOp(operand, result typesystem.Type) *typesystem.FunctionType {
	return typesystem.NewFunction(
		typesystem.NewTuple("", typesystem.Elem("", operand), typesystem.Elem("", operand)),
		result,
	)
}

func unaryOp(operand, result typesystem.Type) *typesystem.FunctionType {
	return typesystem.NewFunction(typesystem.NewTuple("", typesystem.Elem("", operand)), result)
}
