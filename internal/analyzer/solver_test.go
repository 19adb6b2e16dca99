package analyzer

import (
	"context"
	"testing"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/typesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nowhere = Location{}

func tvar(id int) typesystem.TypeVar { return typesystem.TypeVar{ID: id} }

func fn(codomain typesystem.Type, params ...typesystem.Type) *typesystem.FunctionType {
	elems := make([]typesystem.TupleElem, len(params))
	for i, p := range params {
		elems[i] = typesystem.Elem("", p)
	}
	return typesystem.NewFunction(typesystem.NewTuple("", elems...), codomain)
}

func solve(t *testing.T, opts []SolverOption, constraints ...Constraint) Result {
	t.Helper()
	return NewSolver(constraints, nil, opts...).Solve(context.Background())
}

func requireSolved(t *testing.T, constraints ...Constraint) typesystem.Subst {
	t.Helper()
	r := solve(t, nil, constraints...)
	require.True(t, r.OK(), "unexpected failures: %v", r.Failures)
	return r.Solution
}

func requireFailure(t *testing.T, kind FailureKind, constraints ...Constraint) Result {
	t.Helper()
	r := solve(t, nil, constraints...)
	require.False(t, r.OK(), "expected a %s failure, solved to %v", kind, r.Solution)
	for _, f := range r.Failures {
		if f.Kind == kind {
			return r
		}
	}
	t.Fatalf("expected a %s failure, got %v", kind, r.Failures)
	return r
}

func TestSolverVariableChain(t *testing.T) {
	v1, v2 := tvar(1), tvar(2)
	s := requireSolved(t,
		Equality(v1, v2, nowhere),
		Equality(v2, typesystem.Int, nowhere),
	)
	assert.Same(t, typesystem.Int, s.Reify(v1))
	assert.Same(t, typesystem.Int, s.Reify(v2))
}

func TestSolverConformanceToUnion(t *testing.T) {
	v1 := tvar(1)
	intOrBool := typesystem.NewUnion(typesystem.Int, typesystem.Bool)

	s := requireSolved(t,
		Conformance(v1, intOrBool, nowhere),
		Equality(v1, typesystem.Bool, nowhere),
	)
	assert.Same(t, typesystem.Bool, s.Reify(v1))

	requireFailure(t, TypeMismatch,
		Conformance(v1, intOrBool, nowhere),
		Equality(v1, typesystem.String, nowhere),
	)
}

func TestSolverConformancePolicy(t *testing.T) {
	v1, v2 := tvar(1), tvar(2)
	intOrBool := typesystem.NewUnion(typesystem.Int, typesystem.Bool)

	// An unknown conforming to a known type becomes that type, even when
	// the known type is a union.
	s := requireSolved(t, Conformance(v1, intOrBool, nowhere))
	assert.True(t, typesystem.Equal(intOrBool, s.Reify(v1)))

	s = requireSolved(t, Conformance(typesystem.Int, v1, nowhere))
	assert.Same(t, typesystem.Int, s.Reify(v1))

	// Two unknowns wait for more information and, failing that, the left
	// one is bound to the right one.
	s = requireSolved(t, Conformance(v1, v2, nowhere))
	assert.Equal(t, v2, s.Lookup(v1))

	s = requireSolved(t,
		Conformance(v1, v2, nowhere),
		Equality(v2, typesystem.Float, nowhere),
	)
	assert.Same(t, typesystem.Float, s.Reify(v1))
}

func TestSolverMember(t *testing.T) {
	owner := typesystem.NewTuple("",
		typesystem.Elem("x", typesystem.Int),
		typesystem.Elem("y", typesystem.Float),
	)
	v1, v2 := tvar(1), tvar(2)

	s := requireSolved(t,
		Equality(v1, owner, nowhere),
		MemberOf(v1, ast.ByLabel("x"), v2, nowhere),
	)
	assert.Same(t, typesystem.Int, s.Reify(v2))

	s = requireSolved(t,
		Equality(v1, owner, nowhere),
		MemberOf(v1, ast.ByIndex(1), v2, nowhere),
	)
	assert.Same(t, typesystem.Float, s.Reify(v2))

	requireFailure(t, TypeMismatch,
		Equality(v1, owner, nowhere),
		MemberOf(v1, ast.ByLabel("z"), v2, nowhere),
	)
	requireFailure(t, TypeMismatch,
		Equality(v1, owner, nowhere),
		MemberOf(v1, ast.ByIndex(2), v2, nowhere),
	)
	requireFailure(t, TypeMismatch,
		Equality(v1, typesystem.Int, nowhere),
		MemberOf(v1, ast.ByLabel("x"), v2, nowhere),
	)
}

func TestSolverMemberWaitsForOwner(t *testing.T) {
	v1, v2, v3 := tvar(1), tvar(2), tvar(3)
	owner := typesystem.NewTuple("", typesystem.Elem("x", typesystem.Bool))

	// The member constraint is popped before the conformance that
	// determines its owner, so it has to be requeued once.
	s := requireSolved(t,
		Equality(v3, owner, nowhere),
		MemberOf(v1, ast.ByLabel("x"), v2, nowhere),
		Conformance(v3, v1, nowhere),
	)
	assert.Same(t, typesystem.Bool, s.Reify(v2))
}

func TestSolverStalled(t *testing.T) {
	v1, v2 := tvar(1), tvar(2)
	r := requireFailure(t, Stalled, MemberOf(v1, ast.ByLabel("x"), v2, nowhere))
	require.Len(t, r.Failures, 1)
	assert.Equal(t, ConstraintMember, r.Failures[0].Constraint.Kind)
}

func TestSolverStructural(t *testing.T) {
	v1, v2 := tvar(1), tvar(2)

	s := requireSolved(t, Equality(fn(v2, v1), fn(typesystem.Bool, typesystem.Int), nowhere))
	assert.Same(t, typesystem.Int, s.Reify(v1))
	assert.Same(t, typesystem.Bool, s.Reify(v2))

	s = requireSolved(t, Equality(typesystem.MetatypeOf(v1), typesystem.MetatypeOf(typesystem.String), nowhere))
	assert.Same(t, typesystem.String, s.Reify(v1))

	pair := func(label string, a, b typesystem.Type) *typesystem.TupleType {
		return typesystem.NewTuple(label, typesystem.Elem("a", a), typesystem.Elem("b", b))
	}
	requireFailure(t, TypeMismatch, Equality(pair("p", v1, v2), pair("q", typesystem.Int, typesystem.Int), nowhere))
	requireFailure(t, TypeMismatch, Equality(
		pair("", v1, v2),
		typesystem.NewTuple("", typesystem.Elem("a", typesystem.Int)),
		nowhere))
	requireFailure(t, TypeMismatch, Equality(
		pair("", v1, v2),
		typesystem.NewTuple("", typesystem.Elem("a", typesystem.Int), typesystem.Elem("c", typesystem.Int)),
		nowhere))
	requireFailure(t, TypeMismatch, Equality(fn(typesystem.Int), typesystem.Int, nowhere))
}

func TestSolverUnionOnTheLeft(t *testing.T) {
	intOrBool := typesystem.NewUnion(typesystem.Int, typesystem.Bool)
	intBoolString := typesystem.NewUnion(typesystem.Int, typesystem.Bool, typesystem.String)

	requireSolved(t, Conformance(intOrBool, intBoolString, nowhere))
	requireFailure(t, TypeMismatch, Conformance(intBoolString, intOrBool, nowhere))

	// Equality also requires every case on the right to be on the left.
	requireFailure(t, TypeMismatch, Equality(intOrBool, intBoolString, nowhere))
	requireSolved(t, Equality(intOrBool, typesystem.NewUnion(typesystem.Bool, typesystem.Int), nowhere))

	requireFailure(t, TypeMismatch, Conformance(intOrBool, typesystem.Int, nowhere))
}

func TestSolverOverloadSelection(t *testing.T) {
	callee, arg, result := tvar(1), tvar(2), tvar(3)
	overloads := OneOf([]Constraint{
		Equality(callee, fn(typesystem.Int, typesystem.Int), nowhere),
		Equality(callee, fn(typesystem.Bool, typesystem.Bool), nowhere),
	}, nowhere)

	s := requireSolved(t,
		overloads,
		Conformance(typesystem.Int, arg, nowhere),
		Equality(callee, fn(result, arg), nowhere),
	)
	assert.Same(t, typesystem.Int, s.Reify(result))

	r := requireFailure(t, TypeMismatch,
		overloads,
		Conformance(typesystem.String, arg, nowhere),
		Equality(callee, fn(result, arg), nowhere),
	)
	assert.Len(t, r.Failures, 2, "every branch reports its failure")
}

func TestSolverDisjunctionDeduplication(t *testing.T) {
	callee, result := tvar(1), tvar(2)

	// Two overloads with the same type are one solution.
	s := requireSolved(t,
		OneOf([]Constraint{
			Equality(callee, fn(typesystem.Int, typesystem.Int), nowhere),
			Equality(callee, fn(typesystem.Int, typesystem.Int), nowhere),
		}, nowhere),
		Equality(callee, fn(result, typesystem.Int), nowhere),
	)
	assert.Same(t, typesystem.Int, s.Reify(result))

	// Overloads differing in their result type are not.
	r := requireFailure(t, AmbiguousExpression,
		OneOf([]Constraint{
			Equality(callee, fn(typesystem.Int, typesystem.Int), nowhere),
			Equality(callee, fn(typesystem.Bool, typesystem.Int), nowhere),
		}, nowhere),
		Equality(callee, fn(result, typesystem.Int), nowhere),
	)
	assert.Len(t, r.Failures, 1)

	// Binding the same pair of variables in either direction is one solution.
	a, b := tvar(3), tvar(4)
	requireSolved(t, OneOf([]Constraint{
		Equality(a, b, nowhere),
		Equality(b, a, nowhere),
	}, nowhere))
}

func TestSolverAssumptions(t *testing.T) {
	v1, v2 := tvar(1), tvar(2)
	assumptions := typesystem.Subst{1: typesystem.Int}

	r := NewSolver([]Constraint{Equality(v2, v1, nowhere)}, assumptions).Solve(context.Background())
	require.True(t, r.OK())
	assert.Same(t, typesystem.Int, r.Solution.Reify(v2))
	assert.Equal(t, 1, assumptions.Len(), "assumptions are not modified")

	r = NewSolver([]Constraint{Equality(v1, typesystem.Bool, nowhere)}, assumptions).Solve(context.Background())
	assert.False(t, r.OK())
}

func TestSolverIdempotent(t *testing.T) {
	v1, v2, v3 := tvar(1), tvar(2), tvar(3)
	constraints := []Constraint{
		Equality(v1, fn(v2, v3), nowhere),
		Conformance(typesystem.Float, v3, nowhere),
		OneOf([]Constraint{
			Equality(v2, typesystem.String, nowhere),
			Equality(v3, typesystem.String, nowhere),
		}, nowhere),
	}
	first := NewSolver(constraints, nil).Solve(context.Background())
	second := NewSolver(constraints, nil).Solve(context.Background())
	require.True(t, first.OK(), "%v", first.Failures)
	require.True(t, second.OK(), "%v", second.Failures)
	assert.True(t, first.Solution.Reified().Equivalent(second.Solution.Reified()))

	// Solving with the solution as assumptions adds nothing.
	third := NewSolver(constraints, first.Solution).Solve(context.Background())
	require.True(t, third.OK())
	assert.True(t, first.Solution.Reified().Equivalent(third.Solution.Reified()))
}

func TestSolverTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewSolver([]Constraint{Equality(tvar(1), typesystem.Int, nowhere)}, nil).Solve(ctx)
	require.Len(t, r.Failures, 1)
	assert.Equal(t, Timeout, r.Failures[0].Kind)

	// An empty worklist never looks at the deadline.
	r = NewSolver(nil, nil).Solve(ctx)
	assert.True(t, r.OK())
}

func TestSolverParallelDisjunctions(t *testing.T) {
	callee, arg, result := tvar(1), tvar(2), tvar(3)
	overloads := func() Constraint {
		return OneOf([]Constraint{
			Equality(callee, fn(typesystem.Int, typesystem.Int), nowhere),
			Equality(callee, fn(typesystem.Float, typesystem.Float), nowhere),
			Equality(callee, fn(typesystem.String, typesystem.String), nowhere),
			Equality(callee, fn(typesystem.Bool, typesystem.Bool), nowhere),
		}, nowhere)
	}
	constraints := []Constraint{
		overloads(),
		Conformance(typesystem.Float, arg, nowhere),
		Equality(callee, fn(result, arg), nowhere),
	}

	sequential := NewSolver(constraints, nil).Solve(context.Background())
	require.True(t, sequential.OK())
	for i := 0; i < 20; i++ {
		parallel := NewSolver(constraints, nil, WithParallelDisjunctions(2)).Solve(context.Background())
		require.True(t, parallel.OK())
		assert.True(t, sequential.Solution.Reified().Equivalent(parallel.Solution.Reified()))
	}

	failing := []Constraint{
		overloads(),
		Conformance(typesystem.MetatypeOf(typesystem.Int), arg, nowhere),
		Equality(callee, fn(result, arg), nowhere),
	}
	want := NewSolver(failing, nil).Solve(context.Background())
	require.False(t, want.OK())
	for i := 0; i < 20; i++ {
		got := NewSolver(failing, nil, WithParallelDisjunctions(0)).Solve(context.Background())
		require.Len(t, got.Failures, len(want.Failures))
		for k := range want.Failures {
			assert.Equal(t, want.Failures[k].String(), got.Failures[k].String(), "failures keep branch order")
		}
	}
}

func TestSolverRecursiveUnion(t *testing.T) {
	// Nat = #zero or #succ(Nat)
	nat := tvar(1)
	zero := typesystem.NewTuple("zero")
	natDef := typesystem.NewUnion(zero, typesystem.NewTuple("succ", typesystem.Elem("", nat)))
	two := typesystem.NewTuple("succ", typesystem.Elem("", typesystem.NewTuple("succ", typesystem.Elem("", zero))))

	requireSolved(t,
		Equality(nat, natDef, nowhere),
		Conformance(two, nat, nowhere),
	)
	requireFailure(t, TypeMismatch,
		Equality(nat, natDef, nowhere),
		Conformance(typesystem.NewTuple("succ", typesystem.Elem("", typesystem.Int)), nat, nowhere),
	)
}

func TestConstraintString(t *testing.T) {
	v1 := tvar(1)
	assert.Equal(t, "$1 == Int", Equality(v1, typesystem.Int, nowhere).String())
	assert.Equal(t, "$1 <= Bool", Conformance(v1, typesystem.Bool, nowhere).String())
	assert.Equal(t, "$1.x == Int", MemberOf(v1, ast.ByLabel("x"), typesystem.Int, nowhere).String())
	assert.Equal(t, "($1 == Int) or ($1 == Bool)", OneOf([]Constraint{
		Equality(v1, typesystem.Int, nowhere),
		Equality(v1, typesystem.Bool, nowhere),
	}, nowhere).String())

	loc := LocationOf(ast.At(ast.NewIdent("f"), "m.alp.yaml", 3, 7), Step(PathCallee))
	loc2 := loc.Append(Step(PathDomain), ElementIndex(0))
	assert.Equal(t, "m.alp.yaml:3:7 callee", loc.String(), "Append does not modify the receiver")
	assert.Equal(t, "callee.domain.element 0", loc2.PathString())
}
