package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// natType builds `#zero or #succ(Nat)` as a cyclic graph.
func natType() *UnionType {
	nat := &UnionType{}
	succ := NewTuple("succ", Elem("", nat))
	nat.Cases = []Type{NewTuple("zero"), succ}
	return nat
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"builtin", Int, "Int"},
		{"error", Error, "<error type>"},
		{"var", TypeVar{ID: 7}, "$7"},
		{"metatype", MetatypeOf(Bool), "Bool.metatype"},
		{"unit", Unit(), "()"},
		{"labeled empty", NewTuple("zero"), "#zero"},
		{"tuple", NewTuple("", Elem("", Int), Elem("y", Float)), "(Int, y: Float)"},
		{"labeled tuple", NewTuple("pair", Elem("", Int), Elem("", String)), "#pair(Int, String)"},
		{"function", NewFunction(NewTuple("", Elem("", Int), Elem("", Int)), Bool), "(Int, Int) -> Bool"},
		{"union", &UnionType{Cases: []Type{Int, Bool}}, "( Int or Bool )"},
		{"cyclic", natType(), "( #zero or #succ(...) )"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestCyclicTupleString(t *testing.T) {
	list := NewTuple("cons", Elem("head", Int))
	list.Elements = append(list.Elements, Elem("tail", list))
	assert.Equal(t, "#cons(head: Int, tail: ...)", list.String())
}

// selfReturning builds `F = () -> F`.
func selfReturning() *FunctionType {
	f := NewFunction(Unit(), nil)
	f.Codomain = f
	return f
}

func TestCyclicFunction(t *testing.T) {
	f := selfReturning()
	assert.Equal(t, "() -> ...", f.String())

	g := NewFunction(NewTuple("", Elem("", f)), f)
	assert.Equal(t, "(() -> ...) -> () -> ...", g.String())

	assert.True(t, Equal(selfReturning(), selfReturning()))
	assert.False(t, Equal(selfReturning(), NewFunction(Unit(), NewFunction(Unit(), Int))))
}

func TestCyclicMetatype(t *testing.T) {
	m1, m2 := &Metatype{}, &Metatype{}
	m1.Type, m2.Type = m1, m2
	assert.True(t, Equal(m1, m2))
	assert.False(t, Equal(m1, MetatypeOf(Int)))
	assert.Contains(t, m1.String(), "...")
}

func TestVarSourceNeverReusesIds(t *testing.T) {
	var src VarSource
	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		v := src.Fresh()
		require.False(t, seen[v.ID], "id %d reused", v.ID)
		seen[v.ID] = true
	}
	assert.Equal(t, 100, src.Count())
}

func TestEqual(t *testing.T) {
	pair := func(a, b string) *TupleType {
		return NewTuple("", Elem(a, Int), Elem(b, Int))
	}
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same builtin", Int, Int, true},
		{"different builtin", Int, Bool, false},
		{"error", Error, Error, true},
		{"vars by id", TypeVar{ID: 1}, TypeVar{ID: 1}, true},
		{"different vars", TypeVar{ID: 1}, TypeVar{ID: 2}, false},
		{"metatypes", MetatypeOf(Int), MetatypeOf(Int), true},
		{"tuples", pair("x", "y"), pair("x", "y"), true},
		{"tuple element labels", pair("x", "y"), pair("x", "z"), false},
		{"tuple labels", NewTuple("a"), NewTuple("b"), false},
		{"tuple arity", NewTuple("", Elem("", Int)), pair("", ""), false},
		{"functions", NewFunction(pair("", ""), Int), NewFunction(pair("", ""), Int), true},
		{"function codomain", NewFunction(Unit(), Int), NewFunction(Unit(), Bool), false},
		{"union order", &UnionType{Cases: []Type{Int, Bool}}, &UnionType{Cases: []Type{Bool, Int}}, true},
		{"union cases", &UnionType{Cases: []Type{Int, Bool}}, &UnionType{Cases: []Type{Int, Float}}, false},
		{"cyclic", natType(), natType(), true},
		{"union vs case", &UnionType{Cases: []Type{Int, Bool}}, Int, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestNewUnion(t *testing.T) {
	assert.Same(t, Int, NewUnion(Int, Int))

	u, ok := NewUnion(Int, Bool, Int).(*UnionType)
	require.True(t, ok)
	assert.Len(t, u.Cases, 2)

	nested, ok := NewUnion(Float, &UnionType{Cases: []Type{Int, Bool}}, Bool).(*UnionType)
	require.True(t, ok)
	assert.Len(t, nested.Cases, 3)
	assert.True(t, nested.Contains(Int))
	assert.True(t, nested.Contains(Float))

	dup, ok := NewUnion(NewTuple("a", Elem("", Int)), NewTuple("a", Elem("", Int)), Bool).(*UnionType)
	require.True(t, ok)
	assert.Len(t, dup.Cases, 2)
}

func TestSameShape(t *testing.T) {
	a := NewTuple("", Elem("x", Int), Elem("", Bool))
	assert.True(t, a.SameShape(NewTuple("", Elem("x", String), Elem("", Int))))
	assert.False(t, a.SameShape(NewTuple("p", Elem("x", Int), Elem("", Bool))))
	assert.False(t, a.SameShape(NewTuple("", Elem("x", Int))))

	e, ok := a.ElementByLabel("x")
	require.True(t, ok)
	assert.Same(t, Int, e.Type)
	_, ok = a.ElementByLabel("y")
	assert.False(t, ok)
}
