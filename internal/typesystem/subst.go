package typesystem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	set "github.com/hashicorp/go-set/v3"
)

// Subst maps type variable ids to what is currently known about them.
// A binding may itself mention variables; Lookup and Reify resolve them.
type Subst map[int]Type

// NewSubst returns an empty table.
func NewSubst() Subst {
	return make(Subst)
}

// Bind records t as the substitution for v. Binding a variable to itself
// is a no-op.
func (s Subst) Bind(v TypeVar, t Type) {
	if tv, ok := t.(TypeVar); ok && tv.ID == v.ID {
		return
	}
	s[v.ID] = t
}

// Lookup follows variable-to-variable chains and returns the first type
// that is not a bound variable. Non-variable types are returned as is.
func (s Subst) Lookup(t Type) Type {
	for steps := 0; steps <= len(s); steps++ {
		v, ok := t.(TypeVar)
		if !ok {
			return t
		}
		next, ok := s[v.ID]
		if !ok {
			return t
		}
		t = next
	}
	// Only a variable cycle gets here; the last variable stands for it.
	return t
}

// Clone returns an independent copy of the table. Bound types are shared
// since types are never mutated once built.
func (s Subst) Clone() Subst {
	c := make(Subst, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Len returns the number of bound variables.
func (s Subst) Len() int { return len(s) }

// Vars returns the bound variables sorted by id.
func (s Subst) Vars() []TypeVar {
	vars := make([]TypeVar, 0, len(s))
	for id := range s {
		vars = append(vars, TypeVar{ID: id})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })
	return vars
}

// Reify replaces every variable in t by its resolution, recursively.
// Unbound variables become Error. Cyclic bindings produce cyclic types.
func (s Subst) Reify(t Type) Type {
	return newReifier(s).reify(t)
}

// Reified returns a table where every binding is reified. Bindings
// sharing structure keep sharing it.
func (s Subst) Reified() Subst {
	r := newReifier(s)
	out := make(Subst, len(s))
	for id, t := range s {
		out[id] = r.reify(t)
	}
	return out
}

// Equivalent reports whether both tables resolve every variable either
// of them binds to structurally equal types. Unbound variables resolve
// to Error, so `$1 -> $2` and `$2 -> $1` are equivalent.
func (s Subst) Equivalent(other Subst) bool {
	ids := set.New[int](len(s) + len(other))
	for id := range s {
		ids.Insert(id)
	}
	for id := range other {
		ids.Insert(id)
	}
	for id := range ids.Items() {
		v := TypeVar{ID: id}
		if !Equal(s.Reify(v), other.Reify(v)) {
			return false
		}
	}
	return true
}

func (s Subst) String() string {
	parts := make([]string, 0, len(s))
	for _, v := range s.Vars() {
		parts = append(parts, fmt.Sprintf("%s -> %s", v, s[v.ID]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// reifier memoizes the reified counterpart of every composite type it
// visits. A composite is registered before its children are reified so
// a cycle back to it reuses the value under construction.
type reifier struct {
	s          Subst
	done       map[Type]Type
	building   *set.Set[Type]
	referenced *set.Set[Type]
}

func newReifier(s Subst) *reifier {
	return &reifier{
		s:          s,
		done:       make(map[Type]Type),
		building:   set.New[Type](0),
		referenced: set.New[Type](0),
	}
}

func (r *reifier) reify(t Type) Type {
	t = r.s.Lookup(t)
	switch t.(type) {
	case nil:
		return Error
	case TypeVar:
		return Error
	case *Builtin, *ErrorType:
		return t
	}

	if out, ok := r.done[t]; ok {
		r.referenced.Insert(out)
		return out
	}

	switch x := t.(type) {
	case *Metatype:
		m := &Metatype{}
		r.done[t] = m
		m.Type = r.reify(x.Type)
		return m

	case *FunctionType:
		f := &FunctionType{}
		r.done[t] = f
		f.Domain = r.reify(x.Domain).(*TupleType)
		f.Codomain = r.reify(x.Codomain)
		return f

	case *TupleType:
		tt := &TupleType{Label: x.Label, Elements: make([]TupleElem, len(x.Elements))}
		r.done[t] = tt
		for i, e := range x.Elements {
			tt.Elements[i] = TupleElem{Label: e.Label, Type: r.reify(e.Type)}
		}
		return tt

	case *UnionType:
		u := &UnionType{}
		r.done[t] = u
		r.building.Insert(u)
		for _, c := range x.Cases {
			rc := r.reify(c)
			if rc == Type(u) {
				// `T = A or T` adds nothing to T.
				continue
			}
			if inner, ok := rc.(*UnionType); ok && !r.building.Contains(inner) {
				for _, ic := range inner.Cases {
					u.addCase(ic)
				}
				continue
			}
			u.addCase(rc)
		}
		r.building.Remove(u)
		if len(u.Cases) == 1 && !r.referenced.Contains(u) {
			r.done[t] = u.Cases[0]
			return u.Cases[0]
		}
		return u
	}
	panic("reify: unreachable\n" + spew.Sdump(t))
}

func (u *UnionType) addCase(t Type) {
	if t == Type(u) || u.Contains(t) {
		return
	}
	u.Cases = append(u.Cases, t)
}
