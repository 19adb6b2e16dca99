package typesystem

import (
	set "github.com/hashicorp/go-set/v3"
)

// typePair represents a pair of types being compared for co-induction
type typePair struct {
	t1 Type
	t2 Type
}

// Equal reports whether t1 and t2 are structurally identical.
//
// Tuple types compare by label and element sequence, union types compare
// as sets of cases, variables compare by id. Cyclic types are compared
// co-inductively: a pair of composite types already under comparison on
// the current path is assumed equal.
func Equal(t1, t2 Type) bool {
	c := comparer{visited: set.New[typePair](0)}
	return c.equal(t1, t2)
}

type comparer struct {
	visited *set.Set[typePair]
}

func (c *comparer) equal(t1, t2 Type) bool {
	if t1 == t2 {
		return true
	}
	if t1 == nil || t2 == nil {
		return false
	}

	switch a := t1.(type) {
	case *Builtin:
		b, ok := t2.(*Builtin)
		return ok && a.Name == b.Name
	case *ErrorType:
		_, ok := t2.(*ErrorType)
		return ok
	case TypeVar:
		b, ok := t2.(TypeVar)
		return ok && a.ID == b.ID
	case *Metatype:
		b, ok := t2.(*Metatype)
		if !ok {
			return false
		}
		return c.assuming(t1, t2, func() bool {
			return c.equal(a.Type, b.Type)
		})
	case *FunctionType:
		b, ok := t2.(*FunctionType)
		if !ok {
			return false
		}
		return c.assuming(t1, t2, func() bool {
			return c.equal(a.Domain, b.Domain) && c.equal(a.Codomain, b.Codomain)
		})
	case *TupleType:
		b, ok := t2.(*TupleType)
		if !ok || !a.SameShape(b) {
			return false
		}
		return c.assuming(t1, t2, func() bool {
			for i := range a.Elements {
				if !c.equal(a.Elements[i].Type, b.Elements[i].Type) {
					return false
				}
			}
			return true
		})
	case *UnionType:
		b, ok := t2.(*UnionType)
		if !ok {
			return false
		}
		return c.assuming(t1, t2, func() bool {
			return c.covers(a.Cases, b.Cases) && c.covers(b.Cases, a.Cases)
		})
	}
	return false
}

// assuming runs cmp with (t1, t2) assumed equal. The assumption only
// holds on the current comparison path.
func (c *comparer) assuming(t1, t2 Type, cmp func() bool) bool {
	p := typePair{t1: t1, t2: t2}
	if !c.visited.Insert(p) {
		return true
	}
	defer c.visited.Remove(p)
	return cmp()
}

// covers reports whether every case of xs has an equal case in ys.
func (c *comparer) covers(xs, ys []Type) bool {
	for _, x := range xs {
		found := false
		for _, y := range ys {
			if c.equal(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Contains reports whether u has a case equal to t.
func (u *UnionType) Contains(t Type) bool {
	for _, c := range u.Cases {
		if Equal(c, t) {
			return true
		}
	}
	return false
}
