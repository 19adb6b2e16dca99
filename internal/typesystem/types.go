package typesystem

import (
	"fmt"
	"strings"

	"github.com/funvibe/alpine/internal/config"
	set "github.com/hashicorp/go-set/v3"
)

// Type is the interface for all types in Alpine.
//
// Composite types are pointers so that recursive algebraic types can be
// represented as cyclic graphs: a tuple type may (through a union) contain
// itself. Anything walking a type must therefore guard against cycles.
type Type interface {
	String() string
	typeNode()
}

// Builtin is one of the four scalar types. Only the package singletons
// below should exist.
type Builtin struct {
	Name string
}

var (
	Bool   = &Builtin{Name: config.BoolTypeName}
	Int    = &Builtin{Name: config.IntTypeName}
	Float  = &Builtin{Name: config.FloatTypeName}
	String = &Builtin{Name: config.StringTypeName}
)

// Builtins lists the builtin singletons in declaration order.
var Builtins = []*Builtin{Bool, Int, Float, String}

func (*Builtin) typeNode()        {}
func (t *Builtin) String() string { return t.Name }

// ErrorType marks a failed inference. Error is its only value.
type ErrorType struct{}

var Error = &ErrorType{}

func (*ErrorType) typeNode()      {}
func (*ErrorType) String() string { return config.ErrorTypeName }

// TypeVar is an inference variable. Its meaning lives in a Subst, never
// in the variable itself.
type TypeVar struct {
	ID int
}

func (TypeVar) typeNode()        {}
func (t TypeVar) String() string { return fmt.Sprintf("$%d", t.ID) }

// VarSource hands out type variables with monotonically increasing ids.
type VarSource struct {
	next int
}

// Fresh returns a variable whose id was never returned before.
func (s *VarSource) Fresh() TypeVar {
	v := TypeVar{ID: s.next}
	s.next++
	return v
}

// Count is the number of variables created so far.
func (s *VarSource) Count() int {
	return s.next
}

// Metatype is the type of a type: `Int` used as a type name has type
// Metatype{Int}.
type Metatype struct {
	Type Type
}

// MetatypeOf wraps t.
func MetatypeOf(t Type) *Metatype {
	return &Metatype{Type: t}
}

func (*Metatype) typeNode()        {}
func (t *Metatype) String() string { return newPrinter().print(t) }

// FunctionType maps a domain tuple to a codomain.
type FunctionType struct {
	Domain   *TupleType
	Codomain Type
}

// NewFunction builds a function type.
func NewFunction(domain *TupleType, codomain Type) *FunctionType {
	return &FunctionType{Domain: domain, Codomain: codomain}
}

func (*FunctionType) typeNode()        {}
func (t *FunctionType) String() string { return newPrinter().print(t) }

// TupleElem is one position of a tuple type. An empty Label means the
// position is unlabeled.
type TupleElem struct {
	Label string
	Type  Type
}

// TupleType is a (possibly labeled) product. `#succ(Nat)` is the tuple
// type labeled "succ" with one unlabeled element.
type TupleType struct {
	Label    string
	Elements []TupleElem
}

// NewTuple builds a tuple type.
func NewTuple(label string, elems ...TupleElem) *TupleType {
	return &TupleType{Label: label, Elements: elems}
}

// Elem is shorthand for building a TupleElem.
func Elem(label string, t Type) TupleElem {
	return TupleElem{Label: label, Type: t}
}

// Unit is the empty unlabeled tuple type.
func Unit() *TupleType {
	return &TupleType{}
}

func (*TupleType) typeNode()        {}
func (t *TupleType) String() string { return newPrinter().print(t) }

// ElementByLabel returns the first element labeled label.
func (t *TupleType) ElementByLabel(label string) (TupleElem, bool) {
	for _, e := range t.Elements {
		if e.Label == label {
			return e, true
		}
	}
	return TupleElem{}, false
}

// SameShape reports whether two tuple types have identical labels, arity
// and per-element labels.
func (t *TupleType) SameShape(u *TupleType) bool {
	if t.Label != u.Label || len(t.Elements) != len(u.Elements) {
		return false
	}
	for i := range t.Elements {
		if t.Elements[i].Label != u.Elements[i].Label {
			return false
		}
	}
	return true
}

// UnionType is an unordered set of cases.
type UnionType struct {
	Cases []Type
}

func (*UnionType) typeNode()        {}
func (t *UnionType) String() string { return newPrinter().print(t) }

// NewUnion creates a normalized union type.
// It flattens nested unions, removes structural duplicates and returns
// the only case directly when a single one remains.
func NewUnion(cases ...Type) Type {
	unique := make([]Type, 0, len(cases))
	add := func(t Type) {
		for _, u := range unique {
			if Equal(t, u) {
				return
			}
		}
		unique = append(unique, t)
	}
	for _, c := range cases {
		if u, ok := c.(*UnionType); ok {
			for _, inner := range u.Cases {
				add(inner)
			}
			continue
		}
		add(c)
	}
	if len(unique) == 1 {
		return unique[0]
	}
	return &UnionType{Cases: unique}
}

// printer serializes types. Composite types currently being printed are
// tracked so that cyclic types print "..." instead of recursing forever.
type printer struct {
	active *set.Set[Type]
}

func newPrinter() *printer {
	return &printer{active: set.New[Type](0)}
}

func (p *printer) print(t Type) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case *Builtin, *ErrorType, TypeVar:
		return t.String()
	case *Metatype:
		if !p.active.Insert(t) {
			return "..."
		}
		defer p.active.Remove(t)
		return p.print(t.Type) + ".metatype"
	case *FunctionType:
		if !p.active.Insert(t) {
			return "..."
		}
		defer p.active.Remove(t)
		return p.print(t.Domain) + " -> " + p.print(t.Codomain)
	case *TupleType:
		if !p.active.Insert(t) {
			return "..."
		}
		defer p.active.Remove(t)
		if t.Label == "" && len(t.Elements) == 0 {
			return "()"
		}
		var sb strings.Builder
		if t.Label != "" {
			sb.WriteString("#" + t.Label)
		}
		if len(t.Elements) > 0 || t.Label == "" {
			parts := make([]string, len(t.Elements))
			for i, e := range t.Elements {
				if e.Label != "" {
					parts[i] = e.Label + ": " + p.print(e.Type)
				} else {
					parts[i] = p.print(e.Type)
				}
			}
			sb.WriteString("(" + strings.Join(parts, ", ") + ")")
		}
		return sb.String()
	case *UnionType:
		if !p.active.Insert(t) {
			return "..."
		}
		defer p.active.Remove(t)
		parts := make([]string, len(t.Cases))
		for i, c := range t.Cases {
			parts[i] = p.print(c)
		}
		return "( " + strings.Join(parts, " or ") + " )"
	default:
		return fmt.Sprintf("%v", t)
	}
}
