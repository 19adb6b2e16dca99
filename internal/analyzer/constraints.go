package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/typesystem"
)

// ConstraintKind represents the kind of constraint.
// The order matters: the solver pops higher kinds first.
type ConstraintKind int

const (
	ConstraintDisjunction ConstraintKind = iota // exactly one of Choices holds
	ConstraintConformance                       // T is a member/subcase of U
	ConstraintMember                            // U is the type of T.Member
	ConstraintEquality                          // T ~ U
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintDisjunction:
		return "disjunction"
	case ConstraintConformance:
		return "conformance"
	case ConstraintMember:
		return "member"
	case ConstraintEquality:
		return "equality"
	}
	return "constraint(" + strconv.Itoa(int(k)) + ")"
}

// PathKind is one step of a constraint location.
type PathKind int

const (
	PathSignature PathKind = iota
	PathBody
	PathCondition
	PathMatchPattern
	PathCallee
	PathTuple
	PathElementIndex
	PathElementLabel
	PathIdentifier
	PathUnionCase
	PathDomain
	PathCodomain
	PathParameter
)

var pathNames = [...]string{
	PathSignature:    "signature",
	PathBody:         "body",
	PathCondition:    "condition",
	PathMatchPattern: "pattern",
	PathCallee:       "callee",
	PathTuple:        "tuple",
	PathElementIndex: "element",
	PathElementLabel: "element",
	PathIdentifier:   "identifier",
	PathUnionCase:    "union case",
	PathDomain:       "domain",
	PathCodomain:     "codomain",
	PathParameter:    "parameter",
}

// PathElem is one step of a location path. Index or Label qualify the
// steps that need them (pattern i, element i, element label, parameter i).
type PathElem struct {
	Kind  PathKind
	Index int
	Label string
}

func (p PathElem) String() string {
	name := pathNames[p.Kind]
	switch p.Kind {
	case PathMatchPattern, PathElementIndex, PathParameter:
		return name + " " + strconv.Itoa(p.Index)
	case PathElementLabel:
		return name + " " + p.Label
	}
	return name
}

// Path element constructors
func Step(kind PathKind) PathElem    { return PathElem{Kind: kind} }
func MatchPattern(i int) PathElem    { return PathElem{Kind: PathMatchPattern, Index: i} }
func ElementIndex(i int) PathElem    { return PathElem{Kind: PathElementIndex, Index: i} }
func ElementLabel(l string) PathElem { return PathElem{Kind: PathElementLabel, Label: l} }
func Parameter(i int) PathElem       { return PathElem{Kind: PathParameter, Index: i} }
func accessorPath(m ast.Member) PathElem {
	if m.IsLabel() {
		return ElementLabel(m.Label)
	}
	return ElementIndex(m.Index)
}

// Location anchors a constraint: the node that produced it and the path
// inside that node. It only serves diagnostics.
type Location struct {
	Node ast.Node
	Path []PathElem
}

// LocationOf builds a location.
func LocationOf(node ast.Node, path ...PathElem) Location {
	return Location{Node: node, Path: path}
}

// Append returns a new location extended by path. The receiver is not
// modified.
func (l Location) Append(path ...PathElem) Location {
	p := make([]PathElem, 0, len(l.Path)+len(path))
	p = append(p, l.Path...)
	p = append(p, path...)
	return Location{Node: l.Node, Path: p}
}

// PathString joins the path steps with dots, e.g. "callee.domain.element 0".
func (l Location) PathString() string {
	parts := make([]string, len(l.Path))
	for i, p := range l.Path {
		parts[i] = p.String()
	}
	return strings.Join(parts, ".")
}

func (l Location) String() string {
	pos := "<unknown>"
	if l.Node != nil {
		pos = l.Node.GetToken().Pos()
	}
	if len(l.Path) == 0 {
		return pos
	}
	return pos + " " + l.PathString()
}

// Constraint is a typing obligation. Constraints are values: the solver
// never mutates one, it only derives new ones.
type Constraint struct {
	Kind     ConstraintKind
	T        typesystem.Type
	U        typesystem.Type
	Member   ast.Member   // ConstraintMember only
	Choices  []Constraint // ConstraintDisjunction only
	Location Location
}

// Equality requires t and u to be the same type.
func Equality(t, u typesystem.Type, at Location) Constraint {
	return Constraint{Kind: ConstraintEquality, T: t, U: u, Location: at}
}

// Conformance requires t to be u or one of u's cases.
func Conformance(t, u typesystem.Type, at Location) Constraint {
	return Constraint{Kind: ConstraintConformance, T: t, U: u, Location: at}
}

// MemberOf requires u to be the type of member m of t.
func MemberOf(t typesystem.Type, m ast.Member, u typesystem.Type, at Location) Constraint {
	return Constraint{Kind: ConstraintMember, T: t, U: u, Member: m, Location: at}
}

// OneOf requires exactly one of choices to hold.
func OneOf(choices []Constraint, at Location) Constraint {
	return Constraint{Kind: ConstraintDisjunction, Choices: choices, Location: at}
}

// Reify returns the constraint with every type reified through s.
func (c Constraint) Reify(s typesystem.Subst) Constraint {
	out := c
	if c.T != nil {
		out.T = s.Reify(c.T)
	}
	if c.U != nil {
		out.U = s.Reify(c.U)
	}
	if c.Choices != nil {
		out.Choices = make([]Constraint, len(c.Choices))
		for i, ch := range c.Choices {
			out.Choices[i] = ch.Reify(s)
		}
	}
	return out
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintEquality:
		return fmt.Sprintf("%s == %s", c.T, c.U)
	case ConstraintConformance:
		return fmt.Sprintf("%s <= %s", c.T, c.U)
	case ConstraintMember:
		return fmt.Sprintf("%s.%s == %s", c.T, c.Member, c.U)
	case ConstraintDisjunction:
		parts := make([]string, len(c.Choices))
		for i, ch := range c.Choices {
			parts[i] = ch.String()
		}
		return "(" + strings.Join(parts, ") or (") + ")"
	}
	return c.Kind.String()
}
