package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/funvibe/alpine/internal/config"
	"github.com/funvibe/alpine/internal/typesystem"
	set "github.com/hashicorp/go-set/v3"
	"golang.org/x/sync/errgroup"
)

// FailureKind tells why a constraint could not be satisfied.
type FailureKind int

const (
	TypeMismatch FailureKind = iota
	AmbiguousExpression
	Timeout
	Stalled
)

func (k FailureKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case AmbiguousExpression:
		return "ambiguous expression"
	case Timeout:
		return "timeout"
	case Stalled:
		return "stalled"
	}
	return fmt.Sprintf("failure(%d)", int(k))
}

// Failure is an unsatisfiable constraint, reified against the table the
// solver had when it gave up.
type Failure struct {
	Constraint Constraint
	Kind       FailureKind
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Constraint)
}

// Result is the outcome of a solve. Solution is only meaningful when
// there are no failures.
type Result struct {
	Solution typesystem.Subst
	Failures []Failure
}

// OK reports whether every constraint was satisfied.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithLogger traces the solve at debug level.
func WithLogger(logger *slog.Logger) SolverOption {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithParallelDisjunctions explores the branches of top-level
// disjunctions concurrently, at most max at a time.
func WithParallelDisjunctions(max int) SolverOption {
	return func(s *Solver) {
		s.parallel = true
		s.maxParallel = max
		if s.maxParallel <= 0 {
			s.maxParallel = config.DefaultMaxParallel
		}
	}
}

// WithSettings applies the solver section of the configuration.
func WithSettings(settings config.SolverSettings) SolverOption {
	return func(s *Solver) {
		if settings.ParallelDisjunctions {
			WithParallelDisjunctions(settings.MaxParallel)(s)
		}
	}
}

// Solver reduces a list of constraints to a substitution table.
//
// The worklist is a stack: derived constraints are pushed on top and
// attacked before older ones. Constraints that cannot make progress yet
// are requeued at the bottom.
type Solver struct {
	work  []Constraint
	subst typesystem.Subst

	logger      *slog.Logger
	parallel    bool
	maxParallel int
	depth       int

	// consecutive requeues since the last step that made progress
	idle int
}

// NewSolver creates a solver over a copy of constraints, seeded with
// assumptions. Equalities are attacked first and disjunctions last.
func NewSolver(constraints []Constraint, assumptions typesystem.Subst, opts ...SolverOption) *Solver {
	s := &Solver{
		work:   make([]Constraint, len(constraints)),
		logger: slog.New(slog.DiscardHandler),
	}
	copy(s.work, constraints)
	sort.SliceStable(s.work, func(i, j int) bool { return s.work[i].Kind < s.work[j].Kind })

	if assumptions != nil {
		s.subst = assumptions.Clone()
	} else {
		s.subst = typesystem.NewSubst()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve runs the solver to completion. The deadline of ctx, if any, is
// checked between two steps.
func (s *Solver) Solve(ctx context.Context) Result {
	for len(s.work) > 0 {
		if s.idle > 0 && s.idle >= len(s.work) {
			if !s.unstall() {
				return s.fail(s.work[len(s.work)-1], Stalled)
			}
			continue
		}

		c := s.pop()
		if ctx.Err() != nil {
			return s.fail(c, Timeout)
		}
		s.logger.Debug("solver: pop", "depth", s.depth, "constraint", c, "pending", len(s.work))

		switch c.Kind {
		case ConstraintEquality, ConstraintConformance:
			if !s.match(c) {
				return s.fail(c, TypeMismatch)
			}
		case ConstraintMember:
			if !s.member(c) {
				return s.fail(c, TypeMismatch)
			}
		case ConstraintDisjunction:
			// Every branch solves the rest of the worklist, so the
			// disjunction decides the outcome of this solve.
			return s.disjunction(ctx, c)
		default:
			panic("solver: unknown constraint\n" + spew.Sdump(c))
		}
	}
	return Result{Solution: s.subst}
}

func (s *Solver) pop() Constraint {
	c := s.work[len(s.work)-1]
	s.work = s.work[:len(s.work)-1]
	return c
}

// push schedules a derived constraint; it is the next one attacked.
func (s *Solver) push(c Constraint) {
	s.idle = 0
	s.work = append(s.work, c)
}

// enqueue schedules c after everything already pending.
func (s *Solver) enqueue(c Constraint) {
	s.work = append(s.work, Constraint{})
	copy(s.work[1:], s.work)
	s.work[0] = c
}

func (s *Solver) requeue(c Constraint) {
	s.logger.Debug("solver: requeue", "depth", s.depth, "constraint", c)
	s.idle++
	s.enqueue(c)
}

func (s *Solver) bind(v typesystem.TypeVar, t typesystem.Type) {
	s.logger.Debug("solver: bind", "depth", s.depth, "var", v, "type", t)
	s.idle = 0
	s.subst.Bind(v, t)
}

func (s *Solver) fail(c Constraint, kind FailureKind) Result {
	s.logger.Debug("solver: fail", "depth", s.depth, "kind", kind, "constraint", c)
	return Result{Failures: []Failure{{Constraint: c.Reify(s.subst), Kind: kind}}}
}

// unstall is called when every pending constraint was requeued without
// any progress in between. A conformance between two unknowns is then
// settled by binding its left side to its right side.
func (s *Solver) unstall() bool {
	for i := len(s.work) - 1; i >= 0; i-- {
		c := s.work[i]
		if c.Kind != ConstraintConformance {
			continue
		}
		t, ok1 := s.subst.Lookup(c.T).(typesystem.TypeVar)
		u, ok2 := s.subst.Lookup(c.U).(typesystem.TypeVar)
		if !ok1 || !ok2 {
			continue
		}
		s.work = append(s.work[:i], s.work[i+1:]...)
		s.bind(t, u)
		return true
	}
	return false
}

// match handles equality and conformance. Derived constraints keep the
// kind of c unless stated otherwise.
func (s *Solver) match(c Constraint) bool {
	a := s.subst.Lookup(c.T)
	b := s.subst.Lookup(c.U)
	if typesystem.Equal(a, b) {
		s.idle = 0
		return true
	}

	av, aVar := a.(typesystem.TypeVar)
	bv, bVar := b.(typesystem.TypeVar)
	switch {
	case aVar && bVar && c.Kind == ConstraintConformance:
		// Nothing tells yet which of the two is the wider type.
		s.requeue(c)
		return true
	case aVar:
		s.bind(av, b)
		return true
	case bVar:
		s.bind(bv, a)
		return true
	}

	if au, ok := a.(*typesystem.UnionType); ok {
		at := c.Location.Append(Step(PathUnionCase))
		if bu, ok := b.(*typesystem.UnionType); ok {
			for _, t := range s.cases(au) {
				s.push(Conformance(t, bu, at))
			}
			if c.Kind == ConstraintEquality {
				for _, u := range s.cases(bu) {
					s.push(Conformance(u, au, at))
				}
			}
			return true
		}
		for _, t := range s.cases(au) {
			s.push(Constraint{Kind: c.Kind, T: t, U: b, Location: at})
		}
		return true
	}

	if bu, ok := b.(*typesystem.UnionType); ok {
		cases := s.cases(bu)
		for _, u := range cases {
			if typesystem.Equal(a, u) {
				s.idle = 0
				return true
			}
		}
		at := c.Location.Append(Step(PathUnionCase))
		choices := make([]Constraint, len(cases))
		for i, u := range cases {
			choices[i] = Conformance(a, u, at)
		}
		s.idle = 0
		s.enqueue(OneOf(choices, c.Location))
		return true
	}

	switch x := a.(type) {
	case *typesystem.FunctionType:
		y, ok := b.(*typesystem.FunctionType)
		if !ok {
			return false
		}
		s.push(Constraint{Kind: c.Kind, T: x.Domain, U: y.Domain, Location: c.Location.Append(Step(PathDomain))})
		s.push(Constraint{Kind: c.Kind, T: x.Codomain, U: y.Codomain, Location: c.Location.Append(Step(PathCodomain))})
		return true

	case *typesystem.TupleType:
		y, ok := b.(*typesystem.TupleType)
		if !ok || !x.SameShape(y) {
			return false
		}
		for i := range x.Elements {
			s.push(Constraint{Kind: c.Kind, T: x.Elements[i].Type, U: y.Elements[i].Type, Location: c.Location.Append(ElementIndex(i))})
		}
		s.idle = 0
		return true

	case *typesystem.Metatype:
		y, ok := b.(*typesystem.Metatype)
		if !ok {
			return false
		}
		s.push(Constraint{Kind: c.Kind, T: x.Type, U: y.Type, Location: c.Location})
		return true
	}
	return false
}

// cases resolves the cases of u through the table, dropping duplicates
// and flattening cases that resolve to unions themselves.
func (s *Solver) cases(u *typesystem.UnionType) []typesystem.Type {
	var out []typesystem.Type
	seen := set.From([]*typesystem.UnionType{u})
	var add func(t typesystem.Type)
	add = func(t typesystem.Type) {
		t = s.subst.Lookup(t)
		if inner, ok := t.(*typesystem.UnionType); ok {
			if seen.Insert(inner) {
				for _, c := range inner.Cases {
					add(c)
				}
			}
			return
		}
		for _, known := range out {
			if typesystem.Equal(known, t) {
				return
			}
		}
		out = append(out, t)
	}
	for _, c := range u.Cases {
		add(c)
	}
	return out
}

func (s *Solver) member(c Constraint) bool {
	owner := s.subst.Lookup(c.T)
	if _, ok := owner.(typesystem.TypeVar); ok {
		s.requeue(c)
		return true
	}
	tuple, ok := owner.(*typesystem.TupleType)
	if !ok {
		return false
	}

	var elem typesystem.TupleElem
	if c.Member.IsLabel() {
		elem, ok = tuple.ElementByLabel(c.Member.Label)
	} else if c.Member.Index >= 0 && c.Member.Index < len(tuple.Elements) {
		elem, ok = tuple.Elements[c.Member.Index], true
	} else {
		ok = false
	}
	if !ok {
		return false
	}
	s.push(Equality(c.U, elem.Type, c.Location))
	return true
}

// branch returns a solver over a private copy of the pending work with
// choice on top, and a private copy of the table.
func (s *Solver) branch(choice Constraint) *Solver {
	work := make([]Constraint, len(s.work), len(s.work)+1)
	copy(work, s.work)
	return &Solver{
		work:   append(work, choice),
		subst:  s.subst.Clone(),
		logger: s.logger,
		depth:  s.depth + 1,
	}
}

func (s *Solver) disjunction(ctx context.Context, c Constraint) Result {
	results := make([]Result, len(c.Choices))
	if s.parallel && s.depth == 0 && len(c.Choices) > 1 {
		var g errgroup.Group
		g.SetLimit(s.maxParallel)
		for i, choice := range c.Choices {
			child := s.branch(choice)
			g.Go(func() error {
				results[i] = child.Solve(ctx)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, choice := range c.Choices {
			results[i] = s.branch(choice).Solve(ctx)
		}
	}

	if ctx.Err() != nil {
		return s.fail(c, Timeout)
	}

	var solved []Result
	var failures []Failure
	for i, r := range results {
		s.logger.Debug("solver: branch", "depth", s.depth+1, "choice", i, "ok", r.OK())
		if r.OK() {
			solved = append(solved, r)
		} else {
			failures = append(failures, r.Failures...)
		}
	}

	switch len(solved) {
	case 0:
		return Result{Failures: failures}
	case 1:
		return solved[0]
	}

	// Several branches succeeded. They are one solution if they agree
	// once every binding is fully resolved.
	var distinct []Result
	var reified []typesystem.Subst
	for _, r := range solved {
		rs := r.Solution.Reified()
		dup := false
		for _, other := range reified {
			if rs.Equivalent(other) {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, r)
			reified = append(reified, rs)
		}
	}
	if len(distinct) == 1 {
		return distinct[0]
	}
	return s.fail(c, AmbiguousExpression)
}
