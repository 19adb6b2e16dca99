package analyzer

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/typesystem"
)

// Context owns everything one analysis run produces: the scope/symbol
// arena, the type variable source, the flat constraint list and the
// semantic errors found along the way.
type Context struct {
	Table   *symbols.Table
	Vars    typesystem.VarSource
	Prelude symbols.ScopeID
	Logger  *slog.Logger

	constraints []Constraint
	errorSet    map[string]*diagnostics.DiagnosticError // Key: "file:line:col:code" for deduplication
}

// NewContext creates a context whose arena already holds the prelude.
func NewContext() *Context {
	ctx := &Context{
		Table:    symbols.NewTable(),
		Logger:   slog.New(slog.DiscardHandler),
		errorSet: make(map[string]*diagnostics.DiagnosticError),
	}
	ctx.Prelude = RegisterBuiltins(ctx.Table)
	return ctx
}

// Fresh returns a new type variable.
func (ctx *Context) Fresh() typesystem.TypeVar {
	return ctx.Vars.Fresh()
}

// AddConstraint appends to the constraint list. Order is preserved.
func (ctx *Context) AddConstraint(c Constraint) {
	ctx.constraints = append(ctx.constraints, c)
}

// Constraints returns the constraints generated so far.
func (ctx *Context) Constraints() []Constraint {
	return ctx.constraints
}

// addError adds an error to the context, deduplicating by position and code
func (ctx *Context) addError(err *diagnostics.DiagnosticError) {
	key := fmt.Sprintf("%s:%d:%d:%s", err.Token.File, err.Token.Line, err.Token.Column, err.Code)
	if err.Token.Line == 0 {
		// Unpositioned nodes (built in code) would all collide.
		key = fmt.Sprintf("%p", err)
	}
	ctx.errorSet[key] = err
}

// AddError records a diagnostic.
func (ctx *Context) AddError(err *diagnostics.DiagnosticError) {
	ctx.addError(err)
}

// HasErrors reports whether any diagnostic was recorded.
func (ctx *Context) HasErrors() bool {
	return len(ctx.errorSet) > 0
}

// Errors returns all unique errors sorted by position.
func (ctx *Context) Errors() []*diagnostics.DiagnosticError {
	result := make([]*diagnostics.DiagnosticError, 0, len(ctx.errorSet))
	for _, err := range ctx.errorSet {
		result = append(result, err)
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Token, result[j].Token
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if result[i].Code != result[j].Code {
			return result[i].Code < result[j].Code
		}
		return result[i].Message < result[j].Message
	})
	return result
}

// TakeErrors returns the recorded errors sorted by position and forgets
// them, so each pipeline stage reports only its own.
func (ctx *Context) TakeErrors() []*diagnostics.DiagnosticError {
	errs := ctx.Errors()
	ctx.errorSet = make(map[string]*diagnostics.DiagnosticError)
	return errs
}
