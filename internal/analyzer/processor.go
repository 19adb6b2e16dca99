package analyzer

import (
	"context"
	"fmt"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/pipeline"
	"github.com/funvibe/alpine/internal/token"
)

// Processors returns the analysis stages in order.
func Processors() []pipeline.Processor {
	return []pipeline.Processor{
		&NormalizerProcessor{},
		&BinderProcessor{},
		&GeneratorProcessor{},
		&SolverProcessor{},
		&DispatcherProcessor{},
	}
}

// ContextOf returns the analysis state stored in ctx by the binder stage.
func ContextOf(ctx *pipeline.PipelineContext) *Context {
	actx, _ := ctx.Analysis.(*Context)
	return actx
}

func report(ctx *pipeline.PipelineContext, actx *Context) {
	for _, err := range actx.TakeErrors() {
		ctx.AddError(err)
	}
}

// NormalizerProcessor rewrites operators into calls.
type NormalizerProcessor struct {
	Replace map[string]ast.Expression
}

func (np *NormalizerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	n := NewNormalizer()
	for name, e := range np.Replace {
		n.Replace[name] = e
	}
	n.Module(ctx.Module)
	return ctx
}

// BinderProcessor creates the analysis state and declares every symbol.
type BinderProcessor struct{}

func (bp *BinderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	actx := NewContext()
	if ctx.Logger != nil {
		actx.Logger = ctx.Logger
	}
	ctx.Analysis = actx

	AnalyzeNaming(actx, ctx.Module)
	report(ctx, actx)
	actx.Logger.Debug("bound module",
		"module", ctx.Module.Name,
		"id", ctx.Module.ID,
		"scopes", actx.Table.ScopeCount(),
		"symbols", actx.Table.SymbolCount())
	return ctx
}

// GeneratorProcessor types every expression and collects constraints.
type GeneratorProcessor struct{}

func (gp *GeneratorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	actx := ContextOf(ctx)
	if actx == nil || ctx.HasErrors() {
		return ctx
	}
	GenerateConstraints(actx, ctx.Module)
	report(ctx, actx)
	actx.Logger.Debug("generated constraints", "module", ctx.Module.Name, "count", len(actx.Constraints()))
	return ctx
}

// SolverProcessor solves the collected constraints and turns failures
// into diagnostics.
type SolverProcessor struct{}

func (sp *SolverProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	actx := ContextOf(ctx)
	if actx == nil || ctx.HasErrors() {
		return ctx
	}

	parent := ctx.Context
	if parent == nil {
		parent = context.Background()
	}
	settings := ctx.Settings.Solver
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		parent, cancel = context.WithTimeout(parent, settings.Timeout)
		defer cancel()
	}

	opts := []SolverOption{WithSettings(settings)}
	if settings.Trace {
		opts = append(opts, WithLogger(actx.Logger))
	}
	result := NewSolver(actx.Constraints(), nil, opts...).Solve(parent)
	if !result.OK() {
		for _, f := range result.Failures {
			ctx.AddError(failureError(f))
		}
		return ctx
	}
	ctx.Solution = result.Solution
	return ctx
}

var failureCodes = map[FailureKind]diagnostics.ErrorCode{
	TypeMismatch:        diagnostics.ErrT001,
	AmbiguousExpression: diagnostics.ErrT002,
	Timeout:             diagnostics.ErrT003,
	Stalled:             diagnostics.ErrT004,
}

func failureError(f Failure) *diagnostics.DiagnosticError {
	var tok token.Token
	if f.Constraint.Location.Node != nil {
		tok = f.Constraint.Location.Node.GetToken()
	}
	msg := f.Constraint.String()
	if path := f.Constraint.Location.PathString(); path != "" {
		msg = fmt.Sprintf("%s (at %s)", msg, path)
	}
	return diagnostics.NewError(failureCodes[f.Kind], tok, "%s", msg)
}

// DispatcherProcessor applies the solution and binds overloaded
// identifiers.
type DispatcherProcessor struct{}

func (dp *DispatcherProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	actx := ContextOf(ctx)
	if actx == nil || ctx.HasErrors() || ctx.Solution == nil {
		return ctx
	}
	parent := ctx.Context
	if parent == nil {
		parent = context.Background()
	}
	Dispatch(parent, actx, ctx.Module, ctx.Solution)
	report(ctx, actx)
	return ctx
}
