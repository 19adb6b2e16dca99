package pipeline

import (
	"context"
	"log/slog"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/config"
	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the state of one file through the stages.
type PipelineContext struct {
	Context    context.Context
	FilePath   string
	SourceCode []byte
	Settings   config.Settings
	Logger     *slog.Logger

	Module   *ast.Module
	Analysis interface{} // *analyzer.Context, created by the binding stage
	Solution typesystem.Subst

	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext creates a context for the given source with the
// default settings.
func NewPipelineContext(filePath string, source []byte) *PipelineContext {
	return &PipelineContext{
		Context:    context.Background(),
		FilePath:   filePath,
		SourceCode: source,
		Settings:   *config.DefaultSettings(),
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// AddError records a diagnostic, defaulting its file to the current one.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}

// HasErrors reports whether an earlier stage failed.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}
