package astio

import (
	"errors"

	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/pipeline"
	"github.com/funvibe/alpine/internal/token"
)

// DecoderProcessor turns the source of the pipeline context into a
// module.
type DecoderProcessor struct{}

func (dp *DecoderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module != nil {
		return ctx
	}
	m, err := Decode(ctx.FilePath, ctx.SourceCode)
	if err != nil {
		var diag *diagnostics.DiagnosticError
		if !errors.As(err, &diag) {
			diag = diagnostics.NewError(diagnostics.ErrI001, token.Token{File: ctx.FilePath}, "%s", err.Error())
		}
		ctx.AddError(diag)
		return ctx
	}
	ctx.Module = m
	return ctx
}
