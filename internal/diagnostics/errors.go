package diagnostics

import (
	"fmt"

	"github.com/funvibe/alpine/internal/token"
)

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

const (
	// Name binding and signature reading
	ErrA001 ErrorCode = "A001" // undefined symbol
	ErrA002 ErrorCode = "A002" // invalid type identifier
	ErrA003 ErrorCode = "A003" // duplicate declaration

	// Constraint solving
	ErrT001 ErrorCode = "T001" // type mismatch
	ErrT002 ErrorCode = "T002" // ambiguous expression
	ErrT003 ErrorCode = "T003" // solver timeout
	ErrT004 ErrorCode = "T004" // solver stalled

	// Dispatch
	ErrD001 ErrorCode = "D001" // unresolved overload

	// Input
	ErrI001 ErrorCode = "I001" // malformed module document
)

var titles = map[ErrorCode]string{
	ErrA001: "undefined symbol",
	ErrA002: "invalid type identifier",
	ErrA003: "duplicate declaration",
	ErrT001: "type mismatch",
	ErrT002: "ambiguous expression",
	ErrT003: "solver timeout",
	ErrT004: "solver stalled",
	ErrD001: "unresolved overload",
	ErrI001: "malformed module",
}

// Title returns the short human description of the code.
func (c ErrorCode) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return "error"
}

// DiagnosticError is a user-facing problem anchored at a source token.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

// NewError creates a diagnostic with a formatted message.
func NewError(code ErrorCode, tok token.Token, format string, args ...any) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, File: tok.File, Message: msg}
}

func (e *DiagnosticError) Error() string {
	tok := e.Token
	if tok.File == "" {
		tok.File = e.File
	}
	return fmt.Sprintf("%s: %s %s: %s", tok.Pos(), e.Code, e.Code.Title(), e.Message)
}
