package config

import "strings"

// SourceFileExt is the extension of YAML-encoded Alpine modules.
const SourceFileExt = ".alp.yaml"

// SourceFileExtensions are all recognized module file extensions
var SourceFileExtensions = []string{".alp.yaml", ".alp.yml", ".yaml", ".yml"}

// Built-in type names
const (
	BoolTypeName   = "Bool"
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	StringTypeName = "String"
)

// ErrorTypeName is how the error type prints.
const ErrorTypeName = "<error type>"

// Scope names
const (
	PreludeScopeName = "prelude"
)

// Operator identifiers. Binary and unary expressions are rewritten into
// calls to these names before constraint generation.
const (
	AddOp = "+"
	SubOp = "-"
	MulOp = "*"
	DivOp = "/"
	LtOp  = "<"
	LeOp  = "<="
	GtOp  = ">"
	GeOp  = ">="
	EqOp  = "=="
	NeOp  = "!="
	AndOp = "and"
	OrOp  = "or"
	NotOp = "not"
)

// Config file names, searched in this order.
var ConfigFileNames = []string{"alpine.yaml", "alpine.yml"}

// HasSourceExt reports whether path ends with a module file extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt removes the first matching module file extension.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
