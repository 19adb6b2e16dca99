// Package astio reads Alpine modules from their YAML interchange form.
//
// A document is a mapping with a module name and a list of statements.
// The name defaults to the file name without its extension.
// Statements are function declarations, type aliases or expressions;
// expressions and signatures are single-key mappings named after the
// node they build:
//
//	module: nat
//	statements:
//	  - type: Nat
//	    is: {union: [{tuple: {label: zero}}, {tuple: {label: succ, elements: [{type: Nat}]}}]}
//	  - func: pred
//	    params: [{name: n, type: Nat}]
//	    returns: Nat
//	    body: {ident: n}
//
// Positions of the built nodes are the line and column of the YAML node
// they come from.
package astio

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/token"
	"github.com/funvibe/alpine/internal/utils"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ReadFile decodes the module stored at path.
func ReadFile(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module %s: %w", path, err)
	}
	return Decode(path, data)
}

// Decode parses a module document. Malformed documents yield a
// *diagnostics.DiagnosticError positioned at the offending node.
func Decode(file string, data []byte) (*ast.Module, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, diagnostics.NewError(diagnostics.ErrI001, token.Token{File: file}, "%s", err.Error())
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrI001, token.Token{File: file}, "empty document")
	}
	d := &decoder{file: file}
	return d.module(doc.Content[0])
}

type decoder struct {
	file string
}

func (d *decoder) tok(n *yaml.Node, lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, File: d.file, Line: n.Line, Column: n.Column}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return diagnostics.NewError(diagnostics.ErrI001, d.tok(n, n.Value), format, args...)
}

// fields returns the entries of a mapping node by key. Unknown keys are
// rejected.
func (d *decoder) fields(n *yaml.Node, what string, known ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "%s must be a mapping", what)
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if !slices.Contains(known, key.Value) {
			return nil, d.errorf(key, "unknown field %q in %s (expected one of %s)", key.Value, what, strings.Join(known, ", "))
		}
		if _, dup := out[key.Value]; dup {
			return nil, d.errorf(key, "duplicate field %q in %s", key.Value, what)
		}
		out[key.Value] = value
	}
	return out, nil
}

// single unpacks a single-key mapping.
func (d *decoder) single(n *yaml.Node, what string) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, d.errorf(n, "%s must be a mapping with exactly one key", what)
	}
	return n.Content[0].Value, n.Content[1], nil
}

func (d *decoder) scalar(n *yaml.Node, what string) (string, error) {
	if n == nil {
		return "", diagnostics.NewError(diagnostics.ErrI001, token.Token{File: d.file}, "missing %s", what)
	}
	if n.Kind != yaml.ScalarNode {
		return "", d.errorf(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func (d *decoder) sequence(n *yaml.Node, what string) ([]*yaml.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "%s must be a sequence", what)
	}
	return n.Content, nil
}

func (d *decoder) require(parent *yaml.Node, f map[string]*yaml.Node, key, what string) (*yaml.Node, error) {
	n, ok := f[key]
	if !ok {
		return nil, d.errorf(parent, "%s requires %q", what, key)
	}
	return n, nil
}

func (d *decoder) module(n *yaml.Node) (*ast.Module, error) {
	f, err := d.fields(n, "module document", "module", "id", "statements")
	if err != nil {
		return nil, err
	}
	name := utils.ExtractModuleName(d.file)
	tok := d.tok(n, name)
	if nameNode, ok := f["module"]; ok {
		if name, err = d.scalar(nameNode, "module name"); err != nil {
			return nil, err
		}
		tok = d.tok(nameNode, name)
	}

	m := &ast.Module{Token: tok, Name: name, Scope: symbols.NoScope}
	if idNode, ok := f["id"]; ok {
		id, err := uuid.Parse(idNode.Value)
		if err != nil {
			return nil, d.errorf(idNode, "module id: %v", err)
		}
		m.ID = id.String()
	}

	stmts, err := d.sequence(f["statements"], "statements")
	if err != nil {
		return nil, err
	}
	for _, s := range stmts {
		stmt, err := d.statement(s)
		if err != nil {
			return nil, err
		}
		m.Statements = append(m.Statements, stmt)
	}
	return m, nil
}

func (d *decoder) statement(n *yaml.Node) (ast.Node, error) {
	if n.Kind == yaml.MappingNode {
		if hasKey(n, "type") {
			return d.typeAlias(n)
		}
		if name := value(n, "func"); name != nil && name.Kind == yaml.ScalarNode {
			f, err := d.fields(n, "function", "func", "params", "returns", "body")
			if err != nil {
				return nil, err
			}
			return d.function(n, name.Value, f)
		}
	}
	return d.expr(n)
}

func (d *decoder) typeAlias(n *yaml.Node) (*ast.TypeAlias, error) {
	f, err := d.fields(n, "type alias", "type", "is")
	if err != nil {
		return nil, err
	}
	name, err := d.scalar(f["type"], "type name")
	if err != nil {
		return nil, err
	}
	isNode, err := d.require(n, f, "is", "type alias")
	if err != nil {
		return nil, err
	}
	sign, err := d.sign(isNode)
	if err != nil {
		return nil, err
	}
	a := ast.NewTypeAlias(name, sign)
	a.Token = d.tok(f["type"], name)
	return a, nil
}

func (d *decoder) function(n *yaml.Node, name string, f map[string]*yaml.Node) (*ast.Func, error) {
	params, err := d.sequence(f["params"], "params")
	if err != nil {
		return nil, err
	}
	var elems []*ast.TupleSignElem
	for _, p := range params {
		e, err := d.param(p)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}

	var codomain ast.TypeSign
	if r, ok := f["returns"]; ok {
		if codomain, err = d.sign(r); err != nil {
			return nil, err
		}
	} else {
		codomain = &ast.TupleSign{Token: d.tok(n, "()")}
	}
	sign := ast.NewFuncSign(codomain, elems...)
	sign.Token = d.tok(n, "->")
	sign.Domain.Token = d.tok(n, "(")

	bodyNode, err := d.require(n, f, "body", "function")
	if err != nil {
		return nil, err
	}
	body, err := d.expr(bodyNode)
	if err != nil {
		return nil, err
	}

	fn := ast.NewFunc(name, sign, body)
	fn.Token = d.tok(n, name)
	return fn, nil
}

// param decodes {name, label, type}. The label defaults to none, so the
// argument is passed positionally.
func (d *decoder) param(n *yaml.Node) (*ast.TupleSignElem, error) {
	f, err := d.fields(n, "parameter", "name", "label", "type")
	if err != nil {
		return nil, err
	}
	var name, label string
	if v, ok := f["name"]; ok {
		if name, err = d.scalar(v, "parameter name"); err != nil {
			return nil, err
		}
	}
	if v, ok := f["label"]; ok {
		if label, err = d.scalar(v, "parameter label"); err != nil {
			return nil, err
		}
	}
	typeNode, err := d.require(n, f, "type", "parameter")
	if err != nil {
		return nil, err
	}
	sign, err := d.sign(typeNode)
	if err != nil {
		return nil, err
	}
	e := ast.NewParam(label, name, sign)
	e.Token = d.tok(n, name)
	return e, nil
}

// sign decodes a type signature: a scalar names a type, mappings build
// tuple, union and function signatures.
func (d *decoder) sign(n *yaml.Node) (ast.TypeSign, error) {
	if n.Kind == yaml.ScalarNode {
		t := ast.NewTypeIdent(n.Value)
		t.Token = d.tok(n, n.Value)
		return t, nil
	}
	kind, body, err := d.single(n, "signature")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "tuple":
		return d.tupleSign(body)

	case "union":
		items, err := d.sequence(body, "union cases")
		if err != nil {
			return nil, err
		}
		u := ast.NewUnionSign()
		u.Token = d.tok(n, "or")
		for _, it := range items {
			c, err := d.sign(it)
			if err != nil {
				return nil, err
			}
			u.Cases = append(u.Cases, c)
		}
		return u, nil

	case "func":
		f, err := d.fields(body, "function signature", "params", "returns")
		if err != nil {
			return nil, err
		}
		items, err := d.sequence(f["params"], "params")
		if err != nil {
			return nil, err
		}
		var elems []*ast.TupleSignElem
		for _, it := range items {
			e, err := d.signElem(it)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		codomain := ast.TypeSign(&ast.TupleSign{Token: d.tok(body, "()")})
		if r, ok := f["returns"]; ok {
			if codomain, err = d.sign(r); err != nil {
				return nil, err
			}
		}
		s := ast.NewFuncSign(codomain, elems...)
		s.Token = d.tok(n, "->")
		s.Domain.Token = d.tok(n, "(")
		return s, nil
	}
	return nil, d.errorf(n.Content[0], "unknown signature %q", kind)
}

func (d *decoder) tupleSign(n *yaml.Node) (*ast.TupleSign, error) {
	f, err := d.fields(n, "tuple signature", "label", "elements")
	if err != nil {
		return nil, err
	}
	label := ""
	if v, ok := f["label"]; ok {
		if label, err = d.scalar(v, "tuple label"); err != nil {
			return nil, err
		}
	}
	items, err := d.sequence(f["elements"], "elements")
	if err != nil {
		return nil, err
	}
	s := ast.NewTupleSign(label)
	s.Token = d.tok(n, "#"+label)
	for _, it := range items {
		e, err := d.signElem(it)
		if err != nil {
			return nil, err
		}
		s.Elements = append(s.Elements, e)
	}
	return s, nil
}

// signElem decodes either {label, type} or a bare signature.
func (d *decoder) signElem(n *yaml.Node) (*ast.TupleSignElem, error) {
	if n.Kind == yaml.MappingNode && hasKey(n, "type") {
		f, err := d.fields(n, "element", "label", "type")
		if err != nil {
			return nil, err
		}
		label := ""
		if v, ok := f["label"]; ok {
			if label, err = d.scalar(v, "element label"); err != nil {
				return nil, err
			}
		}
		sign, err := d.sign(f["type"])
		if err != nil {
			return nil, err
		}
		e := ast.NewParam(label, "", sign)
		e.Token = d.tok(n, label)
		return e, nil
	}
	sign, err := d.sign(n)
	if err != nil {
		return nil, err
	}
	e := ast.NewParam("", "", sign)
	e.Token = d.tok(n, "")
	return e, nil
}

func (d *decoder) expr(n *yaml.Node) (ast.Expression, error) {
	kind, body, err := d.single(n, "expression")
	if err != nil {
		return nil, err
	}
	at := func(lexeme string) token.Token { return d.tok(n, lexeme) }

	switch kind {
	case "int":
		v, err := strconv.ParseInt(body.Value, 10, 64)
		if err != nil {
			return nil, d.errorf(body, "invalid int literal %q", body.Value)
		}
		e := ast.NewInt(v)
		e.Token = at(body.Value)
		return e, nil

	case "float":
		v, err := strconv.ParseFloat(body.Value, 64)
		if err != nil {
			return nil, d.errorf(body, "invalid float literal %q", body.Value)
		}
		e := ast.NewFloat(v)
		e.Token = at(body.Value)
		return e, nil

	case "bool":
		v, err := strconv.ParseBool(body.Value)
		if err != nil {
			return nil, d.errorf(body, "invalid bool literal %q", body.Value)
		}
		e := ast.NewBool(v)
		e.Token = at(body.Value)
		return e, nil

	case "string":
		e := ast.NewString(body.Value)
		e.Token = at(strconv.Quote(body.Value))
		return e, nil

	case "ident":
		name, err := d.scalar(body, "identifier")
		if err != nil {
			return nil, err
		}
		e := ast.NewIdent(name)
		e.Token = at(name)
		return e, nil

	case "let":
		name, err := d.scalar(body, "let binding")
		if err != nil {
			return nil, err
		}
		e := ast.NewLet(name)
		e.Token = at(name)
		return e, nil

	case "call":
		return d.call(n, body)

	case "binary":
		f, err := d.fields(body, "binary expression", "op", "left", "right")
		if err != nil {
			return nil, err
		}
		op, err := d.scalar(f["op"], "operator")
		if err != nil {
			return nil, err
		}
		left, err := d.operand(body, f, "left")
		if err != nil {
			return nil, err
		}
		right, err := d.operand(body, f, "right")
		if err != nil {
			return nil, err
		}
		e := ast.NewBinary(op, left, right)
		e.Token = at(op)
		e.Op.Token = d.tok(f["op"], op)
		return e, nil

	case "unary":
		f, err := d.fields(body, "unary expression", "op", "operand")
		if err != nil {
			return nil, err
		}
		op, err := d.scalar(f["op"], "operator")
		if err != nil {
			return nil, err
		}
		operand, err := d.operand(body, f, "operand")
		if err != nil {
			return nil, err
		}
		e := ast.NewUnary(op, operand)
		e.Token = at(op)
		e.Op.Token = d.tok(f["op"], op)
		return e, nil

	case "if":
		f, err := d.fields(body, "if expression", "cond", "then", "else")
		if err != nil {
			return nil, err
		}
		cond, err := d.operand(body, f, "cond")
		if err != nil {
			return nil, err
		}
		then, err := d.operand(body, f, "then")
		if err != nil {
			return nil, err
		}
		els, err := d.operand(body, f, "else")
		if err != nil {
			return nil, err
		}
		e := ast.NewIf(cond, then, els)
		e.Token = at("if")
		return e, nil

	case "match":
		return d.match(n, body)

	case "tuple":
		return d.tuple(n, body)

	case "select":
		f, err := d.fields(body, "select expression", "owner", "label", "index")
		if err != nil {
			return nil, err
		}
		owner, err := d.operand(body, f, "owner")
		if err != nil {
			return nil, err
		}
		var member ast.Member
		switch {
		case f["label"] != nil && f["index"] != nil:
			return nil, d.errorf(body, "select takes either a label or an index")
		case f["label"] != nil:
			member = ast.ByLabel(f["label"].Value)
		case f["index"] != nil:
			i, err := strconv.Atoi(f["index"].Value)
			if err != nil || i < 0 {
				return nil, d.errorf(f["index"], "invalid index %q", f["index"].Value)
			}
			member = ast.ByIndex(i)
		default:
			return nil, d.errorf(body, "select requires a label or an index")
		}
		e := ast.NewSelect(owner, member)
		e.Token = at("." + member.String())
		return e, nil

	case "func":
		f, err := d.fields(body, "function", "name", "params", "returns", "body")
		if err != nil {
			return nil, err
		}
		name := ""
		if v, ok := f["name"]; ok {
			if name, err = d.scalar(v, "function name"); err != nil {
				return nil, err
			}
		}
		return d.function(body, name, f)
	}
	return nil, d.errorf(n.Content[0], "unknown expression %q", kind)
}

func (d *decoder) operand(parent *yaml.Node, f map[string]*yaml.Node, key string) (ast.Expression, error) {
	n, err := d.require(parent, f, key, "expression")
	if err != nil {
		return nil, err
	}
	return d.expr(n)
}

func (d *decoder) call(n, body *yaml.Node) (*ast.Call, error) {
	f, err := d.fields(body, "call", "callee", "args")
	if err != nil {
		return nil, err
	}
	callee, err := d.operand(body, f, "callee")
	if err != nil {
		return nil, err
	}
	items, err := d.sequence(f["args"], "args")
	if err != nil {
		return nil, err
	}
	c := ast.NewLabeledCall(callee)
	c.Token = d.tok(n, callee.TokenLiteral())
	for _, it := range items {
		label, value, err := d.labeled(it, "argument")
		if err != nil {
			return nil, err
		}
		a := ast.NewArg(label, value)
		a.Token = d.tok(it, label)
		c.Args = append(c.Args, a)
	}
	return c, nil
}

func (d *decoder) tuple(n, body *yaml.Node) (*ast.Tuple, error) {
	f, err := d.fields(body, "tuple", "label", "elements")
	if err != nil {
		return nil, err
	}
	label := ""
	if v, ok := f["label"]; ok {
		if label, err = d.scalar(v, "tuple label"); err != nil {
			return nil, err
		}
	}
	items, err := d.sequence(f["elements"], "elements")
	if err != nil {
		return nil, err
	}
	t := ast.NewRecord(label)
	t.Token = d.tok(n, "#"+label)
	for _, it := range items {
		elabel, value, err := d.labeled(it, "element")
		if err != nil {
			return nil, err
		}
		e := ast.NewTupleElem(elabel, value)
		e.Token = d.tok(it, elabel)
		t.Elements = append(t.Elements, e)
	}
	return t, nil
}

// labeled decodes {label, value} or a bare expression.
func (d *decoder) labeled(n *yaml.Node, what string) (string, ast.Expression, error) {
	if n.Kind == yaml.MappingNode && hasKey(n, "value") {
		f, err := d.fields(n, what, "label", "value")
		if err != nil {
			return "", nil, err
		}
		label := ""
		if v, ok := f["label"]; ok {
			if label, err = d.scalar(v, what+" label"); err != nil {
				return "", nil, err
			}
		}
		value, err := d.expr(f["value"])
		return label, value, err
	}
	value, err := d.expr(n)
	return "", value, err
}

func (d *decoder) match(n, body *yaml.Node) (*ast.Match, error) {
	f, err := d.fields(body, "match expression", "subject", "cases")
	if err != nil {
		return nil, err
	}
	subject, err := d.operand(body, f, "subject")
	if err != nil {
		return nil, err
	}
	items, err := d.sequence(f["cases"], "cases")
	if err != nil {
		return nil, err
	}
	m := ast.NewMatch(subject)
	m.Token = d.tok(n, "match")
	for _, it := range items {
		cf, err := d.fields(it, "match case", "pattern", "value")
		if err != nil {
			return nil, err
		}
		pattern, err := d.operand(it, cf, "pattern")
		if err != nil {
			return nil, err
		}
		value, err := d.operand(it, cf, "value")
		if err != nil {
			return nil, err
		}
		c := ast.NewCase(pattern, value)
		c.Token = d.tok(it, "with")
		m.Cases = append(m.Cases, c)
	}
	return m, nil
}

func value(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func hasKey(n *yaml.Node, key string) bool {
	return value(n, key) != nil
}
