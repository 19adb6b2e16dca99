package symbols

import (
	"fmt"
	"strings"

	"github.com/funvibe/alpine/internal/typesystem"
)

// NewScope creates a scope nested in parent (NoScope for a root).
func (t *Table) NewScope(name string, typ ScopeType, parent ScopeID, module string) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, &Scope{
		ID:     id,
		Name:   name,
		Type:   typ,
		Parent: parent,
		Module: module,
		names:  make(map[string][]SymbolID),
	})
	return id
}

// Defines reports whether name is declared directly in scope.
func (t *Table) Defines(scope ScopeID, name string) bool {
	return len(t.scopes[scope].names[name]) > 0
}

// Declare adds a symbol for name to scope and returns it.
//
// A name may carry several symbols only if all of them are overloadable.
// Breaking that rule is a bug in the caller, so Declare panics.
func (t *Table) Declare(scope ScopeID, name string, typ typesystem.Type, overloadable bool) SymbolID {
	s := t.scopes[scope]
	existing := s.names[name]
	if len(existing) > 0 {
		if !overloadable {
			panic(fmt.Sprintf("symbols: %q redeclared as non-overloadable in scope %d", name, scope))
		}
		for _, id := range existing {
			if !t.symbols[id].Overloadable {
				panic(fmt.Sprintf("symbols: %q already declared non-overloadable in scope %d", name, scope))
			}
		}
	} else {
		s.ordered = append(s.ordered, name)
	}

	id := SymbolID(len(t.symbols))
	t.symbols = append(t.symbols, &Symbol{
		ID:           id,
		Name:         name,
		Type:         typ,
		Overloadable: overloadable,
		Scope:        scope,
	})
	s.names[name] = append(existing, id)
	return id
}

// CanDeclare reports whether Declare would accept the declaration.
func (t *Table) CanDeclare(scope ScopeID, name string, overloadable bool) bool {
	existing := t.scopes[scope].Local(name)
	if len(existing) == 0 {
		return true
	}
	if !overloadable {
		return false
	}
	for _, id := range existing {
		if !t.symbols[id].Overloadable {
			return false
		}
	}
	return true
}

// LookupLocal returns the symbols declared under name in scope only.
func (t *Table) LookupLocal(scope ScopeID, name string) []SymbolID {
	return t.scopes[scope].Local(name)
}

// Lookup walks from scope outward and returns the symbols of the first
// scope that declares name. Inner declarations shadow outer ones.
func (t *Table) Lookup(scope ScopeID, name string) []SymbolID {
	for id := scope; id != NoScope; id = t.scopes[id].Parent {
		if syms := t.scopes[id].Local(name); len(syms) > 0 {
			return syms
		}
	}
	return nil
}

// SetType refines the type of a symbol.
func (t *Table) SetType(id SymbolID, typ typesystem.Type) {
	t.symbols[id].Type = typ
}

// CopyScope deep copies scope and its chain of parents. Symbols are
// recreated with fresh ids, never shared with the originals. The mapping
// from old to new symbol ids is returned alongside the new scope.
func (t *Table) CopyScope(scope ScopeID) (ScopeID, map[SymbolID]SymbolID) {
	remap := make(map[SymbolID]SymbolID)
	return t.copyChain(scope, remap), remap
}

func (t *Table) copyChain(scope ScopeID, remap map[SymbolID]SymbolID) ScopeID {
	if scope == NoScope {
		return NoScope
	}
	src := t.scopes[scope]
	parent := t.copyChain(src.Parent, remap)
	dst := t.NewScope(src.Name, src.Type, parent, src.Module)
	for _, name := range src.ordered {
		for _, old := range src.names[name] {
			sym := t.symbols[old]
			remap[old] = t.Declare(dst, name, sym.Type, sym.Overloadable)
		}
	}
	return dst
}

// Path describes the chain from scope up to its root, e.g. "main/f/case".
func (t *Table) Path(scope ScopeID) string {
	var parts []string
	for id := scope; id != NoScope; id = t.scopes[id].Parent {
		s := t.scopes[id]
		name := s.Name
		if name == "" {
			name = s.Type.String()
		}
		parts = append(parts, name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
