package symbols

import (
	"github.com/funvibe/alpine/internal/typesystem"
)

// ScopeID indexes a scope in its Table.
type ScopeID int

// SymbolID indexes a symbol in its Table. Symbol identity is its id:
// two overloads with the same name are distinct symbols.
type SymbolID int

const (
	NoScope  ScopeID  = -1
	NoSymbol SymbolID = -1
)

// ScopeType classifies the construct that opened a scope.
type ScopeType int

const (
	ScopePrelude  ScopeType = iota // Built-in types and operators
	ScopeModule                    // Top level of a module
	ScopeFunction                  // Parameters of a function
	ScopeBranch                    // then/else branch of a conditional
	ScopeMatchCase                 // Bindings introduced by a match pattern
)

func (t ScopeType) String() string {
	switch t {
	case ScopePrelude:
		return "prelude"
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBranch:
		return "branch"
	case ScopeMatchCase:
		return "case"
	}
	return "scope"
}

// Scope is a lexical namespace. Names map to ordered symbol lists since
// a name may be overloaded.
type Scope struct {
	ID     ScopeID
	Name   string // optional
	Type   ScopeType
	Parent ScopeID
	Module string // id of the owning module

	names   map[string][]SymbolID
	ordered []string // names in first-declaration order
}

// Names returns the declared names in first-declaration order.
func (s *Scope) Names() []string {
	return s.ordered
}

// Local returns the symbols declared under name in this scope only.
func (s *Scope) Local(name string) []SymbolID {
	return s.names[name]
}

// Symbol is a named, typed declaration.
type Symbol struct {
	ID           SymbolID
	Name         string
	Type         typesystem.Type
	Overloadable bool
	Scope        ScopeID
}
