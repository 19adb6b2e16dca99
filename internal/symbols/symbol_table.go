// symbols/symbol_table.go - Main symbol table entry point
//
// The table is split into:
// - symbol_table_core.go: ScopeID/SymbolID handles, Scope and Symbol records
// - symbol_table_operations.go: scope creation, declaration, lookup, copying
//
// Scopes and symbols reference each other (a scope lists its symbols, a
// symbol knows its scope). Both live in one arena owned by the Table and
// refer to each other by index, so there is no ownership cycle.

package symbols

// Table is the arena holding every scope and symbol of one analysis.
type Table struct {
	scopes  []*Scope
	symbols []*Symbol
}

// NewTable creates an empty arena.
func NewTable() *Table {
	return &Table{}
}

// Scope returns the scope with the given id. Panics on an unknown id.
func (t *Table) Scope(id ScopeID) *Scope {
	return t.scopes[id]
}

// Symbol returns the symbol with the given id. Panics on an unknown id.
func (t *Table) Symbol(id SymbolID) *Symbol {
	return t.symbols[id]
}

// ScopeCount is the number of scopes in the arena.
func (t *Table) ScopeCount() int { return len(t.scopes) }

// SymbolCount is the number of symbols in the arena.
func (t *Table) SymbolCount() int { return len(t.symbols) }

// Symbols calls fn for every symbol in declaration order.
func (t *Table) Symbols(fn func(*Symbol)) {
	for _, s := range t.symbols {
		fn(s)
	}
}
