// Package symtab implements the compilation-scoped symbol table: a hint map
// from name to declaration kind consulted by the lowering router's
// call-vs-access disambiguation (spec §4.3, §4.5).
package symtab

// Kind enumerates the declaration kinds the table distinguishes.
type Kind int

const (
	KindFunction Kind = iota
	KindFn
	KindVariable
	KindClass
	KindEnum
	KindImport
)

// Table is a single compilation's name-to-kind mapping. It is mutable
// shared state scoped to one compiler invocation; callers must not reuse a
// Table across independent compilations.
type Table struct {
	scopes []map[string]Kind
}

// New creates a Table with one (global) scope.
func New() *Table {
	return &Table{scopes: []map[string]Kind{{}}}
}

// PushScope opens a new nested lexical scope.
func (t *Table) PushScope() {
	t.scopes = append(t.scopes, map[string]Kind{})
}

// PopScope closes the innermost scope. Calling PopScope with only the
// global scope remaining is a caller bug and is a no-op rather than a panic,
// since the table has no way to signal the compilation-scope invariant
// violation except by assertion at a higher layer.
func (t *Table) PopScope() {
	if len(t.scopes) <= 1 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Define records name as having the given kind in the innermost scope.
func (t *Table) Define(name string, kind Kind) {
	t.scopes[len(t.scopes)-1][name] = kind
}

// Lookup searches scopes from innermost to outermost.
func (t *Table) Lookup(name string) (Kind, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if k, ok := t.scopes[i][name]; ok {
			return k, true
		}
	}
	return 0, false
}

// IsCallable reports whether name resolves to a function or fn kind, the
// hint the call-vs-access rule of §4.5 consults.
func (t *Table) IsCallable(name string) bool {
	k, ok := t.Lookup(name)
	if !ok {
		return false
	}
	return k == KindFunction || k == KindFn
}
