// Package scope implements the lexical scope graph used by the semantic
// pre-pass and the elaborator: a tree of nested name→declaration maps
// with parent-chained lookup.
package scope

// Decl is the minimal shape a value must have to be stored in a Scope.
// ast.Decl implementations (interfaces, enums, modules, ports, signals,
// ...) and ast.ParamBinding all satisfy it.
type Decl interface {
	DeclName() string
	DeclKind() string
}

// Scope maps names to declarations, with a parent pointer for lexical
// lookup. Scopes are created at four levels: root (one), per-unit
// (shares root), per-declaration (interfaces/enums/modules), and
// per-def (child of its module's scope).
type Scope struct {
	parent *Scope
	table  map[string]Decl
}

// New creates a scope whose lookups fall through to parent when a name
// is not found locally. parent may be nil for the root scope.
func New(parent *Scope) *Scope {
	return &Scope{parent: parent, table: make(map[string]Decl)}
}

// Add binds name to decl in this scope. The pre-pass never double-inserts
// into the same scope; callers that need redeclaration detection check
// Lookup first.
func (s *Scope) Add(name string, decl Decl) {
	s.table[name] = decl
}

// Lookup walks the parent chain and returns the first declaration bound
// to name, or (nil, false) if none exists at any level.
func (s *Scope) Lookup(name string) (Decl, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if d, ok := sc.table[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// LookupKind returns the declaration bound to name only if its DeclKind
// matches kind, or if kind is empty (meaning "any kind"). A name bound
// to the wrong kind at the nearest enclosing scope is treated as not
// found, rather than falling through to an outer scope; see DESIGN.md
// for the reasoning.
func (s *Scope) LookupKind(name, kind string) (Decl, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if d, ok := sc.table[name]; ok {
			if kind == "" || d.DeclKind() == kind {
				return d, true
			}
			return nil, false
		}
	}
	return nil, false
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Entry pairs a bound name with its declaration, returned by Entries.
type Entry struct {
	Name string
	Decl Decl
}

// Entries returns every (name, decl) pair bound directly in this scope,
// in no particular order. It does not walk the parent chain; callers
// that need every module visible at the root, for example, call it on
// the root scope itself.
func (s *Scope) Entries() []Entry {
	entries := make([]Entry, 0, len(s.table))
	for name, decl := range s.table {
		entries = append(entries, Entry{Name: name, Decl: decl})
	}
	return entries
}
