package ast

import (
	"github.com/bvlang/bvc/internal/scope"
	"github.com/bvlang/bvc/internal/token"
)

// Param is one entry of a parameterised interface's or module's
// parameter list: an ordered (name, type) pair, always integer-typed in
// practice since only constant-folded integers can be bound to them.
type Param struct {
	Name string
	Type Type
}

// InterfaceDecl declares a parameterised bundle of ports.
type InterfaceDecl struct {
	Name    string
	Params  []Param
	Members []Member
	Scope   *scope.Scope // attached by the pre-pass
	PosV    token.Position
}

func (d *InterfaceDecl) Pos() token.Position { return d.PosV }
func (d *InterfaceDecl) DeclName() string    { return d.Name }
func (d *InterfaceDecl) DeclKind() string    { return "interface" }

// EnumAtom is one enumerator: its declaration order defines its numeric
// code (codes are consecutive from 0).
type EnumAtom struct {
	Name string
	Pos  token.Position
}

// EnumDecl declares an enumeration type.
type EnumDecl struct {
	Name  string
	Atoms []EnumAtom
	Scope *scope.Scope
	PosV  token.Position
}

func (d *EnumDecl) Pos() token.Position { return d.PosV }
func (d *EnumDecl) DeclName() string    { return d.Name }
func (d *EnumDecl) DeclKind() string    { return "enum" }

// AtomIndex returns the declaration-order index of the named enumerator,
// or -1 if it is not a member of this enum.
func (d *EnumDecl) AtomIndex(name string) int {
	for i, a := range d.Atoms {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// ModuleDecl declares a module's ports and parameters. Its body (defs)
// is populated separately and concatenated from every top-level def
// whose name matches this module.
type ModuleDecl struct {
	Name   string
	Params []Param
	Ports  []*Port
	Defs   []*DefDecl
	Scope  *scope.Scope
	PosV   token.Position
}

func (d *ModuleDecl) Pos() token.Position { return d.PosV }
func (d *ModuleDecl) DeclName() string    { return d.Name }
func (d *ModuleDecl) DeclKind() string    { return "module" }

// DefDecl is a module-body declaration separate from the module's port
// list. Multiple defs may target the same module and are concatenated
// during elaboration.
type DefDecl struct {
	ModuleName string
	Members    []DefMember
	Module     *ModuleDecl // bound by the pre-pass
	Scope      *scope.Scope
	PosV       token.Position
}

func (d *DefDecl) Pos() token.Position { return d.PosV }
func (d *DefDecl) DeclName() string    { return d.ModuleName }
func (d *DefDecl) DeclKind() string    { return "def" }
