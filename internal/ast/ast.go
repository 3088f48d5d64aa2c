// Package ast defines the Abstract Syntax Tree node types for BV. Every
// node kind is its own Go struct with its exact attribute set, rather
// than one open-ended node type carrying arbitrary keyword attributes;
// see DESIGN.md, "Dynamic AST nodes".
package ast

import (
	"github.com/bvlang/bvc/internal/scope"
	"github.com/bvlang/bvc/internal/token"
)

// Node is the base interface every AST node implements.
type Node interface {
	Pos() token.Position
}

// Decl is a top-level or nested declaration that can be registered in a
// scope.Scope (interfaces, enums, modules, defs, ports, signals, and
// instantiated ports/insts). ParamBinding has no position, so it
// satisfies only scope.Decl, not Decl.
type Decl interface {
	Node
	scope.Decl
}

// Member is a declaration that lives inside an interface body: a port or
// a use-directive.
type Member interface {
	Node
	memberNode()
}

// DefMember is a declaration that lives inside a def body: a signal, an
// inst, or an always/on block.
type DefMember interface {
	Node
	defMemberNode()
}

// Expr is any node that produces a value and carries a type slot filled
// in during elaboration.
type Expr interface {
	Node
	exprNode()
	Type() ResolvedType
	SetType(ResolvedType)
}

// Stmt is a statement inside an always/on body.
type Stmt interface {
	Node
	stmtNode()
}

// Type is a pre-elaboration type expression as written in source.
type Type interface {
	Node
	typeNode()
}

// ResolvedType is a post-elaboration type, or one of the expression
// intermediate types awaiting context-sensitive resolution.
type ResolvedType interface {
	resolvedType()
}

// TypeInfo is embedded in every Expr implementation to provide the
// common Type()/SetType() accessors without repeating them per node.
type TypeInfo struct {
	T ResolvedType
}

func (t *TypeInfo) Type() ResolvedType      { return t.T }
func (t *TypeInfo) SetType(rt ResolvedType) { t.T = rt }

// PortProvider is implemented by elaborate.InterfaceInstance and
// elaborate.ModuleInstance so that ast can express IntfInstType and
// ModuleInstType without importing the elaborate package.
type PortProvider interface {
	PortList() []*Port
	InstanceName() string
}

// Unit is the top-level container for one input file's declarations.
// Per spec, every unit shares the single root scope.
type Unit struct {
	Decls []Decl
	Scope *scope.Scope
}
