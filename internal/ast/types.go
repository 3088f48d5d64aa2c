package ast

import "github.com/bvlang/bvc/internal/token"

// ---- Pre-elaboration type expressions (as written in source) ----

// BitType is a single scalar bit. It requires no elaboration, so the
// same value also implements ResolvedType and is used post-elaboration
// unchanged.
type BitType struct {
	PosV token.Position
}

func (t *BitType) Pos() token.Position { return t.PosV }
func (t *BitType) typeNode()           {}
func (t *BitType) resolvedType()       {}

// ArrayTypeExpr is `subtype[left:right]` with unevaluated bound
// expressions; post-elaboration it becomes ResolvedArrayType.
type ArrayTypeExpr struct {
	Elem  Type
	Left  Expr
	Right Expr
	PosV  token.Position
}

func (t *ArrayTypeExpr) Pos() token.Position { return t.PosV }
func (t *ArrayTypeExpr) typeNode()           {}

// StructTypeExpr is a bare type name with optional generic-style
// arguments: `Name(args...)`. It resolves to either an interface
// instantiation (IntfInstType) or an enum reference (EnumType).
type StructTypeExpr struct {
	Name string
	Args []*Arg
	Decl Decl // bound by the semantic pre-pass to its interface/enum decl
	PosV token.Position
}

func (t *StructTypeExpr) Pos() token.Position { return t.PosV }
func (t *StructTypeExpr) typeNode()           {}

// SetTypeExpr is `set(EnumName)`.
type SetTypeExpr struct {
	EnumName string
	Decl     *EnumDecl // bound by the semantic pre-pass
	PosV     token.Position
}

func (t *SetTypeExpr) Pos() token.Position { return t.PosV }
func (t *SetTypeExpr) typeNode()           {}

// ---- Post-elaboration resolved types ----

// ResolvedArrayType is a fully elaborated array type with concrete
// integer bounds.
type ResolvedArrayType struct {
	Elem  ResolvedType
	Left  int
	Right int
}

func (ResolvedArrayType) resolvedType() {}

// IntfInstType is a structured port type backed by a memoised interface
// instantiation.
type IntfInstType struct {
	Inst PortProvider
}

func (IntfInstType) resolvedType() {}

// ModuleInstType types a reference to an instantiated sub-module (used
// for member-expr resolution on `inst` names).
type ModuleInstType struct {
	Inst PortProvider
}

func (ModuleInstType) resolvedType() {}

// EnumType types a value whose declared type is an enum.
type EnumType struct {
	Decl *EnumDecl
}

func (EnumType) resolvedType() {}

// SetType types a value of type `set(E)`, represented as a |E|-bit mask.
type SetType struct {
	Decl *EnumDecl
}

func (SetType) resolvedType() {}

// ---- Expression-intermediate types ----

// AtomType types an unresolved enum-atom or 'x literal before the
// enclosing assignment's LHS type retypes it.
type AtomType struct{}

func (AtomType) resolvedType() {}

// SetLitType types a `{a, b, c}` literal before the enclosing
// assignment's LHS type retypes it into a sized bit-mask.
type SetLitType struct{}

func (SetLitType) resolvedType() {}

// XType types the structural don't-care produced by converting an 'x
// atom assigned to an interface-typed target.
type XType struct{}

func (XType) resolvedType() {}

// IntType types plain integer literals and sized-number literals.
type IntType struct{}

func (IntType) resolvedType() {}

// ArithType types the result of a binary arithmetic expression.
type ArithType struct{}

func (ArithType) resolvedType() {}
