package ast

import "github.com/bvlang/bvc/internal/token"

// BinaryExpr is a two-operand arithmetic or comparison expression.
type BinaryExpr struct {
	TypeInfo
	Op    string
	Left  Expr
	Right Expr
	PosV  token.Position
}

func (e *BinaryExpr) Pos() token.Position { return e.PosV }
func (e *BinaryExpr) exprNode()           {}

// UnaryExpr is a single-operand expression, currently only `-` and `~`.
type UnaryExpr struct {
	TypeInfo
	Op      string
	Operand Expr
	PosV    token.Position
}

func (e *UnaryExpr) Pos() token.Position { return e.PosV }
func (e *UnaryExpr) exprNode()           {}

// CastExpr reinterprets an operand as a structurally different type
// without any runtime conversion, written `Type'expr` in source.
type CastExpr struct {
	TypeInfo
	TypeExpr Type
	Operand  Expr
	PosV     token.Position
}

func (e *CastExpr) Pos() token.Position { return e.PosV }
func (e *CastExpr) exprNode()           {}

// MemberExpr projects a named member out of a structured (interface- or
// module-instance-typed) expression: `base.field`.
type MemberExpr struct {
	TypeInfo
	Base  Expr
	Field string
	PosV  token.Position
}

func (e *MemberExpr) Pos() token.Position { return e.PosV }
func (e *MemberExpr) exprNode()           {}

// SliceExpr selects a bit range `base[left:right]`.
type SliceExpr struct {
	TypeInfo
	Base  Expr
	Left  Expr
	Right Expr
	PosV  token.Position
}

func (e *SliceExpr) Pos() token.Position { return e.PosV }
func (e *SliceExpr) exprNode()           {}

// SubscriptExpr selects a single array element `base[index]`.
type SubscriptExpr struct {
	TypeInfo
	Base  Expr
	Index Expr
	PosV  token.Position
}

func (e *SubscriptExpr) Pos() token.Position { return e.PosV }
func (e *SubscriptExpr) exprNode()           {}

// RefExpr names a scope-visible declaration: a parameter, signal, port,
// or instance name.
type RefExpr struct {
	TypeInfo
	Name string
	PosV token.Position
}

func (e *RefExpr) Pos() token.Position { return e.PosV }
func (e *RefExpr) exprNode()           {}

// AtomExpr is a bare `'name` literal: an enum atom until retyped by its
// assignment context, or the structural don't-care `'x`.
type AtomExpr struct {
	TypeInfo
	Name string
	PosV token.Position
}

func (e *AtomExpr) Pos() token.Position { return e.PosV }
func (e *AtomExpr) exprNode()           {}

// NumExpr is a plain unsized integer literal.
type NumExpr struct {
	TypeInfo
	Value int
	PosV  token.Position
}

func (e *NumExpr) Pos() token.Position { return e.PosV }
func (e *NumExpr) exprNode()           {}

// SizedNumExpr is a sized literal such as `8'hFF`: an explicit declared
// bit width plus its value already normalized to a binary digit string
// (each character '0', '1', 'x', 'z', or '?'). The parser expands
// octal/hex/decimal digits to binary before the literal ever reaches
// the AST.
type SizedNumExpr struct {
	TypeInfo
	Width int
	Bits  string
	PosV  token.Position
}

func (e *SizedNumExpr) Pos() token.Position { return e.PosV }
func (e *SizedNumExpr) exprNode()           {}

// SetExpr is a brace literal `{a, b, c}` of bare enumerator names,
// typed SetLitType until its assignment context retypes it into a
// sized bit-mask.
type SetExpr struct {
	TypeInfo
	Items []string
	PosV  token.Position
}

func (e *SetExpr) Pos() token.Position { return e.PosV }
func (e *SetExpr) exprNode()           {}

// EnumExpr is an enum atom already resolved to its declaring enum
// (produced by elaboration, never by the parser).
type EnumExpr struct {
	TypeInfo
	Decl  *EnumDecl
	Index int
	PosV  token.Position
}

func (e *EnumExpr) Pos() token.Position { return e.PosV }
func (e *EnumExpr) exprNode()           {}

// XExpr is the structural don't-care produced by elaborating an 'x atom
// against an interface-typed assignment target.
type XExpr struct {
	TypeInfo
	PosV token.Position
}

func (e *XExpr) Pos() token.Position { return e.PosV }
func (e *XExpr) exprNode()           {}

// CallExpr is a builtin function call, currently only `log2(n)`.
type CallExpr struct {
	TypeInfo
	Func string
	Args []Expr
	PosV token.Position
}

func (e *CallExpr) Pos() token.Position { return e.PosV }
func (e *CallExpr) exprNode()           {}
