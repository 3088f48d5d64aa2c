package ast

import "github.com/bvlang/bvc/internal/token"

// Port is a single scalar-or-structured port: direction 'i' or 'o', a
// name, and a type. Ports spliced in from a use-included interface keep
// the direction they were declared with.
type Port struct {
	Dir   string // "i" or "o"
	Name  string
	Type  Type         // as written in source
	RType ResolvedType // filled in during elaboration
	PosV  token.Position
}

func (p *Port) Pos() token.Position { return p.PosV }
func (p *Port) memberNode()         {}
func (p *Port) DeclName() string    { return p.Name }
func (p *Port) DeclKind() string    { return "port" }

// UseMember splices another interface's ports into the declaring
// interface, preserving their directions.
type UseMember struct {
	IntfName string
	Args     []*Arg
	PosV     token.Position
}

func (u *UseMember) Pos() token.Position { return u.PosV }
func (u *UseMember) memberNode()         {}

// Signal is a def-body declaration of a register/wire-shaped value.
type Signal struct {
	Name  string
	Type  Type
	RType ResolvedType
	PosV  token.Position
}

func (s *Signal) Pos() token.Position { return s.PosV }
func (s *Signal) defMemberNode()      {}
func (s *Signal) DeclName() string    { return s.Name }
func (s *Signal) DeclKind() string    { return "signal" }

// PortMapEntry binds one target port of an instantiated module to a
// source expression in the enclosing def's scope.
type PortMapEntry struct {
	TargetName string
	Source     Expr
	PosV       token.Position
}

func (p *PortMapEntry) Pos() token.Position { return p.PosV }

// Inst declares a sub-module instantiation. Args exists only for
// forward compatibility with a not-yet-implemented grammar extension:
// the parser never populates it from source text (inst declarations
// take no argument list today), so the field is reachable only by
// hand-built ast.Inst values; the elaborator rejects any non-empty
// Args as a build-stopping error so the restriction holds once
// parameterised sub-instantiation syntax is added.
//
// TargetInst is nil on the parsed declaration and is filled in by the
// elaborator with the instantiated target module, so that a RefExpr
// naming this inst can be typed ModuleInstType{Inst: TargetInst}
// without the ast package importing the elaborator.
type Inst struct {
	Name       string
	Target     string
	Args       []*Arg
	PortMaps   []*PortMapEntry
	TargetInst PortProvider
	PosV       token.Position
}

func (i *Inst) Pos() token.Position { return i.PosV }
func (i *Inst) defMemberNode()      {}
func (i *Inst) DeclName() string    { return i.Name }
func (i *Inst) DeclKind() string    { return "inst-inst" }

// EdgeSpec names one sensitivity-list entry of an `on` block.
type EdgeSpec struct {
	SignalName string
	Rising     bool
}

// Always is a combinational block (sensitivity `*`).
type Always struct {
	Body []Stmt
	PosV token.Position
}

func (a *Always) Pos() token.Position { return a.PosV }
func (a *Always) defMemberNode()      {}

// On is an edge-triggered block.
type On struct {
	Edges []EdgeSpec
	Body  []Stmt
	PosV  token.Position
}

func (o *On) Pos() token.Position { return o.PosV }
func (o *On) defMemberNode()      {}

// Arg is one argument in an instantiation's argument list: either
// positional (KwName nil) or keyword-bound.
type Arg struct {
	KwName *string
	Value  Expr
	PosV   token.Position
}

func (a *Arg) Pos() token.Position { return a.PosV }
