package ast

import "github.com/bvlang/bvc/internal/token"

// AssignStmt is `target = value` or `target <= value` inside an
// always/on body. The LHS type drives context-sensitive retyping of
// atom/set/x literals on the RHS during elaboration; Delayed selects
// the non-blocking `<=` form.
type AssignStmt struct {
	Target  Expr
	Value   Expr
	Delayed bool
	PosV    token.Position
}

func (s *AssignStmt) Pos() token.Position { return s.PosV }
func (s *AssignStmt) stmtNode()           {}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	PosV token.Position
}

func (s *IfStmt) Pos() token.Position { return s.PosV }
func (s *IfStmt) stmtNode()           {}

// CaseClause is one arm of a switch statement: `value: body...`.
type CaseClause struct {
	Value Expr
	Body  []Stmt
	PosV  token.Position
}

func (c *CaseClause) Pos() token.Position { return c.PosV }

// SwitchStmt dispatches on a discriminant expression across a list of
// case clauses, each matching a single value; there is no default
// clause.
type SwitchStmt struct {
	Disc  Expr
	Cases []*CaseClause
	PosV  token.Position
}

func (s *SwitchStmt) Pos() token.Position { return s.PosV }
func (s *SwitchStmt) stmtNode()           {}
