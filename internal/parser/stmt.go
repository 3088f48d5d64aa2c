package parser

import (
	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/token"
)

// parseStmt parses one seq_stmt: a switch, an if, or an assignment,
// dispatching on the leading keyword.
func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.atKeyword("switch"):
		return p.parseSwitchStmt()
	case p.atKeyword("if"):
		return p.parseIfStmt()
	default:
		return p.parseAssignStmt()
	}
}

func (p *Parser) parseAssignStmt() ast.Stmt {
	pos := p.tok.Pos
	target := p.parseExpr()
	delayed := false
	if p.atPunct("<=") {
		delayed = true
	} else if !p.atPunct("=") {
		p.errorf(p.tok.Pos, "expected = or <=, found %q", p.tok.Literal)
	}
	p.advance()
	value := p.parseExpr()
	return &ast.AssignStmt{Target: target, Value: value, Delayed: delayed, PosV: pos}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	pos := p.tok.Pos
	p.advance()
	cond := p.parseExpr()
	then := parseBlock(p, p.parseStmt)

	var elseBody []ast.Stmt
	if p.atKeyword("else") {
		p.advance()
		elseBody = parseBlock(p, p.parseStmt)
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseBody, PosV: pos}
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	pos := p.tok.Pos
	p.advance()
	disc := p.parseExpr()
	p.expectPunct(":")
	p.expect(token.NEWLINE, "newline")
	p.expect(token.INDENT, "indented block")

	var cases []*ast.CaseClause
	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		cases = append(cases, p.parseSwitchCase())
		p.skipNewlines()
	}
	p.expect(token.DEDENT, "end of block")
	return &ast.SwitchStmt{Disc: disc, Cases: cases, PosV: pos}
}

func (p *Parser) parseSwitchCase() *ast.CaseClause {
	pos := p.tok.Pos
	value := p.parseExpr()
	body := parseBlock(p, p.parseStmt)
	return &ast.CaseClause{Value: value, Body: body, PosV: pos}
}
