// Package parser implements a hand-written recursive-descent parser
// over internal/lexer's token stream, producing an *ast.Unit per
// input file. It consumes the lexer's synthetic INDENT/DEDENT/NEWLINE
// tokens directly instead of tracking indentation strings by hand.
package parser

import (
	"fmt"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/bverr"
	"github.com/bvlang/bvc/internal/lexer"
	"github.com/bvlang/bvc/internal/token"
)

// Parser consumes tokens from a single lexer and builds an ast.Unit.
type Parser struct {
	lex  *lexer.Lexer
	file string

	tok    token.Token
	peeked *token.Token
	errs   bverr.List
}

// New creates a Parser over source text from file (used only for
// position reporting).
func New(file, source string) *Parser {
	p := &Parser{lex: lexer.New(file, source), file: file}
	p.advance()
	return p
}

// Parse consumes the entire token stream and returns the resulting
// unit along with any errors collected along the way. Parsing does not
// stop at the first error: it resynchronises at the next top-level
// declaration so later errors in the same file are still reported.
func (p *Parser) Parse() (*ast.Unit, bverr.List) {
	unit := &ast.Unit{}
	p.skipNewlines()
	for p.tok.Kind != token.EOF {
		decl := p.parseTopDecl()
		if decl != nil {
			unit.Decls = append(unit.Decls, decl)
		}
		p.skipNewlines()
	}
	for _, le := range p.lex.Errors() {
		p.errs = append(p.errs, bverr.New(bverr.KindSyntax, le.Pos, le.Message))
	}
	return unit, p.errs
}

func (p *Parser) advance() {
	if p.peeked != nil {
		p.tok = *p.peeked
		p.peeked = nil
		return
	}
	p.tok = p.lex.Next()
}

// peekNext returns the token that follows the current one without
// consuming it, caching the lookahead so a later advance reuses it.
func (p *Parser) peekNext() token.Token {
	if p.peeked == nil {
		t := p.lex.Next()
		p.peeked = &t
	}
	return *p.peeked
}

func (p *Parser) at(k token.Kind) bool { return p.tok.Kind == k }

func (p *Parser) atKeyword(kw string) bool {
	return p.tok.Kind == token.KEYWORD && p.tok.Literal == kw
}

func (p *Parser) atPunct(lit string) bool {
	return p.tok.Kind == token.PUNCT && p.tok.Literal == lit
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	p.errs = append(p.errs, bverr.New(bverr.KindSyntax, pos, fmt.Sprintf(format, args...)))
}

// expect consumes the current token if it matches kind, else records a
// syntax error and leaves the cursor in place so the caller can try to
// resynchronise.
func (p *Parser) expect(kind token.Kind, what string) token.Token {
	if p.tok.Kind != kind {
		p.errorf(p.tok.Pos, "expected %s, found %q", what, p.tok.Literal)
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) expectKeyword(kw string) token.Token {
	if !p.atKeyword(kw) {
		p.errorf(p.tok.Pos, "expected keyword %q, found %q", kw, p.tok.Literal)
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) expectPunct(lit string) token.Token {
	if !p.atPunct(lit) {
		p.errorf(p.tok.Pos, "expected %q, found %q", lit, p.tok.Literal)
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) skipNewlines() {
	for p.tok.Kind == token.NEWLINE {
		p.advance()
	}
}

// parseBlock consumes `:` NEWLINE INDENT { item NEWLINE* } DEDENT and
// returns whatever parseItem accumulated, resynchronising to the
// matching DEDENT on error.
func parseBlock[T any](p *Parser, parseItem func() T) []T {
	p.expectPunct(":")
	p.expect(token.NEWLINE, "newline")
	p.expect(token.INDENT, "indented block")

	var items []T
	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		items = append(items, parseItem())
		p.skipNewlines()
	}
	p.expect(token.DEDENT, "end of block")
	return items
}

func (p *Parser) parseTopDecl() ast.Decl {
	switch {
	case p.atKeyword("interface"):
		return p.parseInterfaceDecl()
	case p.atKeyword("enum"):
		return p.parseEnumDecl()
	case p.atKeyword("module"):
		return p.parseModuleDecl()
	case p.atKeyword("def"):
		return p.parseDefDecl()
	default:
		p.errorf(p.tok.Pos, "expected a top-level declaration, found %q", p.tok.Literal)
		p.advance()
		return nil
	}
}

func (p *Parser) parseIdent() (string, token.Position) {
	pos := p.tok.Pos
	if p.tok.Kind != token.IDENT && p.tok.Kind != token.KEYWORD {
		p.errorf(pos, "expected an identifier, found %q", p.tok.Literal)
		return "", pos
	}
	name := p.tok.Literal
	p.advance()
	return name, pos
}

func (p *Parser) parseInterfaceDecl() *ast.InterfaceDecl {
	pos := p.tok.Pos
	p.expectKeyword("interface")
	name, _ := p.parseIdent()
	params := p.parseGenericDeclOpt()
	members := parseBlock(p, p.parseIntfMember)
	return &ast.InterfaceDecl{Name: name, Params: params, Members: members, PosV: pos}
}

func (p *Parser) parseIntfMember() ast.Member {
	if p.atKeyword("use") {
		pos := p.tok.Pos
		p.advance()
		name, _ := p.parseIdent()
		args := p.parseGenericArgsOpt()
		return &ast.UseMember{IntfName: name, Args: args, PosV: pos}
	}
	return p.parsePortDecl()
}

func (p *Parser) parsePortDecl() *ast.Port {
	pos := p.tok.Pos
	dir, _ := p.parseIdent()
	name, t := p.parseMemberDecl()
	return &ast.Port{Dir: dir, Name: name, Type: t, PosV: pos}
}

func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	pos := p.tok.Pos
	p.expectKeyword("enum")
	name, _ := p.parseIdent()
	p.expectPunct(":")
	p.expect(token.NEWLINE, "newline")
	p.expect(token.INDENT, "indented block")

	var atoms []ast.EnumAtom
	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		for {
			apos := p.tok.Pos
			aname, _ := p.parseIdent()
			atoms = append(atoms, ast.EnumAtom{Name: aname, Pos: apos})
			if p.atPunct(",") {
				p.advance()
				if p.at(token.NEWLINE) {
					break
				}
				continue
			}
			break
		}
		p.skipNewlines()
	}
	p.expect(token.DEDENT, "end of block")
	return &ast.EnumDecl{Name: name, Atoms: atoms, PosV: pos}
}

func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	pos := p.tok.Pos
	p.expectKeyword("module")
	name, _ := p.parseIdent()
	params := p.parseGenericDeclOpt()
	ports := parseBlock(p, p.parsePortDecl)
	return &ast.ModuleDecl{Name: name, Params: params, Ports: ports, PosV: pos}
}

func (p *Parser) parseDefDecl() *ast.DefDecl {
	pos := p.tok.Pos
	p.expectKeyword("def")
	name, _ := p.parseIdent()
	members := parseBlock(p, p.parseDefMember)
	return &ast.DefDecl{ModuleName: name, Members: members, PosV: pos}
}

func (p *Parser) parseDefMember() ast.DefMember {
	switch {
	case p.atKeyword("sig"):
		pos := p.tok.Pos
		p.advance()
		name, t := p.parseMemberDecl()
		return &ast.Signal{Name: name, Type: t, PosV: pos}

	case p.atKeyword("always"):
		pos := p.tok.Pos
		p.advance()
		body := parseBlock(p, p.parseStmt)
		return &ast.Always{Body: body, PosV: pos}

	case p.atKeyword("on"):
		pos := p.tok.Pos
		p.advance()
		edges := []ast.EdgeSpec{p.parseEdgeSpec()}
		for p.atKeyword("or") {
			p.advance()
			edges = append(edges, p.parseEdgeSpec())
		}
		body := parseBlock(p, p.parseStmt)
		return &ast.On{Edges: edges, Body: body, PosV: pos}

	case p.atKeyword("inst"):
		pos := p.tok.Pos
		p.advance()
		name, _ := p.parseIdent()
		p.expectPunct(":")
		target, _ := p.parseIdent()
		p.expect(token.NEWLINE, "newline")
		p.expect(token.INDENT, "indented block")
		var pms []*ast.PortMapEntry
		for !p.at(token.DEDENT) && !p.at(token.EOF) {
			pms = append(pms, p.parsePortMap())
			p.skipNewlines()
		}
		p.expect(token.DEDENT, "end of block")
		return &ast.Inst{Name: name, Target: target, PortMaps: pms, PosV: pos}

	default:
		p.errorf(p.tok.Pos, "expected signal/always/on/inst, found %q", p.tok.Literal)
		p.advance()
		return nil
	}
}

func (p *Parser) parseEdgeSpec() ast.EdgeSpec {
	rising := true
	if p.atKeyword("posedge") {
		p.advance()
	} else if p.atKeyword("negedge") {
		rising = false
		p.advance()
	} else {
		p.errorf(p.tok.Pos, "expected posedge/negedge, found %q", p.tok.Literal)
	}
	name, _ := p.parseIdent()
	return ast.EdgeSpec{SignalName: name, Rising: rising}
}

func (p *Parser) parsePortMap() *ast.PortMapEntry {
	pos := p.tok.Pos
	name, _ := p.parseIdent()
	if !p.atPunct("<=") && !p.atPunct("=>") {
		p.errorf(p.tok.Pos, "expected <= or =>, found %q", p.tok.Literal)
	} else {
		p.advance()
	}
	expr := p.parseExpr()
	return &ast.PortMapEntry{TargetName: name, Source: expr, PosV: pos}
}
