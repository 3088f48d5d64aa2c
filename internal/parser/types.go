package parser

import (
	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/token"
)

// parseMemberDecl parses the shared `name (':' signal_type)?` tail used
// by both port_decl and signal, falling back to an implicit bit (or
// bit-array, if bracketed bounds follow directly) type when no explicit
// type is written.
func (p *Parser) parseMemberDecl() (string, ast.Type) {
	name, pos := p.parseIdent()
	if p.atPunct(":") {
		p.advance()
		return name, p.parseSignalType()
	}
	if p.atPunct("[") {
		return name, p.parseArrayBoundsOnto(&ast.BitType{PosV: pos})
	}
	return name, &ast.BitType{PosV: pos}
}

// parseSignalType parses a simple_type followed by zero or more
// array_bounds suffixes, each wrapping the previous type as its element.
func (p *Parser) parseSignalType() ast.Type {
	base := p.parseSimpleType()
	return p.parseArrayBoundsOnto(base)
}

func (p *Parser) parseArrayBoundsOnto(base ast.Type) ast.Type {
	t := base
	for p.atPunct("[") {
		pos := p.tok.Pos
		p.advance()
		left := p.parseExpr()
		p.expectPunct(":")
		right := p.parseExpr()
		p.expectPunct("]")
		t = &ast.ArrayTypeExpr{Elem: t, Left: left, Right: right, PosV: pos}
	}
	return t
}

// parseSimpleType parses a bare type name with optional generic-style
// arguments: `bit`, `set(Enum)`, `Name`, or `Name(args...)`. `bit` with
// no arguments is the scalar BitType, `set(Enum)` is a SetTypeExpr, and
// every other name is a StructTypeExpr resolved later against the
// interface/enum namespace.
func (p *Parser) parseSimpleType() ast.Type {
	pos := p.tok.Pos
	name, _ := p.parseIdent()
	if name == "set" && p.atPunct("(") {
		p.advance()
		enumName, _ := p.parseIdent()
		p.expectPunct(")")
		return &ast.SetTypeExpr{EnumName: enumName, PosV: pos}
	}
	if name == "bit" && !p.atPunct("(") {
		return &ast.BitType{PosV: pos}
	}
	args := p.parseGenericArgsOpt()
	return &ast.StructTypeExpr{Name: name, Args: args, PosV: pos}
}

// parseGenericDeclOpt parses an optional `(name (':' type)?, ...)`
// parameter list on an interface_decl or module_decl.
func (p *Parser) parseGenericDeclOpt() []ast.Param {
	if !p.atPunct("(") {
		return nil
	}
	p.advance()
	var params []ast.Param
	for !p.atPunct(")") && !p.at(token.EOF) {
		name, _ := p.parseIdent()
		var t ast.Type = &ast.BitType{}
		if p.atPunct(":") {
			p.advance()
			t = p.parseSignalType()
		}
		params = append(params, ast.Param{Name: name, Type: t})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct(")")
	return params
}

// parseGenericArgsOpt parses an optional `(arg, ..., name=arg, ...)`
// argument list on a use-directive or a StructTypeExpr.
func (p *Parser) parseGenericArgsOpt() []*ast.Arg {
	if !p.atPunct("(") {
		return nil
	}
	p.advance()
	var args []*ast.Arg
	for !p.atPunct(")") && !p.at(token.EOF) {
		args = append(args, p.parseArg())
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct(")")
	return args
}

// parseArg parses one `expr` or `name=expr` argument, disambiguating
// with one token of lookahead: a bare identifier immediately followed
// by `=` is a keyword argument, anything else is positional.
func (p *Parser) parseArg() *ast.Arg {
	pos := p.tok.Pos
	next := p.peekNext()
	if p.tok.Kind == token.IDENT && next.Kind == token.PUNCT && next.Literal == "=" {
		name := p.tok.Literal
		p.advance()
		p.advance() // '='
		val := p.parseExpr()
		return &ast.Arg{KwName: &name, Value: val, PosV: pos}
	}
	val := p.parseExpr()
	return &ast.Arg{Value: val, PosV: pos}
}
