package parser

import (
	"strconv"
	"strings"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/token"
)

// parseExpr parses a cast_expr, followed by at most one binary operator
// and a second cast_expr: the language never chains arithmetic, so
// `a + b + c` is not legal without parentheses around one of the pairs.
func (p *Parser) parseExpr() ast.Expr {
	lhs := p.parseCastExpr()
	if p.atPunct("+") || p.atPunct("-") || p.atPunct("*") || p.atPunct("/") {
		pos := p.tok.Pos
		op := p.tok.Literal
		p.advance()
		rhs := p.parseCastExpr()
		return &ast.BinaryExpr{Op: op, Left: lhs, Right: rhs, PosV: pos}
	}
	return lhs
}

// parseCastExpr recognises `Type'operand`: since the expression grammar
// never places two primaries back to back without an operator, a bare
// identifier directly followed by an ATOM token can only be this
// construct (the lexer folds the apostrophe into the following atom
// token, so there is no separate punctuation to key off of).
func (p *Parser) parseCastExpr() ast.Expr {
	if p.tok.Kind == token.IDENT && p.peekNext().Kind == token.ATOM {
		pos := p.tok.Pos
		typeExpr := p.parseSimpleType()
		operand := p.parseCastExpr()
		return &ast.CastExpr{TypeExpr: typeExpr, Operand: operand, PosV: pos}
	}
	return p.parseMemberExpr()
}

func (p *Parser) parseMemberExpr() ast.Expr {
	base := p.parseSliceExpr()
	for p.atPunct(".") {
		pos := p.tok.Pos
		p.advance()
		field, _ := p.parseIdent()
		base = &ast.MemberExpr{Base: base, Field: field, PosV: pos}
	}
	return base
}

func (p *Parser) parseSliceExpr() ast.Expr {
	base := p.parseFnCall()
	if p.atPunct("[") {
		pos := p.tok.Pos
		p.advance()
		first := p.parseExpr()
		if p.atPunct(":") {
			p.advance()
			second := p.parseExpr()
			p.expectPunct("]")
			return &ast.SliceExpr{Base: base, Left: first, Right: second, PosV: pos}
		}
		p.expectPunct("]")
		return &ast.SubscriptExpr{Base: base, Index: first, PosV: pos}
	}
	return base
}

func (p *Parser) parseFnCall() ast.Expr {
	base := p.parseAtomExpr()
	if p.atPunct("(") {
		ref, ok := base.(*ast.RefExpr)
		if !ok {
			p.errorf(p.tok.Pos, "call target must be a plain name")
		}
		pos := p.tok.Pos
		p.advance()
		var args []ast.Expr
		for !p.atPunct(")") && !p.at(token.EOF) {
			args = append(args, p.parseExpr())
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.expectPunct(")")
		name := ""
		if ref != nil {
			name = ref.Name
		}
		return &ast.CallExpr{Func: name, Args: args, PosV: pos}
	}
	return base
}

func (p *Parser) parseAtomExpr() ast.Expr {
	pos := p.tok.Pos
	switch {
	case p.atPunct("-") || p.atPunct("~"):
		op := p.tok.Literal
		p.advance()
		operand := p.parseCastExpr()
		return &ast.UnaryExpr{Op: op, Operand: operand, PosV: pos}

	case p.at(token.ATOM):
		name := p.tok.Literal
		p.advance()
		return &ast.AtomExpr{Name: name, PosV: pos}

	case p.at(token.INT):
		lit := p.tok.Literal
		p.advance()
		v, _ := strconv.Atoi(lit)
		return &ast.NumExpr{Value: v, PosV: pos}

	case p.at(token.SIZED_NUM):
		lit := p.tok.Literal
		p.advance()
		width, bits := decodeSizedLiteral(lit)
		return &ast.SizedNumExpr{Width: width, Bits: bits, PosV: pos}

	case p.at(token.IDENT):
		name := p.tok.Literal
		p.advance()
		return &ast.RefExpr{Name: name, PosV: pos}

	case p.atPunct("{"):
		p.advance()
		var items []string
		for !p.atPunct("}") && !p.at(token.EOF) {
			name, _ := p.parseIdent()
			items = append(items, name)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.expectPunct("}")
		return &ast.SetExpr{Items: items, PosV: pos}

	case p.atPunct("("):
		p.advance()
		inner := p.parseExpr()
		p.expectPunct(")")
		return inner

	default:
		p.errorf(pos, "expected an expression, found %q", p.tok.Literal)
		p.advance()
		return &ast.NumExpr{Value: 0, PosV: pos}
	}
}

// decodeSizedLiteral splits a SIZED_NUM token's literal text (e.g.
// "8'hFF", "4'b1010", "3'o7", "2'd3") into its declared width and a
// value string already normalized to binary digits ('0'/'1'/'x'/'z'/'?'),
// so the expansion happens once, here, rather than being redone at
// evaluation or emission time.
func decodeSizedLiteral(lit string) (int, string) {
	i := strings.IndexByte(lit, '\'')
	if i < 0 {
		return 0, ""
	}
	width, _ := strconv.Atoi(lit[:i])
	base := lit[i+1]
	digits := lit[i+2:]

	var sb strings.Builder
	switch base {
	case 'b':
		for _, c := range digits {
			if c != '_' {
				sb.WriteRune(c)
			}
		}
	case 'o':
		for _, c := range digits {
			if c == '_' {
				continue
			}
			sb.WriteString(expandDigit(c, 3))
		}
	case 'h':
		for _, c := range digits {
			if c == '_' {
				continue
			}
			sb.WriteString(expandDigit(c, 4))
		}
	case 'd':
		clean := strings.ReplaceAll(digits, "_", "")
		v, _ := strconv.ParseInt(clean, 10, 64)
		sb.WriteString(strconv.FormatInt(v, 2))
	}
	return width, sb.String()
}

// expandDigit renders one octal (n=3) or hex (n=4) digit as an n-bit
// binary group, or as n copies of an x/z/? don't-care marker.
func expandDigit(c rune, n int) string {
	switch c {
	case 'x', 'z', '?':
		return strings.Repeat(string(c), n)
	}
	v, err := strconv.ParseInt(string(c), 16, 64)
	if err != nil {
		return strings.Repeat("x", n)
	}
	s := strconv.FormatInt(v, 2)
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}
	return s
}
