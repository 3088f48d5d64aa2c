// Package token holds source-position types shared by the lexer, parser,
// AST, and error packages.
package token

import "fmt"

// Position identifies a single point in a source file. Columns and lines
// are 1-indexed; Offset is the 0-indexed rune offset from the start of
// the file.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// String renders the position as "file:line:column", or "line:column"
// when File is empty.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Kind enumerates lexical token kinds produced by the lexer.
type Kind int

const (
	EOF Kind = iota
	NEWLINE
	INDENT
	DEDENT
	IDENT
	KEYWORD
	INT
	ATOM
	SIZED_NUM
	PUNCT
)

// Token is a single lexeme with its position and literal text.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}
