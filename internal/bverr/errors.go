// Package bverr provides structured compile-time errors for the BV
// toolchain: a typed error per failure kind plus source-context
// formatting.
package bverr

import (
	"fmt"
	"strings"

	"github.com/bvlang/bvc/internal/token"
)

// Kind classifies a Error by the phase/reason that raised it.
type Kind string

const (
	KindName       Kind = "name"        // unresolved identifier
	KindKind       Kind = "kind"        // resolved to a declaration of the wrong kind
	KindType       Kind = "type"        // structural type mismatch
	KindEval       Kind = "eval"        // constant expression could not be evaluated
	KindRecursion  Kind = "recursion"   // module/interface instantiation cycle
	KindBounds     Kind = "bounds"      // array/slice index or width out of range
	KindArgs       Kind = "args"        // parameter/argument count or name mismatch
	KindSyntax     Kind = "syntax"      // lexer/parser error
)

// Error is a single structured compiler error carrying its kind,
// position, and optional source context for caret-style formatting.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Source  string
	File    string
}

// New builds an Error of the given kind at pos. message is used as-is;
// callers pass fmt.Sprintf output.
func New(kind Kind, pos token.Position, message string) *Error {
	return &Error{Kind: kind, Message: message, Pos: pos}
}

// Namef reports an unresolved identifier.
func Namef(pos token.Position, format string, args ...interface{}) *Error {
	return New(KindName, pos, fmt.Sprintf(format, args...))
}

// Kindf reports a declaration found but of an unexpected kind.
func Kindf(pos token.Position, format string, args ...interface{}) *Error {
	return New(KindKind, pos, fmt.Sprintf(format, args...))
}

// Typef reports a structural type mismatch.
func Typef(pos token.Position, format string, args ...interface{}) *Error {
	return New(KindType, pos, fmt.Sprintf(format, args...))
}

// Evalf reports a constant expression that could not be evaluated.
func Evalf(pos token.Position, format string, args ...interface{}) *Error {
	return New(KindEval, pos, fmt.Sprintf(format, args...))
}

// Recursionf reports a cyclic module/interface instantiation.
func Recursionf(pos token.Position, format string, args ...interface{}) *Error {
	return New(KindRecursion, pos, fmt.Sprintf(format, args...))
}

// Boundsf reports an out-of-range index or width.
func Boundsf(pos token.Position, format string, args ...interface{}) *Error {
	return New(KindBounds, pos, fmt.Sprintf(format, args...))
}

// Argsf reports a parameter/argument mismatch during instantiation.
func Argsf(pos token.Position, format string, args ...interface{}) *Error {
	return New(KindArgs, pos, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Pos.String())
}

// Format renders the error with a source line and a caret pointing at
// e.Pos.Column.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "error in %s:%d:%d: %s\n", e.File, e.Pos.Line, e.Pos.Column, e.Kind)
	} else {
		fmt.Fprintf(&sb, "error at %d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Kind)
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// List is a collection of Errors produced by one analysis pass, with a
// combined Error() rendering suitable for a single diagnostic report.
type List []*Error

func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "build failed with %d error(s):\n", len(l))
	for i, e := range l {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e.Error())
	}
	return sb.String()
}

// Format renders every error in the list with source context.
func (l List) Format(color bool) string {
	if len(l) == 0 {
		return ""
	}
	if len(l) == 1 {
		return l[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "build failed with %d error(s):\n\n", len(l))
	for i, e := range l {
		fmt.Fprintf(&sb, "[%d/%d]\n", i+1, len(l))
		sb.WriteString(e.Format(color))
		if i < len(l)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
