// Package eval implements the constant-expression evaluator used to
// fold parameter and bound expressions to integers during
// instantiation.
package eval

import (
	"strconv"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/bverr"
	"github.com/bvlang/bvc/internal/scope"
)

// builtins holds the constant functions callable from a bound
// expression. log2 requires n >= 1 and rejects the domain explicitly
// rather than returning a nonsensical result for n <= 0.
var builtins = map[string]func(int) (int, error){
	"log2": func(n int) (int, error) {
		if n < 1 {
			return 0, errDomain
		}
		bits := 0
		v := n
		for v > 1 {
			v >>= 1
			bits++
		}
		// floor(log2(n)) for n >= 1.
		return bits, nil
	},
}

var errDomain = &domainError{}

type domainError struct{}

func (*domainError) Error() string { return "log2 requires n >= 1" }

// Eval evaluates expr to an integer constant against sc, the scope in
// which free references (parameters, other constants) are resolved.
func Eval(sc *scope.Scope, expr ast.Expr) (int, error) {
	switch e := expr.(type) {
	case *ast.NumExpr:
		return e.Value, nil

	case *ast.SizedNumExpr:
		for _, c := range e.Bits {
			if c == 'x' || c == 'z' || c == '?' {
				return 0, bverr.Evalf(e.Pos(), "sized literal with don't-care bits is not a constant expression")
			}
		}
		v, err := strconv.ParseInt(e.Bits, 2, 64)
		if err != nil {
			return 0, bverr.Evalf(e.Pos(), "malformed sized literal %q: %v", e.Bits, err)
		}
		return int(v), nil

	case *ast.UnaryExpr:
		v, err := Eval(sc, e.Operand)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case "-":
			return -v, nil
		case "~":
			return ^v, nil
		}
		return 0, bverr.Evalf(e.Pos(), "invalid unary operator %q in constant expression", e.Op)

	case *ast.BinaryExpr:
		lhs, err := Eval(sc, e.Left)
		if err != nil {
			return 0, err
		}
		rhs, err := Eval(sc, e.Right)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case "+":
			return lhs + rhs, nil
		case "-":
			return lhs - rhs, nil
		case "*":
			return lhs * rhs, nil
		case "/":
			if rhs == 0 {
				return 0, bverr.Evalf(e.Pos(), "division by zero in constant expression")
			}
			return lhs / rhs, nil
		}
		return 0, bverr.Evalf(e.Pos(), "invalid binary operator %q in constant expression", e.Op)

	case *ast.CallExpr:
		fn, ok := builtins[e.Func]
		if !ok {
			return 0, bverr.Evalf(e.Pos(), "unknown builtin function %q", e.Func)
		}
		if len(e.Args) != 1 {
			return 0, bverr.Evalf(e.Pos(), "%s takes exactly one argument", e.Func)
		}
		arg, err := Eval(sc, e.Args[0])
		if err != nil {
			return 0, err
		}
		v, err := fn(arg)
		if err != nil {
			return 0, bverr.Evalf(e.Pos(), "%s(%d): %v", e.Func, arg, err)
		}
		return v, nil

	case *ast.RefExpr:
		target, ok := sc.Lookup(e.Name)
		if !ok {
			return 0, bverr.Namef(e.Pos(), "undefined name %q in constant expression", e.Name)
		}
		// A ParamBinding has no sub-scope to recurse into: its value was
		// already folded to an integer when the argument scope was built.
		if pb, ok := target.(*ast.ParamBinding); ok {
			return pb.Value, nil
		}
		if refExpr, ok := target.(ast.Expr); ok {
			return Eval(sc, refExpr)
		}
		return 0, bverr.Kindf(e.Pos(), "%q does not name a constant expression", e.Name)
	}

	return 0, bverr.Evalf(expr.Pos(), "expression is not a constant")
}
