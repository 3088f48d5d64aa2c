package eval_test

import (
	"testing"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/eval"
	"github.com/bvlang/bvc/internal/scope"
)

func TestEvalArithmetic(t *testing.T) {
	sc := scope.New(nil)
	expr := &ast.BinaryExpr{
		Op:    "+",
		Left:  &ast.NumExpr{Value: 2},
		Right: &ast.BinaryExpr{Op: "*", Left: &ast.NumExpr{Value: 3}, Right: &ast.NumExpr{Value: 4}},
	}
	got, err := eval.Eval(sc, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 14 {
		t.Fatalf("want 14, got %d", got)
	}
}

func TestEvalLog2(t *testing.T) {
	sc := scope.New(nil)
	cases := []struct {
		n, want int
	}{
		{1, 0}, {2, 1}, {4, 2}, {7, 2}, {8, 3}, {255, 7},
	}
	for _, c := range cases {
		expr := &ast.CallExpr{Func: "log2", Args: []ast.Expr{&ast.NumExpr{Value: c.n}}}
		got, err := eval.Eval(sc, expr)
		if err != nil {
			t.Fatalf("log2(%d): unexpected error: %v", c.n, err)
		}
		if got != c.want {
			t.Errorf("log2(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestEvalLog2DomainGuard(t *testing.T) {
	sc := scope.New(nil)
	expr := &ast.CallExpr{Func: "log2", Args: []ast.Expr{&ast.NumExpr{Value: 0}}}
	if _, err := eval.Eval(sc, expr); err == nil {
		t.Fatal("expected an error for log2(0), got nil")
	}
}

func TestEvalRefThroughParamBinding(t *testing.T) {
	sc := scope.New(nil)
	sc.Add("WIDTH", &ast.ParamBinding{Name: "WIDTH", Value: 8})
	expr := &ast.RefExpr{Name: "WIDTH"}
	got, err := eval.Eval(sc, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8 {
		t.Fatalf("want 8, got %d", got)
	}
}

func TestEvalSizedLiteral(t *testing.T) {
	sc := scope.New(nil)
	expr := &ast.SizedNumExpr{Width: 4, Bits: "1010"}
	got, err := eval.Eval(sc, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10 {
		t.Fatalf("want 10, got %d", got)
	}
}

func TestEvalSizedLiteralDontCareRejected(t *testing.T) {
	sc := scope.New(nil)
	expr := &ast.SizedNumExpr{Width: 4, Bits: "10x0"}
	if _, err := eval.Eval(sc, expr); err == nil {
		t.Fatal("expected an error for a don't-care sized literal, got nil")
	}
}

func TestEvalUndefinedName(t *testing.T) {
	sc := scope.New(nil)
	expr := &ast.RefExpr{Name: "NOPE"}
	if _, err := eval.Eval(sc, expr); err == nil {
		t.Fatal("expected an error for an undefined name, got nil")
	}
}
