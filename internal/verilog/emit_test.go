package verilog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/elaborate"
	"github.com/bvlang/bvc/internal/parser"
	"github.com/bvlang/bvc/internal/sema"
	"github.com/bvlang/bvc/internal/token"
	"github.com/bvlang/bvc/internal/verilog"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEmitPassthroughModule elaborates a minimal module and snapshots
// its rendered Verilog, catching accidental formatting regressions in
// the emitter.
func TestEmitPassthroughModule(t *testing.T) {
	src := "module passthrough:\n" +
		"    i a\n" +
		"    o b\n" +
		"def passthrough:\n" +
		"    always:\n" +
		"        b = a\n"

	unit, errs := parser.New("passthrough.bv", src).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	root, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 0 {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}

	el := elaborate.New(root)
	if _, err := el.InstantiateModule(root, token.Position{}, "passthrough", nil); err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	var buf bytes.Buffer
	if err := verilog.Emit(&buf, el.Modules()); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	snaps.MatchSnapshot(t, "passthrough_module", buf.String())
}

func emitSource(t *testing.T, src, module string) string {
	t.Helper()
	unit, errs := parser.New("t.bv", src).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	root, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 0 {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
	el := elaborate.New(root)
	if _, err := el.InstantiateModule(root, token.Position{}, module, nil); err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	var buf bytes.Buffer
	if err := verilog.Emit(&buf, el.Modules()); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	return buf.String()
}

// TestEmitEnumAssignment checks that an enum atom assignment renders as
// a sized decimal: index 1 of a 3-atom enum in ceil(log2 3) = 2 bits.
func TestEmitEnumAssignment(t *testing.T) {
	src := "enum State:\n" +
		"    idle, busy, done\n" +
		"module m:\n" +
		"    i go\n" +
		"def m:\n" +
		"    sig state: State\n" +
		"    always:\n" +
		"        state = 'busy\n"

	out := emitSource(t, src, "m")
	if !strings.Contains(out, "state = 2'd1;") {
		t.Fatalf("expected enum assignment 2'd1, got:\n%s", out)
	}
}

// TestEmitSetLiteral checks that a set literal renders as a bit mask
// with bit i set iff the enumerator at index i appears.
func TestEmitSetLiteral(t *testing.T) {
	src := "enum Flag:\n" +
		"    a, b, c\n" +
		"module m:\n" +
		"    i go\n" +
		"def m:\n" +
		"    sig flags: set(Flag)\n" +
		"    always:\n" +
		"        flags = {a, c}\n"

	out := emitSource(t, src, "m")
	if !strings.Contains(out, "flags = 3'b101;") {
		t.Fatalf("expected set literal 3'b101, got:\n%s", out)
	}
}

// TestEmitStructuralX checks that assigning 'x to an interface-typed
// signal expands into one 1'sbx assignment per flat leaf.
func TestEmitStructuralX(t *testing.T) {
	src := "interface Bus:\n" +
		"    i valid\n" +
		"    i data: bit[3:0]\n" +
		"module m:\n" +
		"    i go\n" +
		"def m:\n" +
		"    sig b: Bus\n" +
		"    always:\n" +
		"        b = 'x\n"

	out := emitSource(t, src, "m")
	if !strings.Contains(out, "b__valid = 1'sbx;") {
		t.Fatalf("expected a leaf x-assignment for b__valid, got:\n%s", out)
	}
	if !strings.Contains(out, "b__data[3:0] = 1'sbx;") {
		t.Fatalf("expected a leaf x-assignment for b__data, got:\n%s", out)
	}
}

// TestEmitInterfacePortIsInput checks that a structured input port
// flattens into input leaves named <port>__<member>.
func TestEmitInterfacePortIsInput(t *testing.T) {
	src := "interface bus(w):\n" +
		"    i data: bit[w-1:0]\n" +
		"module m(w):\n" +
		"    i p: bus(w)\n"

	unit, errs := parser.New("t.bv", src).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	root, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 0 {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
	el := elaborate.New(root)
	arg := &ast.Arg{Value: &ast.NumExpr{Value: 8}}
	if _, err := el.InstantiateModule(root, token.Position{}, "m", []*ast.Arg{arg}); err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	var buf bytes.Buffer
	if err := verilog.Emit(&buf, el.Modules()); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if !strings.Contains(buf.String(), "input[7:0] p__data") {
		t.Fatalf("expected an input [7:0] p__data leaf, got:\n%s", buf.String())
	}
}

// TestEmitParameterisedBus checks that two distinct instantiations of
// the same parameterised module mangle into distinct module names.
func TestEmitParameterisedBus(t *testing.T) {
	src := "module bus(width):\n" +
		"    i a: bit[width-1:0]\n" +
		"    o b: bit[width-1:0]\n" +
		"def bus:\n" +
		"    always:\n" +
		"        b = a\n"

	unit, errs := parser.New("bus.bv", src).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	root, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 0 {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}

	el := elaborate.New(root)
	one := &ast.Arg{Value: &ast.NumExpr{Value: 4}}
	two := &ast.Arg{Value: &ast.NumExpr{Value: 8}}
	inst4, err := el.InstantiateModule(root, token.Position{}, "bus", []*ast.Arg{one})
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	inst8, err := el.InstantiateModule(root, token.Position{}, "bus", []*ast.Arg{two})
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	if inst4.InstanceName() == inst8.InstanceName() {
		t.Fatalf("expected distinct instance names, both got %q", inst4.InstanceName())
	}
}
