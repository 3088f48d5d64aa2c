package elaborate_test

import (
	"strings"
	"testing"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/elaborate"
	"github.com/bvlang/bvc/internal/parser"
	"github.com/bvlang/bvc/internal/sema"
	"github.com/bvlang/bvc/internal/token"
)

func elaborateSource(t *testing.T, src string) (*ast.Unit, *elaborate.Elaborator) {
	t.Helper()
	unit, errs := parser.New("t.bv", src).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	root, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 0 {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
	unit.Scope = root
	return unit, elaborate.New(root)
}

// TestEnumAssignment checks that assigning a bare atom to an
// enum-typed signal resolves to the atom's declaration-order index.
func TestEnumAssignment(t *testing.T) {
	src := "enum State:\n" +
		"    idle, busy, done\n" +
		"module m:\n" +
		"    i go\n" +
		"    o done_out\n" +
		"def m:\n" +
		"    sig state: State\n" +
		"    always:\n" +
		"        state = 'busy\n"

	unit, el := elaborateSource(t, src)
	inst, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	always := findAlways(t, inst.Decls)
	assign := always.Body[0].(*ast.AssignStmt)
	e, ok := assign.Value.(*ast.EnumExpr)
	if !ok {
		t.Fatalf("expected an enum expr, got %T", assign.Value)
	}
	if e.Index != 1 || e.Decl.Name != "State" {
		t.Fatalf("unexpected enum expr: index=%d decl=%s", e.Index, e.Decl.Name)
	}
}

// TestSetLiteral checks that a `{a, b}` literal assigned to a set(Enum)
// signal is converted to a reversed sized bit-mask.
func TestSetLiteral(t *testing.T) {
	src := "enum Flag:\n" +
		"    a, b, c\n" +
		"module m:\n" +
		"    o q\n" +
		"def m:\n" +
		"    sig flags: set(Flag)\n" +
		"    always:\n" +
		"        flags = {a, c}\n"

	unit, el := elaborateSource(t, src)
	inst, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	always := findAlways(t, inst.Decls)
	assign := always.Body[0].(*ast.AssignStmt)
	num, ok := assign.Value.(*ast.SizedNumExpr)
	if !ok {
		t.Fatalf("expected a sized literal, got %T", assign.Value)
	}
	if num.Width != 3 {
		t.Fatalf("unexpected width: %d", num.Width)
	}
	// a (index 0) and c (index 2) set, b (index 1) clear, reversed to
	// put index 0 at the LSB: "101".
	if num.Bits != "101" {
		t.Fatalf("unexpected bit mask: %q", num.Bits)
	}
}

// TestStructuralXAssignment checks that assigning 'x to an
// interface-instance-typed signal produces an XExpr rather than an
// enum expr.
func TestStructuralXAssignment(t *testing.T) {
	src := "interface Bus:\n" +
		"    i valid\n" +
		"    i data\n" +
		"module m:\n" +
		"    i go\n" +
		"def m:\n" +
		"    sig b: Bus\n" +
		"    always:\n" +
		"        b = 'x\n"

	unit, el := elaborateSource(t, src)
	inst, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	always := findAlways(t, inst.Decls)
	assign := always.Body[0].(*ast.AssignStmt)
	if _, ok := assign.Value.(*ast.XExpr); !ok {
		t.Fatalf("expected an x expr, got %T", assign.Value)
	}
}

// TestRecursiveInstantiation checks that a module whose own body
// instantiates itself is rejected rather than recursing forever.
func TestRecursiveInstantiation(t *testing.T) {
	src := "module m:\n" +
		"    i a\n" +
		"    o b\n" +
		"def m:\n" +
		"    inst self: m\n" +
		"        a <= 0\n" +
		"        b => b\n"

	unit, el := elaborateSource(t, src)
	if _, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil); err == nil {
		t.Fatalf("expected recursive instantiation to fail")
	}
}

// TestModuleMemoization checks that two instantiations of the same
// zero-parameter module return the identical *ModuleInstance.
func TestModuleMemoization(t *testing.T) {
	src := "module m:\n" +
		"    i a\n" +
		"    o b\n" +
		"def m:\n" +
		"    always:\n" +
		"        b = a\n"

	unit, el := elaborateSource(t, src)
	first, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	second, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected memoized instance, got two distinct instances")
	}
	if len(el.Modules()) != 1 {
		t.Fatalf("expected exactly one recorded module instance, got %d", len(el.Modules()))
	}
}

// TestInterfacePortFlattening checks that a structured port expands
// into flat leaves named <port>__<member>, with the member's own
// direction deciding input vs output.
func TestInterfacePortFlattening(t *testing.T) {
	src := "interface bus(w):\n" +
		"    i data: bit[w-1:0]\n" +
		"module m:\n" +
		"    i p: bus(8)\n"

	unit, el := elaborateSource(t, src)
	inst, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	flats, err := elaborate.ExpandPorts(inst.Ports, "o")
	if err != nil {
		t.Fatalf("port expansion failed: %v", err)
	}
	if len(flats) != 1 {
		t.Fatalf("expected one flat port, got %d", len(flats))
	}
	fp := flats[0]
	if fp.Output {
		t.Fatalf("expected %q to flatten as an input", fp.Name)
	}
	if fp.Name != "p__data" {
		t.Fatalf("unexpected flat name %q", fp.Name)
	}
	if len(fp.Bounds) != 1 || fp.Bounds[0].Left != 7 || fp.Bounds[0].Right != 0 {
		t.Fatalf("unexpected bounds %+v", fp.Bounds)
	}
}

// TestExpandPortContextIndependence checks that a nested interface
// flattens to the same leaf list whether its ports are reached directly
// or spliced through a use-directive, differing only in name prefix.
func TestExpandPortContextIndependence(t *testing.T) {
	src := "interface leaf:\n" +
		"    i a\n" +
		"    o b: bit[3:0]\n" +
		"interface wrap:\n" +
		"    use leaf\n" +
		"module m:\n" +
		"    i p: leaf\n" +
		"    i q: wrap\n"

	unit, el := elaborateSource(t, src)
	inst, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	direct, err := elaborate.ExpandPort("p", "i", inst.Ports[0].RType, "o")
	if err != nil {
		t.Fatalf("direct expansion failed: %v", err)
	}
	nested, err := elaborate.ExpandPort("q", "i", inst.Ports[1].RType, "o")
	if err != nil {
		t.Fatalf("nested expansion failed: %v", err)
	}
	if len(direct) != len(nested) {
		t.Fatalf("leaf count differs: %d vs %d", len(direct), len(nested))
	}
	for i := range direct {
		d, n := direct[i], nested[i]
		if strings.TrimPrefix(d.Name, "p__") != strings.TrimPrefix(n.Name, "q__") {
			t.Errorf("leaf %d: names %q and %q differ beyond the prefix", i, d.Name, n.Name)
		}
		if d.Output != n.Output {
			t.Errorf("leaf %d: output flags differ", i)
		}
		if len(d.Bounds) != len(n.Bounds) {
			t.Errorf("leaf %d: bounds differ: %+v vs %+v", i, d.Bounds, n.Bounds)
			continue
		}
		for j := range d.Bounds {
			if d.Bounds[j] != n.Bounds[j] {
				t.Errorf("leaf %d: bound %d differs: %+v vs %+v", i, j, d.Bounds[j], n.Bounds[j])
			}
		}
	}
}

// TestElaboratedExprsAllTyped walks every statement of an elaborated
// body and checks that each expression node carries a non-nil type.
func TestElaboratedExprsAllTyped(t *testing.T) {
	src := "enum State:\n" +
		"    idle, busy\n" +
		"module m:\n" +
		"    i a: bit[7:0]\n" +
		"    o q\n" +
		"def m:\n" +
		"    sig state: State\n" +
		"    always:\n" +
		"        if a[0]:\n" +
		"            q = a[1]\n" +
		"        else:\n" +
		"            q = a[5]\n" +
		"        state = 'busy\n"

	unit, el := elaborateSource(t, src)
	inst, err := el.InstantiateModule(unit.Scope, token.Position{}, "m", nil)
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	always := findAlways(t, inst.Decls)
	var checkExpr func(e ast.Expr)
	checkExpr = func(e ast.Expr) {
		if e.Type() == nil {
			t.Errorf("expression %T has no type after elaboration", e)
		}
		switch v := e.(type) {
		case *ast.BinaryExpr:
			checkExpr(v.Left)
			checkExpr(v.Right)
		case *ast.UnaryExpr:
			checkExpr(v.Operand)
		case *ast.MemberExpr:
			checkExpr(v.Base)
		case *ast.SliceExpr:
			checkExpr(v.Base)
		case *ast.SubscriptExpr:
			checkExpr(v.Base)
			checkExpr(v.Index)
		case *ast.CastExpr:
			checkExpr(v.Operand)
		}
	}
	var checkStmts func(stmts []ast.Stmt)
	checkStmts = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *ast.AssignStmt:
				checkExpr(v.Target)
				checkExpr(v.Value)
			case *ast.IfStmt:
				checkExpr(v.Cond)
				checkStmts(v.Then)
				checkStmts(v.Else)
			case *ast.SwitchStmt:
				checkExpr(v.Disc)
				for _, c := range v.Cases {
					checkExpr(c.Value)
					checkStmts(c.Body)
				}
			}
		}
	}
	checkStmts(always.Body)
}

// TestFailedInstantiationDoesNotPoison checks that a failed elaboration
// leaves the elaborator usable: the cycle still reports an error on a
// second attempt instead of handing back a half-built memo entry, and
// an unrelated module still elaborates.
func TestFailedInstantiationDoesNotPoison(t *testing.T) {
	src := "module loop:\n" +
		"    i a\n" +
		"def loop:\n" +
		"    inst self: loop\n" +
		"        a <= 0\n" +
		"module ok:\n" +
		"    i a\n" +
		"    o b\n" +
		"def ok:\n" +
		"    always:\n" +
		"        b = a\n"

	unit, el := elaborateSource(t, src)
	if _, err := el.InstantiateModule(unit.Scope, token.Position{}, "loop", nil); err == nil {
		t.Fatalf("expected recursive instantiation to fail")
	}
	if _, err := el.InstantiateModule(unit.Scope, token.Position{}, "loop", nil); err == nil {
		t.Fatalf("expected the retry to fail the same way, got a memoised instance")
	}
	if _, err := el.InstantiateModule(unit.Scope, token.Position{}, "ok", nil); err != nil {
		t.Fatalf("unrelated module failed after an earlier error: %v", err)
	}
}

func findAlways(t *testing.T, decls []ast.DefMember) *ast.Always {
	t.Helper()
	for _, d := range decls {
		if a, ok := d.(*ast.Always); ok {
			return a
		}
	}
	t.Fatalf("no always block found among %d decls", len(decls))
	return nil
}
