package sema_test

import (
	"testing"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/sema"
)

func TestPrepassLinksDefToModule(t *testing.T) {
	mod := &ast.ModuleDecl{
		Name:  "Counter",
		Ports: []*ast.Port{{Dir: "o", Name: "q", Type: &ast.BitType{}}},
	}
	sig := &ast.Signal{Name: "count", Type: &ast.BitType{}}
	def := &ast.DefDecl{ModuleName: "Counter", Members: []ast.DefMember{sig}}
	unit := &ast.Unit{Decls: []ast.Decl{mod, def}}

	root, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(mod.Defs) != 1 || mod.Defs[0] != def {
		t.Fatalf("expected def linked to module, got %+v", mod.Defs)
	}
	if def.Module != mod {
		t.Fatalf("def.Module not set to module")
	}
	if def.Scope == nil || def.Scope.Parent() != mod.Scope {
		t.Fatalf("def scope must be a child of the module scope")
	}
	decl, ok := def.Scope.Lookup("count")
	if !ok || decl != sig {
		t.Fatalf("signal not registered in def scope")
	}
	if _, ok := root.Lookup("Counter"); !ok {
		t.Fatalf("module not registered in root scope")
	}
}

func TestPrepassResolvesSetType(t *testing.T) {
	enum := &ast.EnumDecl{Name: "State", Atoms: []ast.EnumAtom{{Name: "idle"}, {Name: "busy"}}}
	setType := &ast.SetTypeExpr{EnumName: "State"}
	port := &ast.Port{Dir: "i", Name: "mask", Type: setType}
	mod := &ast.ModuleDecl{Name: "M", Ports: []*ast.Port{port}}
	unit := &ast.Unit{Decls: []ast.Decl{enum, mod}}

	_, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if setType.Decl != enum {
		t.Fatalf("set-type enum decl not resolved")
	}
}

func TestPrepassReportsUndefinedModuleForDef(t *testing.T) {
	def := &ast.DefDecl{ModuleName: "Missing"}
	unit := &ast.Unit{Decls: []ast.Decl{def}}

	_, errs := sema.Prepass([]*ast.Unit{unit})
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
}
