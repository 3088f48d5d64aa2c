// Package sema implements the semantic pre-pass: it builds the
// top-level scope graph, binds every declaration's own scope, resolves
// every written type expression to its declaration, and links each def
// to its module — all before any parameterised instantiation happens.
package sema

import (
	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/bverr"
	"github.com/bvlang/bvc/internal/scope"
)

// Prepass runs both declaration passes over units and returns the
// shared root scope. Every unit's Scope field is set to the same root.
// It stops at the first error and returns it as a one-element list; the
// root scope is still returned so callers can inspect what did resolve.
func Prepass(units []*ast.Unit) (*scope.Scope, bverr.List) {
	root := scope.New(nil)

	// Pass 1: register every interface/enum/module at the root and
	// attach its own child scope. Module ports are registered into the
	// module's scope immediately, since a module's own port list never
	// depends on anything resolved in pass 2.
	for _, unit := range units {
		unit.Scope = root
		for _, decl := range unit.Decls {
			switch d := decl.(type) {
			case *ast.InterfaceDecl:
				root.Add(d.Name, d)
				d.Scope = scope.New(root)
			case *ast.EnumDecl:
				root.Add(d.Name, d)
				d.Scope = scope.New(root)
			case *ast.ModuleDecl:
				root.Add(d.Name, d)
				d.Scope = scope.New(root)
				for _, port := range d.Ports {
					d.Scope.Add(port.Name, port)
				}
				d.Defs = nil
			}
		}
	}

	// Pass 2: resolve every written type expression, and link defs to
	// their owning module.
	for _, unit := range units {
		for _, decl := range unit.Decls {
			switch d := decl.(type) {
			case *ast.InterfaceDecl:
				for _, mem := range d.Members {
					switch m := mem.(type) {
					case *ast.Port:
						if err := resolveType(d.Scope, m.Type); err != nil {
							return root, bverr.List{err}
						}
					case *ast.UseMember:
						if err := resolveUseMember(d.Scope, m); err != nil {
							return root, bverr.List{err}
						}
					}
				}
			case *ast.ModuleDecl:
				for _, port := range d.Ports {
					if err := resolveType(d.Scope, port.Type); err != nil {
						return root, bverr.List{err}
					}
				}
			case *ast.DefDecl:
				found, ok := root.LookupKind(d.ModuleName, "module")
				if !ok {
					return root, bverr.List{bverr.Namef(d.Pos(), "def refers to undeclared module %q", d.ModuleName)}
				}
				mod, ok := found.(*ast.ModuleDecl)
				if !ok {
					return root, bverr.List{bverr.Kindf(d.Pos(), "%q is not a module", d.ModuleName)}
				}
				mod.Defs = append(mod.Defs, d)
				d.Module = mod
				d.Scope = scope.New(mod.Scope)
				for _, mem := range d.Members {
					switch m := mem.(type) {
					case *ast.Signal:
						d.Scope.Add(m.Name, m)
					case *ast.Inst:
						d.Scope.Add(m.Name, m)
					}
				}
				for _, mem := range d.Members {
					if sig, ok := mem.(*ast.Signal); ok {
						if err := resolveType(d.Scope, sig.Type); err != nil {
							return root, bverr.List{err}
						}
					}
				}
			}
		}
	}

	return root, nil
}

// resolveType recursively resolves a written type expression's free
// type name(s) to their declaration, mutating StructTypeExpr/
// SetTypeExpr in place to carry the resolved Decl.
func resolveType(sc *scope.Scope, t ast.Type) *bverr.Error {
	switch typ := t.(type) {
	case *ast.ArrayTypeExpr:
		return resolveType(sc, typ.Elem)

	case *ast.SetTypeExpr:
		found, ok := sc.Lookup(typ.EnumName)
		if !ok {
			return bverr.Namef(typ.Pos(), "unknown type %q", typ.EnumName)
		}
		enumDecl, ok := found.(*ast.EnumDecl)
		if !ok {
			return bverr.Kindf(typ.Pos(), "expected enum, found %q", typ.EnumName)
		}
		typ.Decl = enumDecl
		return nil

	case *ast.StructTypeExpr:
		found, ok := sc.Lookup(typ.Name)
		if !ok {
			return bverr.Namef(typ.Pos(), "unknown type %q", typ.Name)
		}
		if found.DeclKind() != "interface" && found.DeclKind() != "enum" {
			return bverr.Kindf(typ.Pos(), "expected an interface or enum type, found %q", typ.Name)
		}
		if decl, ok := found.(ast.Decl); ok {
			typ.Decl = decl
		} else {
			return bverr.Kindf(typ.Pos(), "%q does not resolve to a declaration", typ.Name)
		}
		return nil

	case *ast.BitType:
		return nil
	}
	return bverr.Typef(t.Pos(), "unhandled type expression %T", t)
}

// resolveUseMember validates that a `use` directive names an interface
// declaration, never an enum.
func resolveUseMember(sc *scope.Scope, u *ast.UseMember) *bverr.Error {
	found, ok := sc.Lookup(u.IntfName)
	if !ok {
		return bverr.Namef(u.Pos(), "unknown interface %q", u.IntfName)
	}
	if found.DeclKind() != "interface" {
		return bverr.Kindf(u.Pos(), "use directive must refer to an interface, found %q", u.IntfName)
	}
	return nil
}
