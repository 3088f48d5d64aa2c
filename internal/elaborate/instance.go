package elaborate

import (
	"fmt"
	"strings"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/scope"
)

// InterfaceInstance is one monomorphisation of a parameterised
// interface: a concrete (declaration, argument-tuple) pair together
// with its flattened port list. It implements ast.PortProvider so that
// ast.IntfInstType can reference it without the ast package importing
// this one.
type InterfaceInstance struct {
	Decl  *ast.InterfaceDecl
	Args  []int
	Ports []*ast.Port
}

func (i *InterfaceInstance) PortList() []*ast.Port { return i.Ports }
func (i *InterfaceInstance) InstanceName() string  { return mangleName(i.Decl.Name, i.Args) }

// ModuleInstance is one monomorphisation of a module: its own argument
// scope, type-resolved ports, and the concatenated, fully elaborated body
// declarations (signals, sub-instances, and always/on blocks) across
// every def that targets it.
type ModuleInstance struct {
	Decl  *ast.ModuleDecl
	Args  []int
	Scope *scope.Scope
	Ports []*ast.Port
	Decls []ast.DefMember
}

func (m *ModuleInstance) PortList() []*ast.Port { return m.Ports }
func (m *ModuleInstance) InstanceName() string  { return mangleName(m.Decl.Name, m.Args) }

// mangleName encodes a declaration's name together with its
// instantiation arguments into a name usable as a Verilog module
// identifier, so that two distinct instantiations of the same
// parameterised module never collide on one literal Verilog module
// name. See DESIGN.md for the naming scheme.
func mangleName(name string, args []int) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%d", a)
	}
	return name + "__" + strings.Join(parts, "_")
}

// instSpec is the memoisation key for both interface and module
// instantiation: a declaration name paired with its resolved argument
// tuple.
type instSpec struct {
	name string
	args string // args rendered as a stable string key
}

func makeInstSpec(name string, args []int) instSpec {
	return instSpec{name: name, args: mangleName("", args)}
}
