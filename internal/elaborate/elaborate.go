// Package elaborate implements the polymorphic instantiator: given a
// root module name and concrete parameter values, it recursively
// instantiates nested modules and interfaces, resolves every
// expression's type, and produces a monomorphised module-instance
// graph ready for the emitter.
package elaborate

import (
	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/bverr"
	"github.com/bvlang/bvc/internal/eval"
	"github.com/bvlang/bvc/internal/scope"
	"github.com/bvlang/bvc/internal/token"
)

// Elaborator owns the global memoisation tables and cycle-detection
// sets used across an entire build. One Elaborator is created per
// compilation and shared across every root instantiation requested by
// the driver.
type Elaborator struct {
	root *scope.Scope

	intfs   map[instSpec]*InterfaceInstance
	modules map[instSpec]*ModuleInstance

	activeIntfInsts map[instSpec]bool
	activeModInsts  map[instSpec]bool

	// order preserves the sequence in which module instantiations
	// completed (a sub-module before the module that instantiates it),
	// so the emitter can print them deterministically.
	order []*ModuleInstance
}

// New creates an Elaborator over the scope graph produced by the
// semantic pre-pass.
func New(root *scope.Scope) *Elaborator {
	return &Elaborator{
		root:            root,
		intfs:           make(map[instSpec]*InterfaceInstance),
		modules:         make(map[instSpec]*ModuleInstance),
		activeIntfInsts: make(map[instSpec]bool),
		activeModInsts:  make(map[instSpec]bool),
	}
}

// Modules returns every module instance elaborated so far, in the
// order their instantiation completed.
func (el *Elaborator) Modules() []*ModuleInstance { return el.order }

// InstantiateModule monomorphises moduleName with args (evaluated
// against sc), memoised by (name, argument-tuple). Recursive
// instantiation of the same spec is rejected.
func (el *Elaborator) InstantiateModule(sc *scope.Scope, pos token.Position, moduleName string, args []*ast.Arg) (*ModuleInstance, error) {
	found, ok := el.root.LookupKind(moduleName, "module")
	if !ok {
		return nil, bverr.Namef(pos, "unknown module %q", moduleName)
	}
	mod, ok := found.(*ast.ModuleDecl)
	if !ok {
		return nil, bverr.Kindf(pos, "%q is not a module", moduleName)
	}

	argValues, err := el.matchArgs(sc, mod.Params, args)
	if err != nil {
		return nil, err
	}

	spec := makeInstSpec(moduleName, argValues)
	if el.activeModInsts[spec] {
		return nil, bverr.Recursionf(pos, "recursive instantiation of module %q", moduleName)
	}
	if inst, ok := el.modules[spec]; ok {
		return inst, nil
	}

	inst := &ModuleInstance{Decl: mod, Args: argValues}
	el.activeModInsts[spec] = true
	el.modules[spec] = inst
	defer delete(el.activeModInsts, spec)

	if err := el.instModule(inst); err != nil {
		// A half-built instance must not survive in the memo: a later
		// instantiation of the same spec would get it back with no error.
		delete(el.modules, spec)
		return nil, err
	}
	el.order = append(el.order, inst)
	return inst, nil
}

// instantiateInterface monomorphises intfName with args, memoised the
// same way as InstantiateModule.
func (el *Elaborator) instantiateInterface(sc *scope.Scope, pos token.Position, intfName string, args []*ast.Arg) (*InterfaceInstance, error) {
	found, ok := el.root.LookupKind(intfName, "interface")
	if !ok {
		return nil, bverr.Namef(pos, "unknown interface %q", intfName)
	}
	intf, ok := found.(*ast.InterfaceDecl)
	if !ok {
		return nil, bverr.Kindf(pos, "%q is not an interface", intfName)
	}

	argValues, err := el.matchArgs(sc, intf.Params, args)
	if err != nil {
		return nil, err
	}

	spec := makeInstSpec(intfName, argValues)
	if el.activeIntfInsts[spec] {
		return nil, bverr.Recursionf(pos, "recursive instantiation of interface %q", intfName)
	}
	if inst, ok := el.intfs[spec]; ok {
		return inst, nil
	}

	inst := &InterfaceInstance{Decl: intf, Args: argValues}
	el.intfs[spec] = inst
	el.activeIntfInsts[spec] = true
	defer delete(el.activeIntfInsts, spec)

	if err := el.instIntf(inst); err != nil {
		delete(el.intfs, spec)
		return nil, err
	}
	return inst, nil
}

// matchArgs evaluates each supplied argument against sc and positions
// it according to params, accepting both positional and keyword
// arguments.
func (el *Elaborator) matchArgs(sc *scope.Scope, params []ast.Param, args []*ast.Arg) ([]int, error) {
	values := make([]int, len(params))
	set := make([]bool, len(params))

	for i, arg := range args {
		idx := i
		if arg.KwName != nil {
			found := -1
			for pi, p := range params {
				if p.Name == *arg.KwName {
					found = pi
					break
				}
			}
			if found == -1 {
				return nil, bverr.Argsf(arg.Pos(), "invalid parameter name %q", *arg.KwName)
			}
			idx = found
		}
		if idx >= len(params) {
			return nil, bverr.Argsf(arg.Pos(), "too many arguments")
		}
		v, err := eval.Eval(sc, arg.Value)
		if err != nil {
			return nil, err
		}
		values[idx] = v
		set[idx] = true
	}

	for i, ok := range set {
		if !ok {
			return nil, bverr.Argsf(token.Position{}, "not all arguments are specified for parameter %q", params[i].Name)
		}
	}
	return values, nil
}

// makeArgScope binds each parameter name to its evaluated argument
// value as an *ast.ParamBinding in a fresh scope rooted at the global
// root scope.
func (el *Elaborator) makeArgScope(params []ast.Param, args []int) *scope.Scope {
	sc := scope.New(el.root)
	for i, p := range params {
		sc.Add(p.Name, &ast.ParamBinding{Name: p.Name, Value: args[i]})
	}
	return sc
}

// instType elaborates a written type expression into a ResolvedType,
// instantiating any interface it names.
func (el *Elaborator) instType(sc *scope.Scope, t ast.Type) (ast.ResolvedType, error) {
	switch typ := t.(type) {
	case *ast.BitType:
		return typ, nil

	case *ast.StructTypeExpr:
		switch typ.Decl.DeclKind() {
		case "interface":
			inst, err := el.instantiateInterface(sc, typ.Pos(), typ.Name, typ.Args)
			if err != nil {
				return nil, err
			}
			return ast.IntfInstType{Inst: inst}, nil
		case "enum":
			return ast.EnumType{Decl: typ.Decl.(*ast.EnumDecl)}, nil
		default:
			return nil, bverr.Kindf(typ.Pos(), "invalid type %q", typ.Name)
		}

	case *ast.SetTypeExpr:
		return ast.SetType{Decl: typ.Decl}, nil

	case *ast.ArrayTypeExpr:
		sub, err := el.instType(sc, typ.Elem)
		if err != nil {
			return nil, err
		}
		lb, err := eval.Eval(sc, typ.Left)
		if err != nil {
			return nil, err
		}
		rb, err := eval.Eval(sc, typ.Right)
		if err != nil {
			return nil, err
		}
		return ast.ResolvedArrayType{Elem: sub, Left: lb, Right: rb}, nil
	}
	return nil, bverr.Typef(t.Pos(), "unhandled type expression %T", t)
}

// instIntf populates intfInst.Ports from its declaration's members
// against the freshly built parameter scope.
func (el *Elaborator) instIntf(intfInst *InterfaceInstance) error {
	sc := el.makeArgScope(intfInst.Decl.Params, intfInst.Args)

	var ports []*ast.Port
	for _, mem := range intfInst.Decl.Members {
		switch m := mem.(type) {
		case *ast.Port:
			rt, err := el.instType(sc, m.Type)
			if err != nil {
				return err
			}
			ports = append(ports, &ast.Port{Dir: m.Dir, Name: m.Name, Type: m.Type, RType: rt, PosV: m.PosV})

		case *ast.UseMember:
			used, err := el.instantiateInterface(sc, m.Pos(), m.IntfName, m.Args)
			if err != nil {
				return err
			}
			for _, up := range used.Ports {
				ports = append(ports, &ast.Port{Dir: up.Dir, Name: up.Name, Type: up.Type, RType: up.RType, PosV: up.PosV})
			}
		}
	}
	intfInst.Ports = ports
	return nil
}

// instModule populates modInst's scope, ports, and body declarations
// across every def targeting its declaration.
func (el *Elaborator) instModule(modInst *ModuleInstance) error {
	sc := el.makeArgScope(modInst.Decl.Params, modInst.Args)

	var ports []*ast.Port
	for _, port := range modInst.Decl.Ports {
		rt, err := el.instType(sc, port.Type)
		if err != nil {
			return err
		}
		p := &ast.Port{Dir: port.Dir, Name: port.Name, Type: port.Type, RType: rt, PosV: port.PosV}
		sc.Add(p.Name, p)
		ports = append(ports, p)
	}
	modInst.Scope = sc
	modInst.Ports = ports

	var decls []ast.DefMember
	for _, def := range modInst.Decl.Defs {
		defScope := scope.New(sc)
		var insts []*ast.Inst

		for _, mem := range def.Members {
			switch m := mem.(type) {
			case *ast.Signal:
				rt, err := el.instType(sc, m.Type)
				if err != nil {
					return err
				}
				sig := &ast.Signal{Name: m.Name, Type: m.Type, RType: rt, PosV: m.PosV}
				defScope.Add(sig.Name, sig)
				decls = append(decls, sig)

			case *ast.Inst:
				if len(m.Args) != 0 {
					return bverr.Argsf(m.Pos(), "inst %q: parameterised sub-instantiation is not supported", m.Name)
				}
				targetInst, err := el.InstantiateModule(sc, m.Pos(), m.Target, nil)
				if err != nil {
					return err
				}
				newInst := &ast.Inst{Name: m.Name, Target: m.Target, TargetInst: targetInst, PosV: m.PosV}
				defScope.Add(newInst.Name, newInst)
				decls = append(decls, newInst)
				insts = append(insts, newInst)
			}
		}

		// Second sub-pass: resolve port maps now that every signal/inst
		// in this def has a scope entry to reference.
		instIdx := 0
		for _, mem := range def.Members {
			m, ok := mem.(*ast.Inst)
			if !ok {
				continue
			}
			newInst := insts[instIdx]
			instIdx++
			for _, pm := range m.PortMaps {
				target, err := el.instTargetPortExpr(newInst.TargetInst, pm)
				if err != nil {
					return err
				}
				source, err := el.elaborateExpr(defScope, pm.Source)
				if err != nil {
					return err
				}
				newInst.PortMaps = append(newInst.PortMaps, &ast.PortMapEntry{TargetName: target, Source: source, PosV: pm.PosV})
			}
		}

		for _, mem := range def.Members {
			switch m := mem.(type) {
			case *ast.Always:
				body, err := el.elaborateStmts(defScope, m.Body)
				if err != nil {
					return err
				}
				decls = append(decls, &ast.Always{Body: body, PosV: m.PosV})

			case *ast.On:
				body, err := el.elaborateStmts(defScope, m.Body)
				if err != nil {
					return err
				}
				decls = append(decls, &ast.On{Edges: m.Edges, Body: body, PosV: m.PosV})
			}
		}
	}
	modInst.Decls = decls
	return nil
}

// instTargetPortExpr resolves a port-map target name against the
// instantiated target module's own port list. Only the target port's
// name is needed by the emitter.
func (el *Elaborator) instTargetPortExpr(target ast.PortProvider, pm *ast.PortMapEntry) (string, error) {
	for _, port := range target.PortList() {
		if port.Name == pm.TargetName {
			return port.Name, nil
		}
	}
	return "", bverr.Namef(pm.Pos(), "invalid port name %q on instance target", pm.TargetName)
}

// elaborateStmts elaborates a statement list in order.
func (el *Elaborator) elaborateStmts(sc *scope.Scope, stmts []ast.Stmt) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		es, err := el.elaborateStmt(sc, s)
		if err != nil {
			return nil, err
		}
		out = append(out, es)
	}
	return out, nil
}

// elaborateStmt elaborates one statement. Assignment applies the
// context-sensitive retyping of atom/set-literal/x right-hand sides
// against the already-elaborated left-hand side's type.
func (el *Elaborator) elaborateStmt(sc *scope.Scope, stmt ast.Stmt) (ast.Stmt, error) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		lhs, err := el.elaborateExpr(sc, s.Target)
		if err != nil {
			return nil, err
		}
		rhs, err := el.elaborateExpr(sc, s.Value)
		if err != nil {
			return nil, err
		}
		rhs, err = el.convertAssignedValue(lhs, rhs)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: lhs, Value: rhs, Delayed: s.Delayed, PosV: s.PosV}, nil

	case *ast.IfStmt:
		cond, err := el.elaborateExpr(sc, s.Cond)
		if err != nil {
			return nil, err
		}
		then, err := el.elaborateStmts(sc, s.Then)
		if err != nil {
			return nil, err
		}
		var els []ast.Stmt
		if s.Else != nil {
			els, err = el.elaborateStmts(sc, s.Else)
			if err != nil {
				return nil, err
			}
		}
		return &ast.IfStmt{Cond: cond, Then: then, Else: els, PosV: s.PosV}, nil

	case *ast.SwitchStmt:
		disc, err := el.elaborateExpr(sc, s.Disc)
		if err != nil {
			return nil, err
		}
		cases := make([]*ast.CaseClause, 0, len(s.Cases))
		for _, c := range s.Cases {
			val, err := el.elaborateExpr(sc, c.Value)
			if err != nil {
				return nil, err
			}
			body, err := el.elaborateStmts(sc, c.Body)
			if err != nil {
				return nil, err
			}
			cases = append(cases, &ast.CaseClause{Value: val, Body: body, PosV: c.PosV})
		}
		return &ast.SwitchStmt{Disc: disc, Cases: cases, PosV: s.PosV}, nil
	}
	return nil, bverr.Typef(stmt.Pos(), "invalid statement %T", stmt)
}

// convertAssignedValue applies the context-sensitive retyping rules for
// a right-hand side whose own shape is ambiguous until the target's
// type is known: an atom becomes either an enum-expr or a structural
// x-expr depending on the target's type, and a set literal becomes a
// sized bit-mask, all driven by the already elaborated left-hand
// side's type.
func (el *Elaborator) convertAssignedValue(lhs, rhs ast.Expr) (ast.Expr, error) {
	switch rhs.Type().(type) {
	case ast.AtomType:
		atom, ok := rhs.(*ast.AtomExpr)
		if !ok {
			return nil, bverr.Typef(rhs.Pos(), "atom-typed expression is not an atom")
		}
		switch lt := lhs.Type().(type) {
		case ast.EnumType:
			idx := lt.Decl.AtomIndex(atom.Name)
			if idx < 0 {
				return nil, bverr.Namef(atom.Pos(), "%q is not a member of enum %q", atom.Name, lt.Decl.Name)
			}
			e := &ast.EnumExpr{Decl: lt.Decl, Index: idx, PosV: atom.PosV}
			e.SetType(lt)
			return e, nil

		case ast.IntfInstType:
			if atom.Name != "x" {
				return nil, bverr.Typef(atom.Pos(), "you can only assign 'x to a structure")
			}
			e := &ast.XExpr{PosV: atom.PosV}
			e.SetType(ast.XType{})
			return e, nil

		default:
			return nil, bverr.Typef(atom.Pos(), "atom literal is not valid for this assignment target")
		}

	case ast.SetLitType:
		setExpr, ok := rhs.(*ast.SetExpr)
		if !ok {
			return nil, bverr.Typef(rhs.Pos(), "set-literal-typed expression is not a set literal")
		}
		st, ok := lhs.Type().(ast.SetType)
		if !ok {
			return nil, bverr.Typef(setExpr.Pos(), "type mismatch: set literal assigned to non-set target")
		}
		bits := make([]byte, len(st.Decl.Atoms))
		for i := range bits {
			bits[i] = '0'
		}
		for _, name := range setExpr.Items {
			idx := st.Decl.AtomIndex(name)
			if idx < 0 {
				return nil, bverr.Namef(setExpr.Pos(), "%q is not a member of enum %q", name, st.Decl.Name)
			}
			bits[idx] = '1'
		}
		// Reversed so index 0 of the enum lands at the LSB when the
		// mask is rendered as a binary literal.
		for i, j := 0, len(bits)-1; i < j; i, j = i+1, j-1 {
			bits[i], bits[j] = bits[j], bits[i]
		}
		num := &ast.SizedNumExpr{Width: len(bits), Bits: string(bits), PosV: setExpr.PosV}
		num.SetType(ast.IntType{})
		return num, nil
	}
	return rhs, nil
}

// elaborateExpr elaborates one expression, always constructing a new
// node.
func (el *Elaborator) elaborateExpr(sc *scope.Scope, expr ast.Expr) (ast.Expr, error) {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		lhs, err := el.elaborateExpr(sc, e.Left)
		if err != nil {
			return nil, err
		}
		rhs, err := el.elaborateExpr(sc, e.Right)
		if err != nil {
			return nil, err
		}
		out := &ast.BinaryExpr{Op: e.Op, Left: lhs, Right: rhs, PosV: e.PosV}
		out.SetType(ast.ArithType{})
		return out, nil

	case *ast.UnaryExpr:
		operand, err := el.elaborateExpr(sc, e.Operand)
		if err != nil {
			return nil, err
		}
		out := &ast.UnaryExpr{Op: e.Op, Operand: operand, PosV: e.PosV}
		out.SetType(operand.Type())
		return out, nil

	case *ast.CastExpr:
		rt, err := el.instType(sc, e.TypeExpr)
		if err != nil {
			return nil, err
		}
		operand, err := el.elaborateExpr(sc, e.Operand)
		if err != nil {
			return nil, err
		}
		out := &ast.CastExpr{TypeExpr: e.TypeExpr, Operand: operand, PosV: e.PosV}
		out.SetType(rt)
		return out, nil

	case *ast.MemberExpr:
		base, err := el.elaborateExpr(sc, e.Base)
		if err != nil {
			return nil, err
		}
		provider, err := portProviderOf(base.Type())
		if err != nil {
			return nil, bverr.Typef(e.Pos(), "member access on a non-structured value")
		}
		var match *ast.Port
		for _, p := range provider.PortList() {
			if p.Name == e.Field {
				match = p
				break
			}
		}
		if match == nil {
			return nil, bverr.Namef(e.Pos(), "%q has no member %q", provider.InstanceName(), e.Field)
		}
		out := &ast.MemberExpr{Base: base, Field: e.Field, PosV: e.PosV}
		out.SetType(match.RType)
		return out, nil

	case *ast.SliceExpr:
		base, err := el.elaborateExpr(sc, e.Base)
		if err != nil {
			return nil, err
		}
		arr, ok := base.Type().(ast.ResolvedArrayType)
		if !ok {
			return nil, bverr.Typef(e.Pos(), "slicing is only possible on arrays")
		}
		lb, err := eval.Eval(sc, e.Left)
		if err != nil {
			return nil, err
		}
		rb := lb
		if e.Right != nil {
			rb, err = eval.Eval(sc, e.Right)
			if err != nil {
				return nil, err
			}
		}
		lowerBound, upperBound := arr.Left, arr.Right
		if lowerBound > upperBound {
			lowerBound, upperBound = upperBound, lowerBound
		}
		if !(lowerBound <= lb && lb <= upperBound) || !(lowerBound <= rb && rb <= upperBound) {
			return nil, bverr.Boundsf(e.Pos(), "invalid slice bounds [%d:%d]", lb, rb)
		}
		out := &ast.SliceExpr{Base: base, Left: e.Left, Right: e.Right, PosV: e.PosV}
		out.SetType(ast.ResolvedArrayType{Elem: arr.Elem, Left: lb, Right: rb})
		return out, nil

	case *ast.SubscriptExpr:
		base, err := el.elaborateExpr(sc, e.Base)
		if err != nil {
			return nil, err
		}
		arr, ok := base.Type().(ast.ResolvedArrayType)
		if !ok {
			return nil, bverr.Typef(e.Pos(), "only arrays can be subscripted")
		}
		index, err := el.elaborateExpr(sc, e.Index)
		if err != nil {
			return nil, err
		}
		if _, ok := index.Type().(ast.IntType); !ok {
			return nil, bverr.Typef(e.Pos(), "array subscripts must be integers")
		}
		out := &ast.SubscriptExpr{Base: base, Index: index, PosV: e.PosV}
		out.SetType(arr.Elem)
		return out, nil

	case *ast.RefExpr:
		decl, ok := sc.Lookup(e.Name)
		if !ok {
			return nil, bverr.Namef(e.Pos(), "undefined name %q", e.Name)
		}
		out := &ast.RefExpr{Name: e.Name, PosV: e.PosV}
		rt, err := declType(decl)
		if err != nil {
			return nil, bverr.Typef(e.Pos(), "%v", err)
		}
		out.SetType(rt)
		return out, nil

	case *ast.AtomExpr:
		out := &ast.AtomExpr{Name: e.Name, PosV: e.PosV}
		out.SetType(ast.AtomType{})
		return out, nil

	case *ast.NumExpr:
		out := &ast.NumExpr{Value: e.Value, PosV: e.PosV}
		out.SetType(ast.IntType{})
		return out, nil

	case *ast.SizedNumExpr:
		out := &ast.SizedNumExpr{Width: e.Width, Bits: e.Bits, PosV: e.PosV}
		out.SetType(ast.IntType{})
		return out, nil

	case *ast.SetExpr:
		items := make([]string, len(e.Items))
		copy(items, e.Items)
		out := &ast.SetExpr{Items: items, PosV: e.PosV}
		out.SetType(ast.SetLitType{})
		return out, nil
	}
	return nil, bverr.Typef(expr.Pos(), "invalid expression %T", expr)
}

// declType returns the resolved type a scope entry carries, for typing
// a RefExpr that resolves to it.
func declType(decl scope.Decl) (ast.ResolvedType, error) {
	switch d := decl.(type) {
	case *ast.Port:
		return d.RType, nil
	case *ast.Signal:
		return d.RType, nil
	case *ast.Inst:
		return ast.ModuleInstType{Inst: d.TargetInst}, nil
	case *ast.ParamBinding:
		return ast.IntType{}, nil
	}
	return nil, bverr.Kindf(token.Position{}, "%q does not name a typed value", decl.DeclName())
}

// portProviderOf extracts the PortProvider backing an interface- or
// module-instance-typed value, for member-expr resolution.
func portProviderOf(rt ast.ResolvedType) (ast.PortProvider, error) {
	switch t := rt.(type) {
	case ast.IntfInstType:
		return t.Inst, nil
	case ast.ModuleInstType:
		return t.Inst, nil
	}
	return nil, bverr.Typef(token.Position{}, "not a structured type")
}
