// Package verilog renders an elaborated module-instance graph as
// textual Verilog.
package verilog

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/elaborate"
)

// Emit writes one `module ... endmodule` block per instance in mods,
// in the order given.
func Emit(w io.Writer, mods []*elaborate.ModuleInstance) error {
	for _, mod := range mods {
		if err := emitModule(w, mod); err != nil {
			return err
		}
	}
	return nil
}

func emitModule(w io.Writer, mod *elaborate.ModuleInstance) error {
	flatPorts, err := elaborate.ExpandPorts(mod.Ports, "o")
	if err != nil {
		return err
	}
	ports := make([]string, len(flatPorts))
	for i, fp := range flatPorts {
		dir := "input"
		if fp.Output {
			dir = "output reg"
		}
		ports[i] = fmt.Sprintf("%s%s %s", dir, boundsString(fp.Bounds), fp.Name)
	}

	var decls []string
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.Always:
			body, err := formatStmts(d.Body, "    ")
			if err != nil {
				return err
			}
			decls = append(decls, fmt.Sprintf("always @(*) begin\n%send\n", body))

		case *ast.On:
			var specs []string
			for _, e := range d.Edges {
				dir := "negedge"
				if e.Rising {
					dir = "posedge"
				}
				specs = append(specs, fmt.Sprintf("%s %s", dir, e.SignalName))
			}
			body, err := formatStmts(d.Body, "    ")
			if err != nil {
				return err
			}
			decls = append(decls, fmt.Sprintf("always @(%s) begin\n%send\n", strings.Join(specs, " or "), body))

		case *ast.Inst:
			block, err := emitInst(d)
			if err != nil {
				return err
			}
			decls = append(decls, block)

		case *ast.Signal:
			flats, err := elaborate.ExpandPort(d.Name, "", d.RType, "o")
			if err != nil {
				return err
			}
			for _, fp := range flats {
				decls = append(decls, fmt.Sprintf("reg%s %s;\n", boundsString(fp.Bounds), fp.Name))
			}
		}
	}

	_, err = fmt.Fprintf(w, "module %s(\n    %s\n    );\n\n%s\nendmodule\n\n",
		mod.InstanceName(), strings.Join(ports, ",\n    "), strings.Join(decls, "\n"))
	return err
}

func emitInst(d *ast.Inst) (string, error) {
	target, ok := d.TargetInst.(*elaborate.ModuleInstance)
	if !ok {
		return "", fmt.Errorf("verilog: inst %q has no elaborated target", d.Name)
	}

	flats, err := elaborate.ExpandPorts(target.Ports, "o")
	if err != nil {
		return "", err
	}

	var out []string
	var pms []string
	for _, fp := range flats {
		if fp.Output {
			out = append(out, fmt.Sprintf("wire%s %s__%s;\n", boundsString(fp.Bounds), d.Name, fp.Name))
			pms = append(pms, fmt.Sprintf(".%s(%s__%s)", fp.Name, d.Name, fp.Name))
		}
	}
	for _, pm := range d.PortMaps {
		src, err := resolveExpr(pm.Source)
		if err != nil {
			return "", err
		}
		pms = append(pms, fmt.Sprintf(".%s(%s)", pm.TargetName, src))
	}
	out = append(out, fmt.Sprintf("%s %s(\n    %s\n    );\n", target.InstanceName(), d.Name, strings.Join(pms, ",\n    ")))
	return strings.Join(out, ""), nil
}

func boundsString(bounds []elaborate.Range) string {
	var sb strings.Builder
	for _, b := range bounds {
		fmt.Fprintf(&sb, "[%d:%d]", b.Left, b.Right)
	}
	return sb.String()
}

// resolveExpr renders an elaborated expression as a Verilog term.
func resolveExpr(expr ast.Expr) (string, error) {
	name, suffix, err := splitExpr(expr)
	if err != nil {
		return "", err
	}
	return name + suffix, nil
}

func splitExpr(expr ast.Expr) (name string, suffix string, err error) {
	switch e := expr.(type) {
	case *ast.RefExpr:
		return e.Name, "", nil

	case *ast.SliceExpr:
		arr, ok := e.Type().(ast.ResolvedArrayType)
		if !ok {
			return "", "", fmt.Errorf("verilog: slice operator requires an array")
		}
		base, baseSuf, err := splitExpr(e.Base)
		if err != nil {
			return "", "", err
		}
		return base, fmt.Sprintf("%s[%d:%d]", baseSuf, arr.Left, arr.Right), nil

	case *ast.MemberExpr:
		base, baseSuf, err := splitExpr(e.Base)
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("%s__%s", base, e.Field), baseSuf, nil

	case *ast.UnaryExpr:
		arg, err := resolveExpr(e.Operand)
		if err != nil {
			return "", "", err
		}
		if e.Op == "~" {
			return fmt.Sprintf("!%s", arg), "", nil
		}
		return fmt.Sprintf("%s%s", e.Op, arg), "", nil

	case *ast.NumExpr:
		return fmt.Sprintf("%d", e.Value), "", nil

	case *ast.SizedNumExpr:
		return fmt.Sprintf("%d'b%s", e.Width, e.Bits), "", nil

	case *ast.EnumExpr:
		width := enumWidth(len(e.Decl.Atoms))
		return fmt.Sprintf("%d'd%d", width, e.Index), "", nil

	case *ast.BinaryExpr:
		lhs, err := resolveExpr(e.Left)
		if err != nil {
			return "", "", err
		}
		rhs, err := resolveExpr(e.Right)
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("%s %s %s", lhs, e.Op, rhs), "", nil
	}
	return "", "", fmt.Errorf("verilog: unknown expression %T", expr)
}

func enumWidth(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// formatAssignStmt renders one assignment, expanding an x-expr
// right-hand side into one assignment per flattened leaf wire of a
// structured target.
func formatAssignStmt(lhs, rhs ast.Expr, delayed bool, indent string) ([]string, error) {
	op := "="
	if delayed {
		op = "<="
	}

	if _, ok := rhs.Type().(ast.XType); ok {
		switch lt := lhs.Type().(type) {
		case ast.IntfInstType:
			lhsName, err := resolveExpr(lhs)
			if err != nil {
				return nil, err
			}
			flats, err := elaborate.ExpandPorts(lt.Inst.PortList(), "o")
			if err != nil {
				return nil, err
			}
			var out []string
			for _, fp := range flats {
				out = append(out, fmt.Sprintf("%s%s__%s%s %s 1'sbx;\n", indent, lhsName, fp.Name, boundsString(fp.Bounds), op))
			}
			return out, nil
		case ast.ResolvedArrayType:
			lhsStr, err := resolveExpr(lhs)
			if err != nil {
				return nil, err
			}
			return []string{fmt.Sprintf("%s%s %s 1'sbx;\n", indent, lhsStr, op)}, nil
		default:
			return nil, fmt.Errorf("verilog: invalid x-assignment target type %T", lt)
		}
	}

	lhsStr, err := resolveExpr(lhs)
	if err != nil {
		return nil, err
	}
	rhsStr, err := resolveExpr(rhs)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s%s %s %s;\n", indent, lhsStr, op, rhsStr)}, nil
}

func formatStmt(stmt ast.Stmt, indent string) (string, error) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		lines, err := formatAssignStmt(s.Target, s.Value, s.Delayed, indent)
		if err != nil {
			return "", err
		}
		return strings.Join(lines, ""), nil

	case *ast.IfStmt:
		cond, err := resolveExpr(s.Cond)
		if err != nil {
			return "", err
		}
		trueBody, err := formatStmts(s.Then, indent+"    ")
		if err != nil {
			return "", err
		}
		if s.Else != nil {
			falseBody, err := formatStmts(s.Else, indent+"    ")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%sif (%s) begin\n%s%send else begin\n%s%send\n", indent, cond, trueBody, indent, falseBody, indent), nil
		}
		return fmt.Sprintf("%sif (%s) begin\n%s%send\n", indent, cond, trueBody, indent), nil

	case *ast.SwitchStmt:
		disc, err := resolveExpr(s.Disc)
		if err != nil {
			return "", err
		}
		var body strings.Builder
		for _, c := range s.Cases {
			caseVal, err := resolveExpr(c.Value)
			if err != nil {
				return "", err
			}
			stmts, err := formatStmts(c.Body, indent+"        ")
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&body, "%s    %s: begin\n%s%s    end\n", indent, caseVal, stmts, indent)
		}
		return fmt.Sprintf("%scasez (%s)\n%s%sendcase\n", indent, disc, body.String(), indent), nil
	}
	return "", fmt.Errorf("verilog: unknown statement %T", stmt)
}

func formatStmts(stmts []ast.Stmt, indent string) (string, error) {
	var sb strings.Builder
	for _, s := range stmts {
		out, err := formatStmt(s, indent)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}
