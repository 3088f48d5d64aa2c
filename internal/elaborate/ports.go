package elaborate

import (
	"fmt"
	"math"

	"github.com/bvlang/bvc/internal/ast"
)

// FlatPort is one physical scalar Verilog port produced by flattening a
// structured BV port.
type FlatPort struct {
	Output bool
	Name   string
	Bounds []Range // outermost bracket group first
}

// Range is one `[left:right]` bracket group of a flattened port.
type Range struct {
	Left  int
	Right int
}

// ExpandPort flattens a single named port into one or more FlatPorts.
// outDir is the direction treated as an output ("o" at every call site).
// Signal declarations pass an empty dir, so a bit, array, enum or set
// signal comes back non-output, while the leaves of an interface-typed
// signal keep the flags of their members' own directions. A leaf's
// output flag depends only on that leaf's own declared direction, so a nested
// interface port flattens to the same leaves in every enclosing
// context, differing only in name prefix and outer bit-ranges.
func ExpandPort(name, dir string, rtype ast.ResolvedType, outDir string) ([]FlatPort, error) {
	var bounds []Range
	t := rtype
	for {
		arr, ok := t.(ast.ResolvedArrayType)
		if !ok {
			break
		}
		bounds = append(bounds, Range{Left: arr.Left, Right: arr.Right})
		t = arr.Elem
	}
	// Outer-to-inner order matches declaration order; reverse what we
	// collected inside-out.
	for i, j := 0, len(bounds)-1; i < j; i, j = i+1, j-1 {
		bounds[i], bounds[j] = bounds[j], bounds[i]
	}

	switch rt := t.(type) {
	case *ast.BitType:
		return []FlatPort{{Output: dir == outDir, Name: name, Bounds: bounds}}, nil

	case ast.IntfInstType:
		var out []FlatPort
		sub, err := ExpandPorts(rt.Inst.PortList(), outDir)
		if err != nil {
			return nil, err
		}
		for _, fp := range sub {
			out = append(out, FlatPort{
				Output: fp.Output,
				Name:   fmt.Sprintf("%s__%s", name, fp.Name),
				Bounds: append(append([]Range{}, bounds...), fp.Bounds...),
			})
		}
		return out, nil

	case ast.EnumType:
		width := enumWidth(len(rt.Decl.Atoms))
		return []FlatPort{{Output: dir == outDir, Name: name, Bounds: append(append([]Range{}, bounds...), Range{Left: width - 1, Right: 0})}}, nil

	case ast.SetType:
		width := len(rt.Decl.Atoms)
		return []FlatPort{{Output: dir == outDir, Name: name, Bounds: append(append([]Range{}, bounds...), Range{Left: width - 1, Right: 0})}}, nil
	}

	return nil, fmt.Errorf("elaborate: unknown resolved type %T for port %q", t, name)
}

// ExpandPorts flattens an ordered list of ports.
func ExpandPorts(ports []*ast.Port, outDir string) ([]FlatPort, error) {
	var r []FlatPort
	for _, port := range ports {
		fp, err := ExpandPort(port.Name, port.Dir, port.RType, outDir)
		if err != nil {
			return nil, err
		}
		r = append(r, fp...)
	}
	return r, nil
}

// enumWidth is the number of bits needed to represent n distinct
// enumerator codes.
func enumWidth(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n))))
}
