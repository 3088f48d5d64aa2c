package parser

import (
	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/bverr"
	"github.com/bvlang/bvc/internal/token"
)

// ParseModuleSpec parses a `-m` command-line module spec such as
// "bus" or "fifo(8, depth=16)" into a module name and its argument
// list, reusing the same argument-list grammar used inside source
// files for use-directives and struct types.
func ParseModuleSpec(spec string) (string, []*ast.Arg, bverr.List) {
	p := New("<module-spec>", spec)
	name, _ := p.parseIdent()
	args := p.parseGenericArgsOpt()
	if !p.at(token.EOF) {
		p.errorf(p.tok.Pos, "unexpected trailing text %q in module spec", p.tok.Literal)
	}
	return name, args, p.errs
}
