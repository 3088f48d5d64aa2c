package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/bvlang/bvc/internal/bverr"
	"github.com/bvlang/bvc/internal/elaborate"
	"github.com/bvlang/bvc/internal/parser"
	"github.com/bvlang/bvc/internal/scope"
	"github.com/bvlang/bvc/internal/sema"
	"github.com/bvlang/bvc/internal/token"
	"github.com/bvlang/bvc/internal/verilog"
	"github.com/spf13/cobra"
)

var (
	buildModuleSpec string
	buildOutput     string
	buildColor      bool
	buildPrintAST   bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file-glob>...",
	Short: "Elaborate BV source into Verilog",
	Long: `build parses every file matched by the given glob patterns, runs the
semantic pre-pass, elaborates one or more modules, and emits the
resulting Verilog to stdout or the file named by --output.

Without -m, every zero-parameter module visible at the top level is
instantiated. With -m, only the named module is instantiated, with an
optional argument list: bvc build src/*.bv -m fifo(8, depth=16)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildModuleSpec, "module", "m", "", "module to instantiate, e.g. fifo(8)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file (default: stdout)")
	buildCmd.Flags().BoolVar(&buildColor, "color", false, "colorize error output")
	buildCmd.Flags().BoolVar(&buildPrintAST, "print-ast", false, "dump the parsed declaration tree before elaborating")
}

func runBuild(cmd *cobra.Command, args []string) error {
	units, sources, err := loadUnits(args)
	if err != nil {
		return err
	}

	if buildPrintAST {
		for _, unit := range units {
			for _, decl := range unit.Decls {
				dumpDecl(decl, 0)
			}
		}
	}

	root, errs := sema.Prepass(units)
	if len(errs) > 0 {
		reportErrors(errs, sources)
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(errs))
	}

	el := elaborate.New(root)
	if buildModuleSpec != "" {
		if err := instantiateSpec(el, root, buildModuleSpec); err != nil {
			return err
		}
	} else {
		if err := instantiateAllZeroParamModules(el, root); err != nil {
			return err
		}
	}

	out := os.Stdout
	if buildOutput != "" {
		f, err := os.Create(buildOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", buildOutput, err)
		}
		defer f.Close()
		out = f
	}
	return verilog.Emit(out, el.Modules())
}

func instantiateSpec(el *elaborate.Elaborator, root *scope.Scope, spec string) error {
	name, argNodes, errs := parser.ParseModuleSpec(spec)
	if len(errs) > 0 {
		return fmt.Errorf("invalid module spec %q: %s", spec, errs.Error())
	}
	_, err := el.InstantiateModule(root, token.Position{}, name, argNodes)
	return err
}

func instantiateAllZeroParamModules(el *elaborate.Elaborator, root *scope.Scope) error {
	found := false
	for _, entry := range root.Entries() {
		mod, ok := entry.Decl.(*ast.ModuleDecl)
		if !ok || len(mod.Params) != 0 {
			continue
		}
		found = true
		if _, err := el.InstantiateModule(root, mod.Pos(), mod.Name, nil); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("no zero-parameter modules found and no -m given")
	}
	return nil
}

// loadUnits reads and parses every file matched by the given glob
// patterns. A pattern that matches no file is reported to stderr and
// exits with status 2.
func loadUnits(patterns []string) ([]*ast.Unit, map[string]string, error) {
	var units []*ast.Unit
	sources := make(map[string]string)
	var parseErrs bverr.List

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "input pattern %q matched no files\n", pattern)
			os.Exit(2)
		}
		for _, file := range matches {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read %s: %w", file, err)
			}
			src := string(data)
			sources[file] = src

			unit, errs := parser.New(file, src).Parse()
			for _, e := range errs {
				e.File = file
				e.Source = src
				parseErrs = append(parseErrs, e)
			}
			units = append(units, unit)
		}
	}

	if len(parseErrs) > 0 {
		reportErrors(parseErrs, sources)
		return nil, nil, fmt.Errorf("parsing failed with %d error(s)", len(parseErrs))
	}
	return units, sources, nil
}

// loadParseOnly parses a single file without running the semantic
// pre-pass, used by the parse subcommand's AST dump.
func loadParseOnly(file, src string) (*ast.Unit, bverr.List) {
	unit, errs := parser.New(file, src).Parse()
	for _, e := range errs {
		e.File = file
		e.Source = src
	}
	return unit, errs
}

func reportErrors(errs bverr.List, sources map[string]string) {
	for _, e := range errs {
		if e.Source == "" {
			e.Source = sources[e.File]
		}
	}
	fmt.Fprintln(os.Stderr, errs.Format(buildColor))
}
