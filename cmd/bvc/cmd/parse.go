package cmd

import (
	"fmt"
	"os"

	"github.com/bvlang/bvc/internal/ast"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a BV file and print its declaration tree",
	Long: `parse reads a single BV file, parses it, and prints the resulting
declaration tree without running the semantic pre-pass or elaborator.
Useful for debugging the parser itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	file := args[0]
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	unit, errs := loadParseOnly(file, string(data))
	if len(errs) > 0 {
		reportErrors(errs, map[string]string{file: string(data)})
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	for _, decl := range unit.Decls {
		dumpDecl(decl, 0)
	}
	return nil
}

func dumpDecl(d ast.Decl, indent int) {
	pad := indentStr(indent)
	switch v := d.(type) {
	case *ast.InterfaceDecl:
		fmt.Printf("%s@interface %s\n", pad, v.Name)
		for _, m := range v.Members {
			dumpNode(m, indent+1)
		}
	case *ast.EnumDecl:
		fmt.Printf("%s@enum %s\n", pad, v.Name)
		for _, a := range v.Atoms {
			fmt.Printf("%s  %s\n", pad, a.Name)
		}
	case *ast.ModuleDecl:
		fmt.Printf("%s@module %s\n", pad, v.Name)
		for _, p := range v.Ports {
			dumpNode(p, indent+1)
		}
	case *ast.DefDecl:
		fmt.Printf("%s@def %s\n", pad, v.ModuleName)
		for _, m := range v.Members {
			dumpNode(m, indent+1)
		}
	}
}

func dumpNode(n ast.Node, indent int) {
	pad := indentStr(indent)
	switch v := n.(type) {
	case *ast.Port:
		fmt.Printf("%sport %s %s\n", pad, v.Dir, v.Name)
	case *ast.UseMember:
		fmt.Printf("%suse %s\n", pad, v.IntfName)
	case *ast.Signal:
		fmt.Printf("%ssig %s\n", pad, v.Name)
	case *ast.Inst:
		fmt.Printf("%sinst %s: %s\n", pad, v.Name, v.Target)
	case *ast.Always:
		fmt.Printf("%salways (%d stmt)\n", pad, len(v.Body))
	case *ast.On:
		fmt.Printf("%son (%d stmt)\n", pad, len(v.Body))
	default:
		fmt.Printf("%s%T\n", pad, n)
	}
}

func indentStr(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "  "
	}
	return s
}
