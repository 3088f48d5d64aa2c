// Command bvc is the BV compiler: it elaborates BV source files into a
// Verilog subset.
package main

import (
	"fmt"
	"os"

	"github.com/bvlang/bvc/cmd/bvc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
