// Command ragcalc is a tool-calling assistant that does arithmetic through
// tools and looks up words in a small semantic index.
package main

import (
	"fmt"
	"os"

	"github.com/leofalp/ragcalc/cmd/ragcalc/commands"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
