// Package main is the entry point for the sqlsh interactive SQL shell.
// It provides a uniform set of dot-commands and a consistent result output
// format across heterogeneous database backends.
package main

import (
	"sqlsh/cli/cmd"
)

// main is the entry point for the sqlsh application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
