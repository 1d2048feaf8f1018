// Package main is the entry point for the sqlcanvas CLI binary.
package main

import (
	"os"

	"sqlcanvas/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
