// Package main is the entry point for the mwclean CLI.
package main

import (
	"os"

	"github.com/shlomif/mwclean/cmd/mwclean/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
