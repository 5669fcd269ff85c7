// Package main is the entry point for the file-renamer CLI.
package main

import (
	"os"

	"github.com/poponealex/file-renamer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
