// Package cmd implements the CLI commands for the renamer.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "file-renamer",
	Short:   "A safe bulk file/directory renamer",
	Long:    "file-renamer lets you rename a batch of files and directories by editing a plain-text listing in your own editor.\nIt plans renames through a cycle-safe graph resolver, executes them journaled so a crash mid-run can always be rolled back, and supports undo.",
	Version: version,
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", ".file-renamer.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all non-error output")
}

// logger prints a formatted message to stderr unless quiet mode is enabled.
func logger(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
