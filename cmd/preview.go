package cmd

import (
	"github.com/spf13/cobra"
)

// previewCmd is a thin alias for `rename --dry-run`, kept as its own entry
// point since it reads better in scripts than remembering the flag name.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what rename would do, without applying any changes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRename(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
