package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/poponealex/file-renamer/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a sample .file-renamer.yaml configuration file",
	RunE: func(_ *cobra.Command, _ []string) error {
		const filename = ".file-renamer.yaml"

		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("%s already exists; remove it first or edit it directly", filename)
		}

		if err := os.WriteFile(filename, []byte(config.SampleConfig()), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", filename, err)
		}

		logger("Created %s — edit it to set your preferred editor and log settings, then run 'file-renamer rename -p <path>'.", filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
