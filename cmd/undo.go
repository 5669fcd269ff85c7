package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/poponealex/file-renamer/internal/diagnostics"
	"github.com/poponealex/file-renamer/internal/renamer"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Reverse the most recently committed rename session",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfigOrDefault()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		diag := diagnostics.New(cfg.LogFile, cfg.LogMaxSizeMB)
		defer diag.Close()

		j := journalForConfig(cfg)
		r := renamer.New(afero.NewOsFs(), j)

		// A session a prior crashed run left without a footer must be rolled
		// back before any new planning, including an undo: Undo itself only
		// looks at committed sessions, so it would otherwise silently skip
		// the footerless session and replay an older, now-stale one.
		if n, err := r.RecoverIncomplete(); err != nil {
			diag.Warn("crash recovery failed: %v", err)
		} else if n > 0 {
			logger("Recovered %d rename(s) left incomplete by a previous crashed run.", n)
		}

		n, err := r.Undo()
		if err != nil {
			if errors.Is(err, renamer.ErrNoSessionToUndo) {
				logger("Nothing to undo.")
				return nil
			}
			return fmt.Errorf("undoing last session: %w", err)
		}

		logger("Undid %d rename(s).", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
