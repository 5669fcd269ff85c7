package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/poponealex/file-renamer/internal"
	"github.com/poponealex/file-renamer/internal/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent rename sessions recorded in the journal",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfigOrDefault()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		j := journalForConfig(cfg)
		sessions, err := j.ReadSessions()
		if err != nil {
			return fmt.Errorf("reading journal: %w", err)
		}
		if len(sessions) == 0 {
			logger("No sessions recorded at %s.", j.Path())
			return nil
		}

		start := 0
		if historyLimit > 0 && len(sessions) > historyLimit {
			start = len(sessions) - historyLimit
		}
		printSessionTable(sessions[start:])
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "show at most this many of the most recent sessions (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

// printSessionTable renders a formatted table of journal sessions.
func printSessionTable(sessions []journal.Session) {
	if quiet {
		return
	}

	idHeader := "Session"
	statusHeader := "Status"
	whenHeader := "Started"
	countHeader := "Renames"

	idWidth := len(idHeader)
	statusWidth := len(statusHeader)
	whenWidth := len(whenHeader)
	countWidth := len(countHeader)

	type row struct {
		id, status, when, count string
	}
	rows := make([]row, 0, len(sessions))
	for _, s := range sessions {
		status := string(s.Status)
		if !s.Complete() {
			status = "incomplete"
		}
		r := row{
			id:     s.ID,
			status: status,
			when:   s.Start.Format(internal.TimeFormat),
			count:  fmt.Sprintf("%d", len(s.Records)),
		}
		rows = append(rows, r)
		if len(r.id) > idWidth {
			idWidth = len(r.id)
		}
		if len(r.status) > statusWidth {
			statusWidth = len(r.status)
		}
		if len(r.when) > whenWidth {
			whenWidth = len(r.when)
		}
		if len(r.count) > countWidth {
			countWidth = len(r.count)
		}
	}

	format := fmt.Sprintf("  %%-%ds  %%-%ds  %%-%ds  %%-%ds\n", idWidth, statusWidth, whenWidth, countWidth)
	sep := fmt.Sprintf("  %s  %s  %s  %s\n",
		repeat("─", idWidth),
		repeat("─", statusWidth),
		repeat("─", whenWidth),
		repeat("─", countWidth),
	)

	fmt.Printf(format, idHeader, statusHeader, whenHeader, countHeader)
	fmt.Print(sep)
	for _, r := range rows {
		fmt.Printf(format, r.id, r.status, r.when, r.count)
	}
}

// repeat returns a string consisting of s repeated n times.
func repeat(s string, n int) string {
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}

// shortPath replaces the user's home directory prefix with ~ for brevity,
// used when reporting the journal path back to the user.
func shortPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(home, abs)
	if err != nil || len(rel) > 1 && rel[:2] == ".." {
		return path
	}
	return filepath.Join("~", rel)
}
