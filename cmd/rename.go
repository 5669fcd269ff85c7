package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/poponealex/file-renamer/internal"
	"github.com/poponealex/file-renamer/internal/config"
	"github.com/poponealex/file-renamer/internal/diagnostics"
	"github.com/poponealex/file-renamer/internal/editor"
	"github.com/poponealex/file-renamer/internal/journal"
	"github.com/poponealex/file-renamer/internal/model"
	"github.com/poponealex/file-renamer/internal/planner"
	"github.com/poponealex/file-renamer/internal/renamer"
	"github.com/poponealex/file-renamer/internal/scanner"
	"github.com/poponealex/file-renamer/internal/textsync"
	"github.com/poponealex/file-renamer/internal/vfs"
)

var (
	renamePaths         []string
	renameListFile      string
	renameDryRun        bool
	renameRecursive     bool
	renameIncludeHidden bool
	renameExpandDirs    bool
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename a batch of files and directories by editing a listing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRename(cmd, false)
	},
}

// runRename implements the rename command. forceDryRun is set by the
// preview alias, which always plans without applying regardless of flags.
func runRename(cmd *cobra.Command, forceDryRun bool) error {
	cfg, err := loadConfigOrDefault()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	diag := diagnostics.New(cfg.LogFile, cfg.LogMaxSizeMB)
	defer diag.Close()

	dryRun := cfg.DryRunByDefault
	if cmd.Flags().Changed("dry-run") {
		dryRun = renameDryRun
	}
	if forceDryRun {
		dryRun = true
	}

	if !dryRun {
		recovery := renamer.New(afero.NewOsFs(), journalForConfig(cfg))
		if n, err := recovery.RecoverIncomplete(); err != nil {
			diag.Warn("crash recovery failed: %v", err)
		} else if n > 0 {
			logger("Recovered %d rename(s) left incomplete by a previous crashed run.", n)
		}
	}

	inputs, err := collectInputs(renamePaths, renameListFile)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New("no paths given; pass -p/--paths or -f/--file")
	}

	sc := scanner.New(scanner.Options{
		ExpandDirectories: renameExpandDirs,
		Recursive:         renameRecursive,
		IncludeHidden:     renameIncludeHidden,
	})
	selected, err := sc.Expand(inputs)
	if err != nil {
		return fmt.Errorf("expanding path selection: %w", err)
	}

	original, err := textsync.ResolveInodes(selected)
	if err != nil {
		return fmt.Errorf("resolving selection: %w", err)
	}

	listing := textsync.Render(original)
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("file-renamer-%d.txt", os.Getpid()))
	if err := renameio.WriteFile(tmpPath, []byte(listing), 0o600); err != nil {
		return fmt.Errorf("writing editable listing: %w", err)
	}
	defer os.Remove(tmpPath)

	launcher := editor.New(cfg.Editor, diag.Warn)
	if err := launcher.Launch(cmd.Context(), tmpPath); err != nil {
		return fmt.Errorf("launching editor: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("reading edited listing: %w", err)
	}

	clauses, err := textsync.Parse(string(edited), original)
	if err != nil {
		return fmt.Errorf("parsing edited listing: %w", err)
	}
	if len(clauses) == 0 {
		logger("No changes detected; nothing to do.")
		return nil
	}

	diag.Info("planning started", "clauses", len(clauses))

	v := vfs.NewConcrete(afero.NewOsFs())
	arcs, err := planner.SecureClauses(v, clauses)
	if err != nil {
		return fmt.Errorf("planning renames: %w", err)
	}

	if dryRun {
		logger("--- Dry Run ---")
		for _, a := range arcs {
			logger("  %s", a)
		}
		logger("%d rename(s) would be applied.", len(arcs))
		return nil
	}

	fs := afero.NewOsFs()
	j := journalForConfig(cfg)
	if err := os.MkdirAll(filepath.Dir(j.Path()), internal.DefaultDirPerms); err != nil {
		return fmt.Errorf("preparing journal directory: %w", err)
	}
	if verbose {
		logger("Journal: %s", shortPath(j.Path()))
	}

	r := renamer.New(fs, j)
	n, err := r.Perform(arcs)
	if err != nil {
		var recoverable *model.RecoverableRenamingError
		if errors.As(err, &recoverable) {
			logger("Rename failed after %d applied: %v", n, err)
			rolledBack, rbErr := r.Rollback()
			if rbErr != nil {
				return fmt.Errorf("rollback failed, %d reverted, manual intervention required: %w", rolledBack, rbErr)
			}
			return fmt.Errorf("rolled back %d rename(s): %w", rolledBack, err)
		}
		return fmt.Errorf("performing renames: %w", err)
	}

	logger("Committed %d rename(s).", n)
	return nil
}

func init() {
	renameCmd.Flags().StringArrayVarP(&renamePaths, "paths", "p", nil, "paths to rename (repeatable)")
	renameCmd.Flags().StringVarP(&renameListFile, "file", "f", "", "file listing paths to rename, one per line")
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "plan renames without applying them")
	renameCmd.Flags().BoolVarP(&renameRecursive, "recursive", "r", false, "expand directories recursively")
	renameCmd.Flags().BoolVar(&renameIncludeHidden, "include-hidden", false, "include hidden entries when expanding directories")
	renameCmd.Flags().BoolVar(&renameExpandDirs, "expand-dirs", false, "treat directory arguments as containers instead of rename targets")
	// preview.go's init runs before this one, so preview copies the flags here.
	previewCmd.Flags().AddFlagSet(renameCmd.Flags())
	rootCmd.AddCommand(renameCmd)
}

// loadConfigOrDefault loads the configured config file, falling back to
// defaults when the user never ran init and left cfgFile at its default.
func loadConfigOrDefault() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if cfgFile == ".file-renamer.yaml" && os.IsNotExist(underlyingNotExist(err)) {
		return config.Default(), nil
	}
	return nil, err
}

// underlyingNotExist unwraps config.Load's wrapped os.ReadFile error so
// os.IsNotExist can see the original *PathError.
func underlyingNotExist(err error) error {
	return errors.Unwrap(err)
}

// collectInputs merges explicit -p paths with the contents of a -f listing
// file, one path per line, blank lines ignored.
func collectInputs(paths []string, listFile string) ([]string, error) {
	inputs := append([]string{}, paths...)
	if listFile == "" {
		return inputs, nil
	}

	data, err := os.ReadFile(listFile)
	if err != nil {
		return nil, fmt.Errorf("reading path list %s: %w", listFile, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	return inputs, nil
}

func journalForConfig(cfg *config.Config) *journal.Journal {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return journal.Open(filepath.Join(home, internal.StateDir, internal.JournalFile))
}
