// Package scanner expands the user's path selection — a mix of files and
// directories passed on the command line or listed in a file — into the
// flat list of paths the rest of the tool treats as individual renaming
// targets.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/poponealex/file-renamer/internal/model"
)

// Options controls how directory arguments in a selection are handled.
type Options struct {
	// ExpandDirectories replaces a directory argument with its contained
	// entries instead of treating the directory itself as a rename target.
	ExpandDirectories bool
	// Recursive walks nested subdirectories too. Only meaningful when
	// ExpandDirectories is set.
	Recursive bool
	// IncludeHidden includes entries whose names start with ".".
	IncludeHidden bool
}

// Scanner expands a path selection according to the configured options.
type Scanner struct {
	opts Options
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Expand turns raw command-line/file arguments into the paths to be
// renamed. A directory argument is itself a rename target unless
// ExpandDirectories is set, in which case it's replaced by its contents.
// Arguments that don't exist on disk are passed through unchanged so that
// textsync.ResolveInodes can report them, collectively, as missing.
func (s *Scanner) Expand(inputs []string) ([]model.Path, error) {
	var out []model.Path

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil || !info.IsDir() || !s.opts.ExpandDirectories {
			out = append(out, model.NewPath(in))
			continue
		}

		children, err := s.walk(in)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}

	return out, nil
}

// walk lists dir's entries, recursing into subdirectories when s.opts.Recursive
// is set. Subdirectories encountered while not recursing are included as
// rename targets in their own right, never silently dropped.
func (s *Scanner) walk(dir string) ([]model.Path, error) {
	var out []model.Path

	if !s.opts.Recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scanner: read dir %q: %w", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
				continue
			}
			out = append(out, model.NewPath(filepath.Join(dir, name)))
		}
		return out, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("scanner: walk %q: %w", path, walkErr)
		}
		if path == dir {
			return nil
		}

		name := d.Name()
		if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		out = append(out, model.NewPath(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
