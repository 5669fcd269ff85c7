// Package internal defines shared constants used across the file-renamer
// codebase.
package internal

import "os"

const (
	// DefaultDirPerms is the permission mode used when creating directories.
	DefaultDirPerms os.FileMode = 0o750

	// DefaultConfigFile is the default configuration file name.
	DefaultConfigFile = ".file-renamer.yaml"

	// StateDir is the directory name (under $HOME) that stores persistent
	// tool state: the rename journal and rotated diagnostics.
	StateDir = ".file-renamer"

	// JournalFile is the file name used for the append-only rename journal.
	JournalFile = "journal.log"

	// DiagnosticsFile is the file name the sample config's log_file uses for
	// rotated structured logs; an empty log_file disables file logging
	// rather than falling back to it.
	DiagnosticsFile = "diagnostics.log"

	// TimeFormat is the timestamp layout used when displaying session
	// metadata to the user.
	TimeFormat = "2006-01-02 15:04:05"
)
