// Package config handles parsing and validation of the tool's
// .file-renamer.yaml configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration.
type Config struct {
	// Editor overrides the automatic default-editor detection; empty means
	// "detect from the host OS's default text-editor association".
	Editor string `yaml:"editor"`

	// LogFile is where structured diagnostics are written. Empty disables
	// file logging (diagnostics at info level and above then go to stderr).
	LogFile string `yaml:"log_file"`

	// LogMaxSizeMB bounds how large LogFile grows before it's rotated.
	LogMaxSizeMB int `yaml:"log_max_size_mb"`

	// UndoRetentionSessions is parsed and validated (it must not be
	// negative), but no command reads it: the journal keeps every session
	// and is never pruned.
	UndoRetentionSessions int `yaml:"undo_retention_sessions"`

	// DryRunByDefault makes every run a preview unless the command line
	// passes --dry-run=false.
	DryRunByDefault bool `yaml:"dry_run_by_default"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		LogMaxSizeMB:          10,
		UndoRetentionSessions: 20,
	}
}

// Load reads and parses a configuration file from the given path.
func Load(path string) (*Config, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", expanded, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", expanded, err)
	}

	return cfg, nil
}

// Parse unmarshals YAML data into a Config, applies defaults, and validates
// the result.
func Parse(data []byte) (*Config, error) {
	cfg := Config{
		LogMaxSizeMB:          10,
		UndoRetentionSessions: 20,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// validate checks that the config is well-formed.
func validate(cfg *Config) error {
	if cfg.LogMaxSizeMB < 0 {
		return fmt.Errorf("log_max_size_mb must not be negative")
	}
	if cfg.UndoRetentionSessions < 0 {
		return fmt.Errorf("undo_retention_sessions must not be negative")
	}
	if cfg.LogFile != "" {
		expanded, err := ExpandPath(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("expanding log_file: %w", err)
		}
		cfg.LogFile = expanded
	}
	return nil
}

// ExpandPath expands a leading ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

// SampleConfig returns a sample .file-renamer.yaml configuration string.
func SampleConfig() string {
	return "# file-renamer configuration file\n" +
		"\n" +
		"# editor: leave blank to auto-detect the OS default text editor\n" +
		"editor: \"\"\n" +
		"\n" +
		"# log_file: where structured diagnostics are written; blank disables file logging\n" +
		"log_file: ~/.file-renamer/diagnostics.log\n" +
		"log_max_size_mb: 10\n" +
		"\n" +
		"# undo_retention_sessions: not read by any command; the journal keeps every session\n" +
		"undo_retention_sessions: 20\n" +
		"\n" +
		"# dry_run_by_default: require --dry-run=false to actually rename anything\n" +
		"dry_run_by_default: false\n"
}
