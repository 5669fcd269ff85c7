package diagnostics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithoutLogFileUsesStderr(t *testing.T) {
	l := New("", 10)
	if l == nil {
		t.Fatal("New() returned nil")
	}
	l.Warn("hello %s", "world")
	if err := l.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
}

func TestNewWithLogFileWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diag.log")

	l := New(path, 1)
	l.Info("planning started", "clauses", 3)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}
