// Package diagnostics wires up the tool's structured, rotated log: every
// run logs its planning and execution steps to a JSON file via log/slog,
// rotated by lumberjack, while warnings are also mirrored to stderr so an
// interactive user sees them without tailing a file.
package diagnostics

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with the editor.Warner-shaped hook the rest of
// the tool uses to report non-fatal problems without writing to stdout,
// which is reserved for the editable listing and CLI reports.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New builds a Logger. If logFile is empty, diagnostics go to stderr only
// (no rotation, no file). maxSizeMB is lumberjack's MaxSize in megabytes.
func New(logFile string, maxSizeMB int) *Logger {
	if logFile == "" {
		return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, nil))}
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSizeMB,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}

	handler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{Logger: slog.New(handler), closer: rotator}
}

// Close releases the underlying rotated file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Warn reports a non-fatal diagnostic in the shape editor.Warner expects:
// it goes to the structured log and to stderr, never to stdout.
func (l *Logger) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.Logger.Warn(msg)
	if l.closer != nil {
		fmt.Fprintln(os.Stderr, msg)
	}
}
