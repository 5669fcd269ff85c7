// Package editor detects and launches the user's text editor for the
// editable renaming listing, mirroring the per-OS default-editor lookup of
// the tool this one was modeled on: query the OS's registered handler for
// plain text, and fall back to a generic opener if detection fails.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

// UnsupportedOSError reports that the host OS has no known default-editor
// detection strategy.
type UnsupportedOSError struct {
	OS string
}

func (e *UnsupportedOSError) Error() string {
	return fmt.Sprintf("editor: unsupported OS %q", e.OS)
}

type platform struct {
	queryCommand   []string
	regex          *regexp.Regexp
	defaultCommand []string
	editorCommand  map[string][]string
}

var platforms = map[string]platform{
	"darwin": {
		queryCommand: []string{
			"defaults", "read",
			"com.apple.LaunchServices/com.apple.launchservices.secure",
			"LSHandlers",
		},
		regex: regexp.MustCompile(`(?ms)\s*\{\s*LSHandlerContentType = "public\.plain-text";\s*LSHandlerPreferredVersions =\s*\{\s*LSHandlerRoleAll = "-";\s*\};\s*LSHandlerRoleAll = "([\w.]+)";`),
		defaultCommand: []string{
			"open", "-neW",
		},
		editorCommand: map[string][]string{
			"com.microsoft.vscode": {"code", "-w"},
			"com.sublimetext.3":    {"subl", "-w"},
		},
	},
	"linux": {
		queryCommand: []string{
			"xdg-mime", "query", "default", "text/plain",
		},
		regex:          regexp.MustCompile(`(?ms)^(.*)\.desktop$`),
		defaultCommand: []string{"open", "-w"},
		editorCommand: map[string][]string{
			"code":         {"code", "-w"},
			"sublime_text": {"subl", "-w"},
		},
	},
	// Windows has no equivalent of xdg-mime/LSHandlers to query, so there is
	// no queryCommand/regex: Command falls straight through to notepad.
	"windows": {
		defaultCommand: []string{"notepad"},
	},
}

// Warner receives non-fatal diagnostics from editor detection; it is the
// structured logger's warning path, never stdout, so it never corrupts the
// editable listing's terminal presentation.
type Warner func(format string, args ...interface{})

// Launcher opens a path in the user's editor and waits for it to close.
type Launcher struct {
	override string
	warn     Warner
	goos     string
}

// New returns a Launcher. override, typically the config's editor field,
// always wins over OS detection when non-empty; it is a whitespace-split
// command line, e.g. "code -w".
func New(override string, warn Warner) *Launcher {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}
	return &Launcher{override: override, warn: warn, goos: runtime.GOOS}
}

// Command resolves the editor command line to run, without the path
// argument.
func (l *Launcher) Command() ([]string, error) {
	if l.override != "" {
		return strings.Fields(l.override), nil
	}

	p, ok := platforms[l.goos]
	if !ok {
		return nil, &UnsupportedOSError{OS: l.goos}
	}
	if len(p.queryCommand) == 0 {
		return append([]string(nil), p.defaultCommand...), nil
	}

	out, err := exec.Command(p.queryCommand[0], p.queryCommand[1:]...).Output()
	if err != nil {
		l.warn("detecting default editor: %v", err)
		return append([]string(nil), p.defaultCommand...), nil
	}

	matches := p.regex.FindStringSubmatch(string(out))
	if len(matches) < 2 {
		return append([]string(nil), p.defaultCommand...), nil
	}

	cmd, ok := p.editorCommand[matches[1]]
	if !ok {
		return append([]string(nil), p.defaultCommand...), nil
	}
	return cmd, nil
}

// Launch opens path in the resolved editor and blocks until the editor
// process exits; the darwin and linux commands above carry "-w"/"-neW" wait
// flags so that this happens when the user closes the file.
func (l *Launcher) Launch(ctx context.Context, path string) error {
	cmd, err := l.Command()
	if err != nil {
		return err
	}

	args := make([]string, 0, len(cmd)-1+1)
	args = append(args, cmd[1:]...)
	args = append(args, path)

	c := exec.CommandContext(ctx, cmd[0], args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
