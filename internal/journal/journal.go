// Package journal implements the append-only, line-oriented log of applied
// arcs that makes a renaming session reversible: one session is bounded by a
// start marker and, once it is committed or rolled back, an end marker; undo
// replays the most recent committed session's arcs in reverse.
package journal

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poponealex/file-renamer/internal/model"
)

const (
	markerSessionStart = "@@session-start"
	markerSessionEnd   = "@@session-end"

	// StatusCommitted marks a session whose arcs all applied successfully.
	StatusCommitted Status = "committed"
	// StatusRolledBack marks a session that failed partway and was undone
	// in place by the Renamer before returning to the caller.
	StatusRolledBack Status = "rolled-back"
)

// Status records how a session ended, carried on its footer line so undo
// can tell a clean rollback from one it still needs to account for.
type Status string

// Record is one applied arc as stored in the journal.
type Record struct {
	Inode model.Inode
	From  model.Path
	To    model.Path
}

// Arc converts a Record back into the Arc the Renamer applied.
func (r Record) Arc() model.Arc {
	return model.Arc{Inode: r.Inode, Source: r.From, Target: r.To}
}

// Session is one contiguous run of the Renamer, bounded by its start and
// (if present) end markers.
type Session struct {
	ID      string
	Start   time.Time
	End     *time.Time
	Status  Status
	Records []Record
}

// Complete reports whether the session has a footer, i.e. the Renamer
// reached a terminal state (Committed or RolledBack) before exiting.
func (s Session) Complete() bool {
	return s.End != nil
}

// Arcs returns the session's records as the arc sequence the Renamer
// applied, in application order.
func (s Session) Arcs() []model.Arc {
	out := make([]model.Arc, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Arc()
	}
	return out
}

// InverseArcs returns the arc sequence that undoes the session, in the
// order it must be applied: latest-applied arc first.
func (s Session) InverseArcs() []model.Arc {
	out := make([]model.Arc, len(s.Records))
	for i, r := range s.Records {
		out[len(s.Records)-1-i] = r.Arc().Inverse()
	}
	return out
}

// Journal is a handle on a journal file; it does not itself hold the file
// open between operations, so multiple short-lived processes (rename, then
// later undo) can share one journal path safely.
type Journal struct {
	path string
}

// Open returns a handle on the journal file at path. The file need not
// exist yet; it is created on first StartSession.
func Open(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file's path.
func (j *Journal) Path() string {
	return j.path
}

// SessionWriter appends records to one open session. Every write is
// followed by an fsync so a crash leaves the file truncated at a record
// boundary, never mid-record.
type SessionWriter struct {
	file *os.File
	id   string
}

// StartSession opens the journal in append mode and writes a session-start
// marker carrying a fresh session identifier and the current time.
func (j *Journal) StartSession() (*SessionWriter, error) {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: opening %s: %w", j.path, err)
	}

	id := uuid.NewString()
	line := strings.Join([]string{markerSessionStart, id, time.Now().UTC().Format(time.RFC3339Nano)}, "\t") + "\n"
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return nil, fmt.Errorf("journal: writing session start: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, fmt.Errorf("journal: syncing session start: %w", err)
	}

	return &SessionWriter{file: f, id: id}, nil
}

// ID returns the session identifier assigned at StartSession.
func (w *SessionWriter) ID() string {
	return w.id
}

// ResumeSession reopens the journal in append mode to finalize a session
// whose start marker was already written by a prior, now-dead process. It
// does not rewrite the start marker; callers use the writer only to Append
// further records or to finalize via Commit/RolledBack/Abandon.
func (j *Journal) ResumeSession(id string) (*SessionWriter, error) {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: opening %s: %w", j.path, err)
	}
	return &SessionWriter{file: f, id: id}, nil
}

// Append records one successfully applied arc. The caller must call Append
// only after the arc has already succeeded against the real filesystem, and
// must do so before attempting the next arc.
func (w *SessionWriter) Append(arc model.Arc) error {
	line := strings.Join([]string{
		arc.Inode.String(),
		escapeField(arc.Source.String()),
		escapeField(arc.Target.String()),
	}, "\t") + "\n"

	if _, err := w.file.WriteString(line); err != nil {
		return fmt.Errorf("journal: writing record: %w", err)
	}
	return w.file.Sync()
}

// finish writes the footer line with the given status and closes the file.
func (w *SessionWriter) finish(status Status) error {
	line := strings.Join([]string{markerSessionEnd, w.id, time.Now().UTC().Format(time.RFC3339Nano), string(status)}, "\t") + "\n"
	if _, err := w.file.WriteString(line); err != nil {
		w.file.Close()
		return fmt.Errorf("journal: writing session end: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return fmt.Errorf("journal: syncing session end: %w", err)
	}
	return w.file.Close()
}

// Commit writes a committed footer: every arc in the session applied
// cleanly.
func (w *SessionWriter) Commit() error {
	return w.finish(StatusCommitted)
}

// RolledBack writes a rolled-back footer: a later arc failed, but rollback
// successfully inverted every arc recorded so far in this session.
func (w *SessionWriter) RolledBack() error {
	return w.finish(StatusRolledBack)
}

// Abandon closes the file without writing a footer. This is the
// Unrecoverable path: rollback itself failed, so the session is left
// incomplete on disk as evidence for the next run (or for a human) to act
// on.
func (w *SessionWriter) Abandon() error {
	return w.file.Close()
}

// ReadSessions parses the journal file into its constituent sessions, in
// the order they occur in the file. A missing file yields no sessions, not
// an error, so callers can probe freely before any renaming has happened.
func (j *Journal) ReadSessions() ([]Session, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("journal: opening %s: %w", j.path, err)
	}
	defer f.Close()

	var sessions []Session
	var current *Session

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		switch fields[0] {
		case markerSessionStart:
			if len(fields) != 3 {
				return nil, fmt.Errorf("journal: line %d: malformed session-start marker", lineNo)
			}
			start, err := time.Parse(time.RFC3339Nano, fields[2])
			if err != nil {
				return nil, fmt.Errorf("journal: line %d: bad session-start timestamp: %w", lineNo, err)
			}
			if current != nil {
				// The previous session never got a footer: keep it as
				// incomplete rather than dropping its records.
				sessions = append(sessions, *current)
			}
			current = &Session{ID: fields[1], Start: start}

		case markerSessionEnd:
			if len(fields) != 4 {
				return nil, fmt.Errorf("journal: line %d: malformed session-end marker", lineNo)
			}
			if current == nil || current.ID != fields[1] {
				return nil, fmt.Errorf("journal: line %d: session-end %s does not match an open session", lineNo, fields[1])
			}
			end, err := time.Parse(time.RFC3339Nano, fields[2])
			if err != nil {
				return nil, fmt.Errorf("journal: line %d: bad session-end timestamp: %w", lineNo, err)
			}
			current.End = &end
			current.Status = Status(fields[3])
			sessions = append(sessions, *current)
			current = nil

		default:
			if current == nil {
				return nil, fmt.Errorf("journal: line %d: record outside any session", lineNo)
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("journal: line %d: malformed record", lineNo)
			}
			inode, err := strconv.ParseUint(fields[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("journal: line %d: bad inode: %w", lineNo, err)
			}
			current.Records = append(current.Records, Record{
				Inode: model.Inode(inode),
				From:  model.NewPath(unescapeField(fields[1])),
				To:    model.NewPath(unescapeField(fields[2])),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("journal: scanning %s: %w", j.path, err)
	}

	if current != nil {
		// A session with no footer: the process crashed, or rollback
		// itself failed (Abandon). Surface it as incomplete rather than
		// dropping its records.
		sessions = append(sessions, *current)
	}

	return sessions, nil
}

// LastCompleteSession returns the most recently started session that has a
// footer, or ok=false if none exists.
func (j *Journal) LastCompleteSession() (session Session, ok bool, err error) {
	sessions, err := j.ReadSessions()
	if err != nil {
		return Session{}, false, err
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].Complete() {
			return sessions[i], true, nil
		}
	}
	return Session{}, false, nil
}

// IncompleteSessions returns every session lacking a footer, in file order.
// A fresh Renamer run rolls these back before planning anything new.
func (j *Journal) IncompleteSessions() ([]Session, error) {
	sessions, err := j.ReadSessions()
	if err != nil {
		return nil, err
	}
	var out []Session
	for _, s := range sessions {
		if !s.Complete() {
			out = append(out, s)
		}
	}
	return out, nil
}

// escapeField percent-escapes bytes that would otherwise break the
// line/tab-separated format: '%' itself (so escaping is unambiguous to
// reverse), tab, and newline.
func escapeField(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '%':
			b.WriteString("%25")
		case '\t':
			b.WriteString("%09")
		case '\n':
			b.WriteString("%0A")
		case '\r':
			b.WriteString("%0D")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unescapeField reverses escapeField.
func unescapeField(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			switch s[i : i+3] {
			case "%25":
				b.WriteByte('%')
				i += 2
				continue
			case "%09":
				b.WriteByte('\t')
				i += 2
				continue
			case "%0A":
				b.WriteByte('\n')
				i += 2
				continue
			case "%0D":
				b.WriteByte('\r')
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
