// Package renamer executes a planned arc sequence against a real (or
// simulated, via afero) filesystem, journaling each success so a failure
// partway through can be rolled back, and a prior committed session can
// later be undone.
package renamer

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/poponealex/file-renamer/internal/journal"
	"github.com/poponealex/file-renamer/internal/model"
)

// ErrNoSessionToUndo is returned by Undo when the journal has no committed
// session to reverse.
var ErrNoSessionToUndo = errors.New("renamer: no committed session to undo")

// Renamer applies arcs to fs and journals each one via j.
type Renamer struct {
	fs afero.Fs
	j  *journal.Journal

	session *journal.SessionWriter
	applied []model.Arc
}

// New returns a Renamer that applies renames to fs and journals them to j.
func New(fs afero.Fs, j *journal.Journal) *Renamer {
	return &Renamer{fs: fs, j: j}
}

// Perform applies each arc in order, journaling every success before
// attempting the next. On the first rename or journaling failure it returns
// the number of arcs applied so far and a *model.RecoverableRenamingError;
// the caller must then call Rollback before doing anything else with this
// Renamer. An arc that fails Validate is returned as that plain error, with
// the session left open.
func (r *Renamer) Perform(arcs []model.Arc) (int, error) {
	w, err := r.j.StartSession()
	if err != nil {
		return 0, fmt.Errorf("renamer: starting session: %w", err)
	}
	r.session = w
	r.applied = r.applied[:0]

	for _, arc := range arcs {
		if err := arc.Validate(); err != nil {
			return len(r.applied), err
		}
		if err := r.fs.Rename(arc.Source.String(), arc.Target.String()); err != nil {
			return len(r.applied), &model.RecoverableRenamingError{Arc: arc, Cause: err}
		}
		r.applied = append(r.applied, arc)
		if err := w.Append(arc); err != nil {
			return len(r.applied), &model.RecoverableRenamingError{Arc: arc, Cause: err}
		}
	}

	if err := w.Commit(); err != nil {
		return len(r.applied), fmt.Errorf("renamer: committing session: %w", err)
	}
	r.session = nil
	return len(r.applied), nil
}

// Rollback reverses every arc recorded by the most recent Perform call, in
// reverse order, and marks the session rolled-back in the journal. It
// returns the number of arcs successfully inverted and a
// *model.UnrecoverableError if any inverse rename fails — in which case the
// journal is left without a footer, as evidence for manual recovery or a
// future RecoverIncomplete call.
func (r *Renamer) Rollback() (int, error) {
	if r.session == nil {
		return 0, fmt.Errorf("renamer: rollback called with no open session")
	}
	w := r.session
	n := 0
	for i := len(r.applied) - 1; i >= 0; i-- {
		arc := r.applied[i]
		inv := arc.Inverse()
		if err := r.fs.Rename(inv.Source.String(), inv.Target.String()); err != nil {
			w.Abandon()
			r.session = nil
			return n, &model.UnrecoverableError{Arc: arc, Cause: err}
		}
		n++
	}

	if err := w.RolledBack(); err != nil {
		r.session = nil
		return n, &model.UnrecoverableError{Arc: model.Arc{}, Cause: err}
	}
	r.session = nil
	return n, nil
}

// RecoverIncomplete rolls back a session left without a footer by a prior
// process that crashed or was killed mid-run. It must be called before any
// new planning, per the journal's contract: "sessions marked incomplete are
// rolled back on the next run before any new planning."
func (r *Renamer) RecoverIncomplete() (int, error) {
	sessions, err := r.j.ReadSessions()
	if err != nil {
		return 0, fmt.Errorf("renamer: reading journal: %w", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	last := sessions[len(sessions)-1]
	if last.Complete() {
		return 0, nil
	}

	w, err := r.j.ResumeSession(last.ID)
	if err != nil {
		return 0, fmt.Errorf("renamer: resuming incomplete session: %w", err)
	}

	n := 0
	for i := len(last.Records) - 1; i >= 0; i-- {
		arc := last.Records[i].Arc()
		inv := arc.Inverse()
		if err := r.fs.Rename(inv.Source.String(), inv.Target.String()); err != nil {
			w.Abandon()
			return n, &model.UnrecoverableError{Arc: arc, Cause: err}
		}
		n++
	}

	if err := w.RolledBack(); err != nil {
		return n, &model.UnrecoverableError{Cause: err}
	}
	return n, nil
}

// Undo reverses the journal's most recently committed session by feeding its
// inverse arc sequence back into Perform, itself recorded as a new session.
func (r *Renamer) Undo() (int, error) {
	sessions, err := r.j.ReadSessions()
	if err != nil {
		return 0, fmt.Errorf("renamer: reading journal: %w", err)
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].Status == journal.StatusCommitted {
			return r.Perform(sessions[i].InverseArcs())
		}
	}
	return 0, ErrNoSessionToUndo
}
