package model

import "fmt"

// SourceMissingError reports that a clause's source path is absent from the
// filesystem (real or virtual) at planning time. Fatal: no changes made.
type SourceMissingError struct {
	Path Path
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("source missing: %s", e.Path)
}

// TargetCollisionError reports that a clause's target is occupied by a path
// that is neither its own source nor part of a resolvable cycle or chain.
// Fatal at planning time.
type TargetCollisionError struct {
	Target Path
}

func (e *TargetCollisionError) Error() string {
	return fmt.Sprintf("target collision: %s already exists and is not part of the renaming", e.Target)
}

// DuplicateTargetError reports that two distinct clauses request the same
// final path. Fatal at planning time.
type DuplicateTargetError struct {
	Target  Path
	Clauses []Clause
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("duplicate target: %d clauses all resolve to %s", len(e.Clauses), e.Target)
}

// RecoverableRenamingError reports that one arc failed to apply against the
// real filesystem while the journal recorded up to that point remains
// consistent with disk state. The caller must invoke rollback.
type RecoverableRenamingError struct {
	Arc   Arc
	Cause error
}

func (e *RecoverableRenamingError) Error() string {
	return fmt.Sprintf("renaming %s failed: %v", e.Arc, e.Cause)
}

func (e *RecoverableRenamingError) Unwrap() error {
	return e.Cause
}

// UnrecoverableError reports that rollback itself failed, e.g. because the
// target slot of an inverse arc was reoccupied externally. User
// intervention is required; the journal remains on disk as evidence.
type UnrecoverableError struct {
	Arc   Arc
	Cause error
}

func (e *UnrecoverableError) Error() string {
	return fmt.Sprintf("unrecoverable failure rolling back %s: %v", e.Arc, e.Cause)
}

func (e *UnrecoverableError) Unwrap() error {
	return e.Cause
}
