package model

import "fmt"

// Clause is a user intent: rename the entry at Source (identified stably by
// Inode) so that its new basename is NewName.
//
// Invariants enforced by callers that construct clauses: Source exists in
// the real filesystem at plan time; NewName contains no path separator;
// NewName is not equal to Source.Base(). At most one Clause exists per
// Inode in any given set handed to the planner.
type Clause struct {
	Inode   Inode
	Source  Path
	NewName string
}

// Target returns the path this clause asks for: Source's parent joined with
// NewName.
func (c Clause) Target() Path {
	return c.Source.WithBase(c.NewName)
}

// Validate checks the Clause-level invariants that don't require filesystem
// access (the source-exists check happens in the VFS during close_over).
func (c Clause) Validate() error {
	if c.NewName == "" {
		return fmt.Errorf("clause for inode %s: new name is empty", c.Inode)
	}
	for _, r := range c.NewName {
		if r == '/' {
			return fmt.Errorf("clause for inode %s: new name %q contains a path separator", c.Inode, c.NewName)
		}
	}
	if c.NewName == c.Source.Base() {
		return fmt.Errorf("clause for inode %s: new name %q is unchanged", c.Inode, c.NewName)
	}
	return nil
}
