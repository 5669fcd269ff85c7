package model

import "fmt"

// Arc is a single directory-local rename primitive: move Source to Target.
// Source and Target must share the same parent directory — any arc that
// doesn't is a planner bug, not a runtime condition to recover from.
type Arc struct {
	Inode  Inode
	Source Path
	Target Path
}

// Validate asserts the directory-local precondition described in the
// external-interfaces contract: a cross-directory arc is a planner bug.
func (a Arc) Validate() error {
	if !a.Source.Parent().Equal(a.Target.Parent()) {
		return fmt.Errorf("arc %s -> %s is not directory-local", a.Source, a.Target)
	}
	return nil
}

// Inverse returns the arc that undoes a, with source and target swapped.
func (a Arc) Inverse() Arc {
	return Arc{Inode: a.Inode, Source: a.Target, Target: a.Source}
}

func (a Arc) String() string {
	return fmt.Sprintf("%s -> %s", a.Source, a.Target)
}
