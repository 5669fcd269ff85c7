// Package planner implements the SecureClauses algorithm: it converts a set
// of user-intended renaming clauses into an ordered sequence of arcs that
// are each legal to apply, in order, against the VirtualFileSystem.
package planner

import (
	"github.com/poponealex/file-renamer/internal/model"
	"github.com/poponealex/file-renamer/internal/vfs"
)

// component is a maximal chain or cycle of clauses linked by exact
// Target/Source equality (see traceComponent). firstSeen is the smallest
// clause index among its members, i.e. the index at which the discovery
// loop in SecureClauses first reached it.
type component struct {
	members   []int
	isCycle   bool
	firstSeen int
}

// SecureClauses converts clauses into an ordered list of Arcs such that
// replaying them on v via ApplyRename realizes every clause's intent and no
// intermediate ApplyRename violates its precondition.
//
// v is seeded via CloseOver before classification; a Pure v constructed with
// NewPure(allKnownSiblings...) or a Concrete v both work, matching the
// spec's dual-mode contract.
func SecureClauses(v *vfs.VirtualFileSystem, clauses []model.Clause) ([]model.Arc, error) {
	for _, c := range clauses {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	sources := make([]model.Path, len(clauses))
	for i, c := range clauses {
		sources[i] = c.Source
	}
	if err := v.CloseOver(sources); err != nil {
		return nil, err
	}

	if err := rejectDuplicateTargets(clauses); err != nil {
		return nil, err
	}

	bySource := make(map[string]int, len(clauses)) // source path -> clause index
	for i, c := range clauses {
		bySource[c.Source.String()] = i
	}

	n := len(clauses)
	nextOf := make([]int, n) // clauses[i].Target() is clauses[nextOf[i]].Source, or -1
	for i := range nextOf {
		nextOf[i] = -1
	}
	prevOf := make([]int, n)
	for i := range prevOf {
		prevOf[i] = -1
	}
	for i, c := range clauses {
		if j, ok := bySource[c.Target().String()]; ok {
			nextOf[i] = j
			prevOf[j] = i
		}
	}

	var components []component
	compOf := make([]int, n)
	visited := make([]bool, n)
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}

		members, isCycle := traceComponent(i, nextOf, prevOf)
		for _, idx := range members {
			visited[idx] = true
			compOf[idx] = len(components)
		}
		components = append(components, component{members: members, isCycle: isCycle, firstSeen: i})
	}

	order, err := orderComponents(clauses, components, compOf)
	if err != nil {
		return nil, err
	}

	var arcs []model.Arc
	for _, k := range order {
		comp := components[k]

		if comp.isCycle {
			cycleArcs, err := resolveCycle(v, clauses, comp.members, arcs)
			if err != nil {
				return nil, err
			}
			arcs = append(arcs, cycleArcs...)
			continue
		}

		pathArcs, err := resolvePath(v, clauses, comp.members, arcs)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, pathArcs...)
	}

	return arcs, nil
}

// rejectDuplicateTargets groups clauses by final target path; any group of
// size >= 2 is a hard error.
func rejectDuplicateTargets(clauses []model.Clause) error {
	groups := make(map[string][]model.Clause)
	order := make([]string, 0, len(clauses))
	for _, c := range clauses {
		key := c.Target().String()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}
	for _, key := range order {
		if len(groups[key]) >= 2 {
			return &model.DuplicateTargetError{Target: model.NewPath(key), Clauses: groups[key]}
		}
	}
	return nil
}

// traceComponent walks the single-out/single-in-degree graph from i and
// returns its members plus whether the component is a cycle. For a path,
// members are returned head-first; for a cycle, members are returned
// starting at i and following nextOf around.
func traceComponent(i int, nextOf, prevOf []int) (members []int, isCycle bool) {
	// Walk backward from i to find the component's head, unless we loop
	// back to i first, which means the component is a cycle.
	head := i
	for {
		p := prevOf[head]
		if p == -1 {
			break
		}
		if p == i {
			isCycle = true
			break
		}
		head = p
	}

	if isCycle {
		members = []int{i}
		cur := i
		for {
			cur = nextOf[cur]
			if cur == i {
				break
			}
			members = append(members, cur)
		}
		return members, true
	}

	members = []int{head}
	cur := head
	for nextOf[cur] != -1 {
		cur = nextOf[cur]
		members = append(members, cur)
	}
	return members, false
}

// orderComponents topologically sorts components so that any component
// holding a clause whose Source is a directory another clause renames
// resolves strictly before the component holding the nested clause: the
// nested clause's source only exists under its post-rename name once the
// ancestor's arcs have applied to v. Components with no such dependency keep
// their original discovery order (the smallest clause index first).
//
// Returns *model.SourceMissingError when two clauses disagree about order:
// either directly, because they were already linked into the same
// chain/cycle component by exact Source/Target equality (so that ordering is
// fixed and contradicts the directory-nesting requirement), or transitively,
// because the dependency graph between components has a cycle.
func orderComponents(clauses []model.Clause, components []component, compOf []int) ([]int, error) {
	n := len(clauses)
	deps := make([]map[int]bool, len(components)) // deps[k] = components that must resolve before k
	for k := range deps {
		deps[k] = make(map[int]bool)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || !clauses[j].Source.HasPrefix(clauses[i].Source) {
				continue
			}
			ci, cj := compOf[i], compOf[j]
			if ci == cj {
				return nil, &model.SourceMissingError{Path: clauses[j].Source}
			}
			deps[cj][ci] = true
		}
	}

	inDeg := make([]int, len(components))
	for k, ds := range deps {
		inDeg[k] = len(ds)
	}

	done := make([]bool, len(components))
	order := make([]int, 0, len(components))
	for len(order) < len(components) {
		next := -1
		for k := range components {
			if done[k] || inDeg[k] > 0 {
				continue
			}
			if next == -1 || components[k].firstSeen < components[next].firstSeen {
				next = k
			}
		}
		if next == -1 {
			// Every remaining component is still waiting on another: a
			// directory-nesting requirement that cannot be satisfied.
			stuck := -1
			for k := range components {
				if !done[k] && (stuck == -1 || components[k].firstSeen < components[stuck].firstSeen) {
					stuck = k
				}
			}
			return nil, &model.SourceMissingError{Path: clauses[components[stuck].firstSeen].Source}
		}

		done[next] = true
		order = append(order, next)
		for k, ds := range deps {
			if !done[k] && ds[next] {
				delete(ds, next)
				inDeg[k]--
			}
		}
	}

	return order, nil
}

// translateSource rewrites p through every already-applied arc whose
// original Source is p itself or a strict ancestor of p, mirroring how
// ApplyRename propagates a directory rename onto its descendants. This is
// needed because a clause's Source is fixed at the path the user saw while
// editing the listing, which no longer exists once an ancestor directory in
// the same batch has already been renamed.
func translateSource(p model.Path, applied []model.Arc) model.Path {
	for _, a := range applied {
		switch {
		case p.Equal(a.Source):
			p = a.Target
		case p.HasPrefix(a.Source):
			p = a.Target.Join(p.RelativeTo(a.Source))
		}
	}
	return p
}

// resolvePath emits arcs for a simple chain c1 -> c2 -> ... -> ck whose tail
// target is free, in reverse order (ck, ..., c1), applying each to v.
// applied holds every arc already applied by earlier components in this
// SecureClauses call, so a member's Source can be translated onto its
// current path when it lies under a directory an earlier component renamed.
func resolvePath(v *vfs.VirtualFileSystem, clauses []model.Clause, members []int, applied []model.Arc) ([]model.Arc, error) {
	tail := clauses[members[len(members)-1]]
	tailSource := translateSource(tail.Source, applied)
	tailTarget := tailSource.WithBase(tail.NewName)
	if v.Exists(tailTarget) {
		return nil, &model.TargetCollisionError{Target: tailTarget}
	}

	arcs := make([]model.Arc, 0, len(members))
	for i := len(members) - 1; i >= 0; i-- {
		c := clauses[members[i]]
		src := translateSource(c.Source, applied)
		arc := model.Arc{Inode: c.Inode, Source: src, Target: src.WithBase(c.NewName)}
		if err := arc.Validate(); err != nil {
			return nil, err
		}
		if err := v.ApplyRename(arc.Source, arc.Target); err != nil {
			return nil, err
		}
		arcs = append(arcs, arc)
	}
	return arcs, nil
}

// resolveCycle breaks a cycle c1 -> c2 -> ... -> ck -> c1 by relocating c1's
// source to a fresh temporary sibling, resolving the remainder as a path
// terminating at the vacated slot, then moving the temporary into c1's
// final target. applied plays the same role as in resolvePath.
func resolveCycle(v *vfs.VirtualFileSystem, clauses []model.Clause, members []int, applied []model.Arc) ([]model.Arc, error) {
	c1 := clauses[members[0]]
	src1 := translateSource(c1.Source, applied)
	temp := v.FreshSibling(src1)

	openingArc := model.Arc{Inode: c1.Inode, Source: src1, Target: temp}
	if err := v.ApplyRename(openingArc.Source, openingArc.Target); err != nil {
		return nil, err
	}

	arcs := []model.Arc{openingArc}

	if len(members) > 1 {
		restApplied := append(append([]model.Arc(nil), applied...), openingArc)
		restArcs, err := resolvePath(v, clauses, members[1:], restApplied)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, restArcs...)
	}

	closingArc := model.Arc{Inode: c1.Inode, Source: temp, Target: src1.WithBase(c1.NewName)}
	if err := v.ApplyRename(closingArc.Source, closingArc.Target); err != nil {
		return nil, err
	}
	arcs = append(arcs, closingArc)

	return arcs, nil
}
