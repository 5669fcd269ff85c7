// Package vfs implements the VirtualFileSystem: an in-memory set of paths
// that answers existence/sibling queries and applies virtual renames that
// propagate to descendants, so the planner can reason about a filesystem
// without mutating the real one.
//
// Two modes are selected at construction, matching the spec's Pure/Concrete
// split: Pure holds its own in-memory set; Concrete delegates existence and
// sibling queries to a real (or simulated) filesystem through an afero.Fs,
// so the exact same code drives both a production directory tree and an
// in-memory tree in tests.
package vfs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/spf13/afero"

	"github.com/poponealex/file-renamer/internal/model"
)

// VirtualFileSystem is the planner's sandbox: a set of Paths, either held
// entirely in memory (Pure) or backed by a real filesystem (Concrete).
type VirtualFileSystem struct {
	fs   afero.Fs        // nil in Pure mode
	pure map[string]bool // cleaned path -> present, nil in Concrete mode
}

// NewPure constructs a Pure-mode VFS seeded with the given paths. Pure mode
// is used for dry-run planning and for tests: close_over becomes a
// validation-only pass since every sibling is expected to already be
// present.
func NewPure(paths ...model.Path) *VirtualFileSystem {
	v := &VirtualFileSystem{
		pure: make(map[string]bool, len(paths)),
	}
	for _, p := range paths {
		v.insert(p)
	}
	return v
}

// NewConcrete constructs a Concrete-mode VFS delegating existence and
// sibling queries to fs. In production fs is afero.NewOsFs(); tests pass
// afero.NewMemMapFs() to simulate a filesystem without touching disk.
func NewConcrete(fs afero.Fs) *VirtualFileSystem {
	return &VirtualFileSystem{fs: fs}
}

// IsPure reports whether v is in Pure mode.
func (v *VirtualFileSystem) IsPure() bool {
	return v.fs == nil
}

func (v *VirtualFileSystem) insert(p model.Path) {
	v.pure[p.String()] = true
}

func (v *VirtualFileSystem) remove(p model.Path) {
	delete(v.pure, p.String())
}

// Exists reports whether p is present in the VFS.
func (v *VirtualFileSystem) Exists(p model.Path) bool {
	if v.IsPure() {
		return v.pure[p.String()]
	}
	_, err := v.fs.Stat(p.String())
	return err == nil
}

// Children returns the members of the VFS whose parent is exactly p, sorted
// for deterministic iteration.
func (v *VirtualFileSystem) Children(p model.Path) []model.Path {
	if v.IsPure() {
		var out []model.Path
		for key := range v.pure {
			candidate := model.NewPath(key)
			if candidate.Parent().Equal(p) {
				out = append(out, candidate)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
		return out
	}

	entries, err := afero.ReadDir(v.fs, p.String())
	if err != nil {
		return nil
	}
	out := make([]model.Path, 0, len(entries))
	for _, e := range entries {
		out = append(out, p.Join(e.Name()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Siblings returns the other members of p's parent directory, p included.
func (v *VirtualFileSystem) Siblings(p model.Path) []model.Path {
	return v.Children(p.Parent())
}

// CloseOver seeds the VFS with the real siblings of every source path so
// that subsequent collision tests are sound. It fails with
// *model.SourceMissingError if any source path is absent.
//
// In Pure mode this is a validation-only pass: the invariant is that all
// paths are already present, so union-ing siblings is a no-op by
// construction. In Concrete mode it materializes each source's directory
// listing into the set so the planner never has to re-touch the real
// filesystem to ask "does this path exist" mid-plan.
func (v *VirtualFileSystem) CloseOver(sources []model.Path) error {
	for _, s := range sources {
		if !v.Exists(s) {
			return &model.SourceMissingError{Path: s}
		}
	}

	if v.IsPure() {
		return nil
	}

	// Materialize into an explicit set so that subsequent ApplyRename calls
	// on a Concrete VFS operate virtually, exactly like Pure mode, instead
	// of touching the real filesystem during planning.
	v.pure = make(map[string]bool)
	seen := make(map[string]bool)
	for _, s := range sources {
		if seen[s.Parent().String()] {
			continue
		}
		seen[s.Parent().String()] = true
		for _, sib := range v.Children(s.Parent()) {
			v.insert(sib)
		}
	}
	v.fs = nil // the set is now authoritative; future queries stay virtual
	return nil
}

// FreshSibling returns a path q such that q.Parent() == p.Parent(), q is
// absent from the VFS, and q's basename is derived deterministically from
// p so repeated calls on an equal p yield the same first candidate: the
// stem is the first 32 hex characters of sha256(p.Stem()), and the suffix
// is the smallest non-negative integer making q absent. p's extension is
// preserved.
func (v *VirtualFileSystem) FreshSibling(p model.Path) model.Path {
	digest := sha256.Sum256([]byte(p.Stem()))
	stem := hex.EncodeToString(digest[:])[:32]

	for suffix := 0; ; suffix++ {
		candidate := p.WithStem(fmt.Sprintf("%s-%d", stem, suffix))
		if !v.Exists(candidate) {
			return candidate
		}
	}
}

// ApplyRename moves src to dst within the VFS, propagating the rename to
// every descendant of src. Preconditions: src is present, dst is absent,
// and src/dst share a parent. Violating a precondition is a planner bug,
// reported as an error rather than a panic so tests can assert on it.
func (v *VirtualFileSystem) ApplyRename(src, dst model.Path) error {
	if !v.IsPure() {
		return fmt.Errorf("apply_rename requires a closed-over (materialized) VFS")
	}
	if !v.pure[src.String()] {
		return fmt.Errorf("apply_rename: source %s is not in the virtual filesystem", src)
	}
	if v.pure[dst.String()] {
		return fmt.Errorf("apply_rename: target %s already exists in the virtual filesystem", dst)
	}
	if !src.Parent().Equal(dst.Parent()) {
		return fmt.Errorf("apply_rename: %s and %s are not siblings", src, dst)
	}

	var descendants []model.Path
	for key := range v.pure {
		candidate := model.NewPath(key)
		if candidate.Equal(src) || candidate.HasPrefix(src) {
			descendants = append(descendants, candidate)
		}
	}

	for _, candidate := range descendants {
		v.remove(candidate)
		var replacement model.Path
		if candidate.Equal(src) {
			replacement = dst
		} else {
			replacement = dst.Join(candidate.RelativeTo(src))
		}
		v.insert(replacement)
	}
	return nil
}

// Paths returns every path currently in the VFS, sorted, for diagnostics
// and property tests.
func (v *VirtualFileSystem) Paths() []model.Path {
	out := make([]model.Path, 0, len(v.pure))
	for key := range v.pure {
		out = append(out, model.NewPath(key))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
