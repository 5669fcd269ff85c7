// Package model defines the value types shared by the planner, the virtual
// filesystem, and the renamer: Inode, Path, Clause, and Arc.
package model

import (
	"path/filepath"
	"strings"
)

// Path is a filesystem path rooted at an absolute anchor. Two Paths are
// equal iff their cleaned string forms are equal; case-sensitivity follows
// the host filesystem's path/filepath behavior.
type Path struct {
	value string
}

// NewPath cleans and wraps a path string.
func NewPath(s string) Path {
	return Path{value: filepath.Clean(s)}
}

// String returns the path's cleaned string form.
func (p Path) String() string {
	return p.value
}

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool {
	return p.value == ""
}

// Parent returns the path's containing directory.
func (p Path) Parent() Path {
	return NewPath(filepath.Dir(p.value))
}

// Base returns the final path segment, including any extension.
func (p Path) Base() string {
	return filepath.Base(p.value)
}

// Ext returns the final segment's extension, including the leading dot, or
// "" if there is none.
func (p Path) Ext() string {
	return filepath.Ext(p.value)
}

// Stem returns the final segment with its extension removed.
func (p Path) Stem() string {
	base := p.Base()
	return strings.TrimSuffix(base, p.Ext())
}

// WithBase returns the sibling path obtained by replacing p's whole
// basename, extension included, with newBase. WithStem is the variant that
// keeps p's extension.
func (p Path) WithBase(newBase string) Path {
	return NewPath(filepath.Join(filepath.Dir(p.value), newBase))
}

// WithStem returns the sibling path obtained by replacing p's stem while
// keeping p's extension, mirroring pathlib's Path.with_stem.
func (p Path) WithStem(newStem string) Path {
	return p.WithBase(newStem + p.Ext())
}

// HasPrefix reports whether ancestor is a strict ancestor directory of p,
// i.e. p lies strictly under ancestor in the path hierarchy.
func (p Path) HasPrefix(ancestor Path) bool {
	prefix := ancestor.value + string(filepath.Separator)
	return strings.HasPrefix(p.value, prefix)
}

// RelativeTo returns the path segment of p below ancestor. The caller must
// ensure HasPrefix(ancestor) holds; otherwise the result is meaningless.
func (p Path) RelativeTo(ancestor Path) string {
	prefix := ancestor.value + string(filepath.Separator)
	return strings.TrimPrefix(p.value, prefix)
}

// Join appends a relative segment to p.
func (p Path) Join(rel string) Path {
	return NewPath(filepath.Join(p.value, rel))
}

// Equal reports whether p and other denote the same cleaned path.
func (p Path) Equal(other Path) bool {
	return p.value == other.value
}
