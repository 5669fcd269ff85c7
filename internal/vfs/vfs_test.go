package vfs

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poponealex/file-renamer/internal/model"
)

func TestCloseOverIdempotent(t *testing.T) {
	v := NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	sources := []model.Path{model.NewPath("/d/a")}

	require.NoError(t, v.CloseOver(sources))
	first := v.Paths()

	require.NoError(t, v.CloseOver(sources))
	second := v.Paths()

	assert.Equal(t, first, second, "calling close_over twice should be a no-op on an already-closed VFS")
}

func TestCloseOverSourceMissing(t *testing.T) {
	v := NewPure(model.NewPath("/d/a"))
	err := v.CloseOver([]model.Path{model.NewPath("/d/missing")})
	require.Error(t, err)
	var missing *model.SourceMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestConcreteCloseOverImportsSiblings(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/d/a", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/d/b", []byte("b"), 0o644))

	v := NewConcrete(fs)
	require.NoError(t, v.CloseOver([]model.Path{model.NewPath("/d/a")}))

	assert.True(t, v.Exists(model.NewPath("/d/b")), "closing over /d/a should import sibling /d/b")
	assert.True(t, v.IsPure(), "after close_over the VFS should operate on its materialized set")
}

func TestApplyRenameSimple(t *testing.T) {
	v := NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	require.NoError(t, v.ApplyRename(model.NewPath("/d/a"), model.NewPath("/d/c")))

	assert.False(t, v.Exists(model.NewPath("/d/a")))
	assert.True(t, v.Exists(model.NewPath("/d/c")))
	assert.True(t, v.Exists(model.NewPath("/d/b")))
}

func TestApplyRenamePropagatesToDescendants(t *testing.T) {
	v := NewPure(
		model.NewPath("/d/dir"),
		model.NewPath("/d/dir/x"),
		model.NewPath("/d/dir/y"),
	)

	require.NoError(t, v.ApplyRename(model.NewPath("/d/dir"), model.NewPath("/d/dir2")))

	for _, want := range []string{"/d/dir2", "/d/dir2/x", "/d/dir2/y"} {
		assert.True(t, v.Exists(model.NewPath(want)), "expected %s to exist after directory rename", want)
	}
	for _, gone := range []string{"/d/dir", "/d/dir/x", "/d/dir/y"} {
		assert.False(t, v.Exists(model.NewPath(gone)), "expected %s to be gone after directory rename", gone)
	}
}

func TestApplyRenameRejectsOccupiedTarget(t *testing.T) {
	v := NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	err := v.ApplyRename(model.NewPath("/d/a"), model.NewPath("/d/b"))
	assert.Error(t, err)
}

func TestApplyRenameRejectsCrossDirectory(t *testing.T) {
	v := NewPure(model.NewPath("/d/a"), model.NewPath("/other"))
	err := v.ApplyRename(model.NewPath("/d/a"), model.NewPath("/other/a"))
	assert.Error(t, err)
}

func TestFreshSiblingIsDeterministic(t *testing.T) {
	v := NewPure(model.NewPath("/d/a"))
	first := v.FreshSibling(model.NewPath("/d/a"))
	second := v.FreshSibling(model.NewPath("/d/a"))
	assert.Equal(t, first, second, "repeated calls on the same path should yield the same candidate")
	assert.Equal(t, "/d", first.Parent().String())
}

func TestFreshSiblingAvoidsCollisionAndPreservesExtension(t *testing.T) {
	v := NewPure(model.NewPath("/d/a.txt"))
	candidate := v.FreshSibling(model.NewPath("/d/a.txt"))
	require.False(t, v.Exists(candidate))
	assert.Equal(t, ".txt", candidate.Ext())

	// Occupying the first candidate forces the suffix to advance.
	v2 := NewPure(model.NewPath("/d/a.txt"), candidate)
	next := v2.FreshSibling(model.NewPath("/d/a.txt"))
	assert.NotEqual(t, candidate, next)
}

func TestChildrenSortedDeterministically(t *testing.T) {
	v := NewPure(model.NewPath("/d/c"), model.NewPath("/d/a"), model.NewPath("/d/b"))
	children := v.Children(model.NewPath("/d"))
	require.Len(t, children, 3)
	assert.Equal(t, "/d/a", children[0].String())
	assert.Equal(t, "/d/b", children[1].String())
	assert.Equal(t, "/d/c", children[2].String())
}
