package textsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poponealex/file-renamer/internal/model"
)

func TestRenderIsSortedByPath(t *testing.T) {
	inodesPaths := map[model.Inode]model.Path{
		3: model.NewPath("/d/c"),
		1: model.NewPath("/d/a"),
		2: model.NewPath("/d/b"),
	}
	text := Render(inodesPaths)
	assert.Equal(t, "1\t/d/a\n2\t/d/b\n3\t/d/c\n", text)
}

func TestParseProducesClauseOnlyForChangedBasenames(t *testing.T) {
	original := map[model.Inode]model.Path{
		1: model.NewPath("/d/a"),
		2: model.NewPath("/d/b"),
	}
	edited := "1\t/d/a-renamed\n2\t/d/b\n"

	clauses, err := Parse(edited, original)
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, model.Inode(1), clauses[0].Inode)
	assert.Equal(t, "a-renamed", clauses[0].NewName)
}

func TestParseIgnoresRemovedLines(t *testing.T) {
	original := map[model.Inode]model.Path{
		1: model.NewPath("/d/a"),
		2: model.NewPath("/d/b"),
	}
	edited := "1\t/d/a\n" // line for inode 2 dropped entirely

	clauses, err := Parse(edited, original)
	require.NoError(t, err)
	assert.Empty(t, clauses)
}

func TestParseReportsAllStaleInodes(t *testing.T) {
	original := map[model.Inode]model.Path{
		1: model.NewPath("/d/a"),
	}
	edited := "1\t/d/a\n404\t/d/ghost\n405\t/d/ghost2\n"

	_, err := Parse(edited, original)
	require.Error(t, err)
	var stale *StaleInodesError
	require.ErrorAs(t, err, &stale)
	assert.ElementsMatch(t, []model.Inode{404, 405}, stale.Inodes)
}

func TestResolveInodesReportsAllMissingPaths(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))

	paths := []model.Path{
		model.NewPath(present),
		model.NewPath(filepath.Join(dir, "missing1")),
		model.NewPath(filepath.Join(dir, "missing2")),
	}

	_, err := ResolveInodes(paths)
	require.Error(t, err)
	var missingErr *MissingPathsError
	require.ErrorAs(t, err, &missingErr)
	assert.Len(t, missingErr.Paths, 2)
}

func TestResolveInodesSucceeds(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("y"), 0o644))

	got, err := ResolveInodes([]model.Path{model.NewPath(a), model.NewPath(b)})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
