package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poponealex/file-renamer/internal/model"
	"github.com/poponealex/file-renamer/internal/vfs"
)

func arcStrings(arcs []model.Arc) []string {
	out := make([]string, len(arcs))
	for i, a := range arcs {
		out[i] = a.String()
	}
	return out
}

func TestSecureClausesSimple(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "c"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	assert.Equal(t, []string{"/d/a -> /d/c"}, arcStrings(arcs))
}

func TestSecureClausesChain(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "b"},
		{Inode: 2, Source: model.NewPath("/d/b"), NewName: "c"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	assert.Equal(t, []string{"/d/b -> /d/c", "/d/a -> /d/b"}, arcStrings(arcs))

	for _, a := range arcs {
		require.NoError(t, a.Validate())
	}
}

func TestSecureClausesSwap(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "b"},
		{Inode: 2, Source: model.NewPath("/d/b"), NewName: "a"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	require.Len(t, arcs, 3)

	assert.Equal(t, "/d/a", arcs[0].Source.String())
	assert.Equal(t, "/d/a", arcs[0].Target.Parent().String())
	temp := arcs[0].Target

	assert.Equal(t, "/d/b", arcs[1].Source.String())
	assert.Equal(t, "/d/a", arcs[1].Target.String())

	assert.Equal(t, temp, arcs[2].Source)
	assert.Equal(t, "/d/b", arcs[2].Target.String())
}

func TestSecureClausesCycleThree(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"), model.NewPath("/d/c"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "b"},
		{Inode: 2, Source: model.NewPath("/d/b"), NewName: "c"},
		{Inode: 3, Source: model.NewPath("/d/c"), NewName: "a"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	require.Len(t, arcs, 4, "a 3-cycle resolves into one temp move plus three relocations")

	assert.Equal(t, "/d/a", arcs[0].Source.String())
	temp := arcs[0].Target
	assert.Equal(t, "/d/c", arcs[1].Source.String())
	assert.Equal(t, "/d/a", arcs[1].Target.String())
	assert.Equal(t, "/d/b", arcs[2].Source.String())
	assert.Equal(t, "/d/c", arcs[2].Target.String())
	assert.Equal(t, temp, arcs[3].Source)
	assert.Equal(t, "/d/b", arcs[3].Target.String())
}

func TestSecureClausesDirectoryClauseWithDescendant(t *testing.T) {
	v := vfs.NewPure(
		model.NewPath("/d/dir"),
		model.NewPath("/d/dir/x"),
	)
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/dir"), NewName: "dir2"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	assert.Equal(t, []string{"/d/dir -> /d/dir2"}, arcStrings(arcs))
	assert.True(t, v.Exists(model.NewPath("/d/dir2/x")))
	assert.False(t, v.Exists(model.NewPath("/d/dir/x")))
}

func TestSecureClausesRenamesDirectoryThenDescendant(t *testing.T) {
	v := vfs.NewPure(
		model.NewPath("/d/dir"),
		model.NewPath("/d/dir/x"),
	)
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/dir"), NewName: "dir2"},
		{Inode: 2, Source: model.NewPath("/d/dir/x"), NewName: "y"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	require.Len(t, arcs, 2)
	assert.Equal(t, "/d/dir -> /d/dir2", arcs[0].String(), "the directory rename applies first")
	assert.Equal(t, "/d/dir2/x -> /d/dir2/y", arcs[1].String(), "the descendant's source is translated onto the renamed directory")

	for _, a := range arcs {
		require.NoError(t, a.Validate())
	}
}

func TestSecureClausesRenamesDirectoryThenDescendantRegardlessOfClauseOrder(t *testing.T) {
	v := vfs.NewPure(
		model.NewPath("/d/dir"),
		model.NewPath("/d/dir/x"),
	)
	clauses := []model.Clause{
		{Inode: 2, Source: model.NewPath("/d/dir/x"), NewName: "y"},
		{Inode: 1, Source: model.NewPath("/d/dir"), NewName: "dir2"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	require.Len(t, arcs, 2)
	assert.Equal(t, "/d/dir -> /d/dir2", arcs[0].String())
	assert.Equal(t, "/d/dir2/x -> /d/dir2/y", arcs[1].String())
}

func TestSecureClausesRejectsOccupiedTarget(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "b"},
	}

	_, err := SecureClauses(v, clauses)
	require.Error(t, err)
	var collision *model.TargetCollisionError
	assert.ErrorAs(t, err, &collision)
}

func TestSecureClausesRejectsDuplicateTarget(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "c"},
		{Inode: 2, Source: model.NewPath("/d/b"), NewName: "c"},
	}

	_, err := SecureClauses(v, clauses)
	require.Error(t, err)
	var dup *model.DuplicateTargetError
	assert.ErrorAs(t, err, &dup)
}

func TestSecureClausesSourceMissing(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/missing"), NewName: "c"},
	}

	_, err := SecureClauses(v, clauses)
	require.Error(t, err)
	var missing *model.SourceMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestSecureClausesRejectsInvalidClause(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"))
	clauses := []model.Clause{
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "a"},
	}

	_, err := SecureClauses(v, clauses)
	assert.Error(t, err)
}

func TestSecureClausesOrdersComponentsByFirstAppearance(t *testing.T) {
	v := vfs.NewPure(model.NewPath("/d/a"), model.NewPath("/d/b"), model.NewPath("/d/c"), model.NewPath("/d/e"))
	clauses := []model.Clause{
		{Inode: 3, Source: model.NewPath("/d/c"), NewName: "z"},
		{Inode: 1, Source: model.NewPath("/d/a"), NewName: "b2"},
		{Inode: 2, Source: model.NewPath("/d/b"), NewName: "c2"},
	}

	arcs, err := SecureClauses(v, clauses)
	require.NoError(t, err)
	require.Len(t, arcs, 3)
	assert.Equal(t, "/d/c", arcs[0].Source.String(), "the independent clause on c, seen first, plans first")
	assert.Equal(t, "/d/a", arcs[1].Source.String())
	assert.Equal(t, "/d/b", arcs[2].Source.String())
}
