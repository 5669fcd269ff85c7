// Package textsync implements the editable-listing round-trip: rendering
// an inode-to-path mapping as text for the user to edit in their editor,
// and parsing the edited text back into renaming clauses, plus resolving a
// path selection down to the inode-to-path mapping the rest of the tool
// works from.
package textsync

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/poponealex/file-renamer/internal/model"
)

// StaleInodesError reports that one or more lines in the edited text
// reference an inode no longer in the original mapping — typically because
// a line's leading column was corrupted by hand. All offending inodes are
// collected before this is raised, mirroring how missing source paths are
// collected in ResolveInodes below rather than failing on the first one.
type StaleInodesError struct {
	Inodes []model.Inode
}

func (e *StaleInodesError) Error() string {
	parts := make([]string, len(e.Inodes))
	for i, inode := range e.Inodes {
		parts[i] = inode.String()
	}
	return fmt.Sprintf("stale inode(s) in edited text: %s", strings.Join(parts, ", "))
}

// MissingPathsError reports that one or more selected paths do not exist.
// Every missing path is collected before this is raised, so the caller can
// show the user the whole problem at once instead of one file at a time.
type MissingPathsError struct {
	Paths []model.Path
}

func (e *MissingPathsError) Error() string {
	parts := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		parts[i] = p.String()
	}
	return fmt.Sprintf("missing path(s): %s", strings.Join(parts, ", "))
}

// ResolveInodes stats every path and returns the inode-to-path mapping the
// rest of the tool operates on. It collects every missing path before
// failing, rather than aborting on the first.
func ResolveInodes(paths []model.Path) (map[model.Inode]model.Path, error) {
	result := make(map[model.Inode]model.Path, len(paths))
	var missing []model.Path

	for _, p := range paths {
		info, err := os.Stat(p.String())
		if err != nil {
			missing = append(missing, p)
			continue
		}
		inode, ok := model.InodeOf(info)
		if !ok {
			missing = append(missing, p)
			continue
		}
		result[inode] = p
	}

	if len(missing) > 0 {
		return nil, &MissingPathsError{Paths: missing}
	}
	return result, nil
}

// Render formats the inode-to-path mapping as tab-separated lines, sorted
// by path for a stable, diff-friendly listing: "<inode>\t<path>\n".
func Render(inodesPaths map[model.Inode]model.Path) string {
	type row struct {
		inode model.Inode
		path  model.Path
	}
	rows := make([]row, 0, len(inodesPaths))
	for inode, path := range inodesPaths {
		rows = append(rows, row{inode, path})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].path.String() < rows[j].path.String() })

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.inode.String())
		b.WriteByte('\t')
		b.WriteString(r.path.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse reads the edited text back against the original inode-to-path
// mapping and produces one Clause per line whose basename changed. Lines
// whose basename is unchanged are silently skipped — the user just didn't
// touch that entry. A line removed entirely from the text is likewise not
// a rename request. Blank lines are ignored.
func Parse(editedText string, original map[model.Inode]model.Path) ([]model.Clause, error) {
	var clauses []model.Clause
	var stale []model.Inode

	for _, line := range strings.Split(editedText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("textsync: malformed line %q: expected <inode><TAB><path>", line)
		}

		n, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("textsync: malformed inode in line %q: %w", line, err)
		}
		inode := model.Inode(n)

		originalPath, ok := original[inode]
		if !ok {
			stale = append(stale, inode)
			continue
		}

		newPath := model.NewPath(fields[1])
		if newPath.Base() == originalPath.Base() {
			continue
		}

		clauses = append(clauses, model.Clause{
			Inode:   inode,
			Source:  originalPath,
			NewName: newPath.Base(),
		})
	}

	if len(stale) > 0 {
		return nil, &StaleInodesError{Inodes: stale}
	}
	return clauses, nil
}
