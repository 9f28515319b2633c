package tfs

import "strings"

// workspaceHeaderLines is the number of lines the "workspaces" command prints
// before the first row: collection, column titles and the dashed separator.
const workspaceHeaderLines = 3

// ParseWorkspaceRow splits one row of the workspaces table. Everything after
// the computer column is the free-text comment, rejoined with single spaces.
func ParseWorkspaceRow(row string) (WorkspaceInfo, error) {
	fields := strings.Fields(row)
	if len(fields) < 3 {
		return WorkspaceInfo{}, formatErrorf("workspace row", "expected at least 3 columns, got %d in %q", len(fields), row)
	}
	return WorkspaceInfo{
		Name:     fields[0],
		Owner:    fields[1],
		Computer: fields[2],
		Comment:  strings.Join(fields[3:], " "),
	}, nil
}

// ParseWorkspaceListing reads the first row following the header block.
func ParseWorkspaceListing(lines []string) (WorkspaceInfo, error) {
	if len(lines) <= workspaceHeaderLines {
		return WorkspaceInfo{}, formatErrorf("workspace listing", "expected a row after %d header lines, got %d lines", workspaceHeaderLines, len(lines))
	}
	return ParseWorkspaceRow(lines[workspaceHeaderLines])
}
