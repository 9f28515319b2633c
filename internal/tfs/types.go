// Package tfs turns the text and XML output of the Team Foundation command-line
// client into typed records. It knows nothing about processes; callers hand it
// captured output lines and an exit code.
package tfs

import "time"

// EntryType distinguishes files from folders in a directory listing.
type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
)

// FileEntry is one item of a "dir" listing.
type FileEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// IsDir reports whether the entry is a folder.
func (e FileEntry) IsDir() bool {
	return e.Type == EntryDirectory
}

// Keys of ItemProperties.
const (
	PropLastModified = "last-mod"
	PropLength       = "length"
	PropContentType  = "content-type"
)

// ItemProperties holds the subset of "info" output we care about.
// A missing key means the property does not apply (folders have no size).
type ItemProperties map[string]string

// WorkspaceInfo is one row of the "workspaces" table.
type WorkspaceInfo struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Computer string `json:"computer"`
	Comment  string `json:"comment,omitempty"`
}

// Changeset is a single entry of the "history" output, newest first.
type Changeset struct {
	Version    int          `json:"version"`
	Author     string       `json:"author"`
	Date       time.Time    `json:"date"`
	Comment    string       `json:"comment,omitempty"`
	HasComment bool         `json:"-"`
	Changes    []ChangeItem `json:"changes"`
}

// ChangeItem is an item touched by a changeset. ChangeType is passed through
// as reported by the tool, e.g. "delete, source rename".
type ChangeItem struct {
	ChangeType string `json:"change_type"`
	ServerItem string `json:"server_item"`
}
