package tfs

import "strings"

const (
	// rootMarker starts a folder header line such as "$/project/src:".
	rootMarker = "$/"
	// dirMarker prefixes folder entries inside a listing.
	dirMarker = "$"
)

// ParseDirectoryListing converts "dir" output into entries. A blank line ends
// the listing, so the trailing "N item(s)." summary is never read. Output of a
// single line is the tool's way of saying the folder is empty.
func ParseDirectoryListing(lines []string) []FileEntry {
	entries := []FileEntry{}
	if len(lines) == 1 {
		return entries
	}

	currentPath := ""
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			break
		}

		if strings.HasPrefix(line, rootMarker) {
			currentPath = strings.TrimSuffix(strings.TrimRight(line, " \t"), ":")
			continue
		}

		entry := FileEntry{Name: line, Type: EntryFile}
		if strings.HasPrefix(line, dirMarker) {
			entry.Type = EntryDirectory
			entry.Name = strings.TrimPrefix(line, dirMarker)
		}
		entry.Path = joinServerPath(currentPath, entry.Name)
		entries = append(entries, entry)
	}

	return entries
}

// joinServerPath joins a folder and a child name with exactly one separator.
func joinServerPath(dir, name string) string {
	return strings.TrimSuffix(dir, "/") + "/" + strings.TrimPrefix(name, "/")
}
