package tfs

import "strings"

// Line prefixes of "info" output that map to ItemProperties keys.
var infoPrefixes = []struct {
	prefix string
	key    string
}{
	{"Last modified:", PropLastModified},
	{"Size:", PropLength},
	{"File type:", PropContentType},
}

// ParseItemProperties extracts the known properties from "info" output.
// Both the local and server sections are scanned; a later line wins.
func ParseItemProperties(lines []string) ItemProperties {
	props := ItemProperties{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, p := range infoPrefixes {
			if strings.HasPrefix(trimmed, p.prefix) {
				props[p.key] = infoValue(trimmed)
				break
			}
		}
	}
	return props
}

// infoValue returns the text after the first ": ". Keys without a value
// ("Lock owner:") yield an empty string.
func infoValue(line string) string {
	idx := strings.Index(line, ": ")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}
