package utils

import "strings"

// ParseListingName extracts (surname, given name) from a directory line of the
// form "Last, First ...". Any tab-separated fields after the name are ignored,
// as are a second adult after " & " and a trailing " (nickname)". Lines
// without ", " yield empty strings.
func ParseListingName(line string) (last, first string) {
	name, _, _ := strings.Cut(line, "\t")
	parts := strings.Split(name, ", ")
	if len(parts) < 2 {
		return "", ""
	}

	last = parts[0]
	first = parts[1]
	if strings.Contains(first, "&") {
		first, _, _ = strings.Cut(first, " & ")
	}
	first, _, _ = strings.Cut(first, " (")
	return last, first
}
