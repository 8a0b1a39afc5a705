package util

import "strings"

// CleanText collapses all whitespace runs (including NBSP) to single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// ContainsAnyCI reports whether s contains any of the needles, ignoring case.
func ContainsAnyCI(s string, needles []string) bool {
	ls := strings.ToLower(s)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(ls, n) {
			return true
		}
	}
	return false
}
