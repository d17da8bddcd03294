package extract

import "strings"

// Unique collapses repeated values into their distinct forms. Equality is
// exact string comparison after trimming; there is no fuzzy or semantic
// matching. The result keeps first-insertion order for deterministic
// rendering, but callers must treat it as an unordered set.
func Unique(items []string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, item := range items {
		item = strings.TrimSpace(item)
		if !seen[item] {
			seen[item] = true
			unique = append(unique, item)
		}
	}

	return unique
}
