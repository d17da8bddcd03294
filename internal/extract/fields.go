package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/jiayuchou/prdgen/internal/rules"
)

// Fields applies an ordered rule set to text and returns the trimmed
// captures that survive the length filter. Every rule in the set runs
// against the full text; results are concatenated in rule order, then in
// occurrence order within each rule. A capture is kept when its trimmed
// rune count exceeds minRunes, so minRunes 0 keeps everything non-empty.
// Duplicates are preserved; deduplication is the caller's concern.
func Fields(text string, set rules.Set, minRunes int) []string {
	var out []string
	for _, rule := range set.Rules() {
		for _, capture := range rule.FindAll(text) {
			capture = strings.TrimSpace(capture)
			if utf8.RuneCountInString(capture) > minRunes {
				out = append(out, capture)
			}
		}
	}
	return out
}
