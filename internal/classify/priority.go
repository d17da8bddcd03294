package classify

import (
	"strings"

	"github.com/jiayuchou/prdgen/internal/model"
)

// Classifier maps matched requirement text to a priority level by keyword
// precedence: any high keyword wins, then any medium keyword, else Low.
// Matching is case-folded substring search, so "MUST" and "must" classify
// alike. The classifier holds no mutable state and is safe for concurrent
// use.
type Classifier struct {
	high   []string
	medium []string
}

// highKeywords and mediumKeywords cover both Chinese and English urgency
// markers. Order only fixes which keyword a diagnostic would report; the
// outcome is the same for any match in the list.
var (
	highKeywords   = []string{"必须", "关键", "重要", "核心", "critical", "must", "essential", "key"}
	mediumKeywords = []string{"应该", "需要", "should", "need", "important"}
)

// NewClassifier returns a classifier using the built-in keyword lists.
func NewClassifier() *Classifier {
	return NewClassifierWithExtras(nil, nil)
}

// NewClassifierWithExtras appends user-supplied keywords after the built-in
// lists. Extra keywords are lower-cased on the way in so they compare the
// same way the built-ins do.
func NewClassifierWithExtras(extraHigh, extraMedium []string) *Classifier {
	return &Classifier{
		high:   appendFolded(highKeywords, extraHigh),
		medium: appendFolded(mediumKeywords, extraMedium),
	}
}

// Classify returns the priority for a single matched requirement text.
func (c *Classifier) Classify(text string) model.Priority {
	lower := strings.ToLower(text)

	for _, keyword := range c.high {
		if strings.Contains(lower, keyword) {
			return model.PriorityHigh
		}
	}

	for _, keyword := range c.medium {
		if strings.Contains(lower, keyword) {
			return model.PriorityMedium
		}
	}

	return model.PriorityLow
}

func appendFolded(base, extras []string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	for _, e := range extras {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
