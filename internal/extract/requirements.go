package extract

import (
	"github.com/jiayuchou/prdgen/internal/classify"
	"github.com/jiayuchou/prdgen/internal/model"
	"github.com/jiayuchou/prdgen/internal/rules"
)

const (
	// minRequirementRunes filters noise captures; a requirement match must
	// trim to more runes than this.
	minRequirementRunes = 5
	// maxTitleRunes caps requirement titles before the ellipsis marker.
	maxTitleRunes = 50
)

// RequirementExtractor turns transcript text into classified requirement
// items, one category at a time.
type RequirementExtractor struct {
	lib        *rules.Library
	classifier *classify.Classifier
}

// NewRequirementExtractor creates a requirement extractor over the given
// library and classifier.
func NewRequirementExtractor(lib *rules.Library, classifier *classify.Classifier) *RequirementExtractor {
	return &RequirementExtractor{lib: lib, classifier: classifier}
}

// Extract returns the requirements found in text, grouped by category. Each
// slice is in extraction order: rule order, then match occurrence order.
// Repeated text across rules stays as distinct items with distinct ids;
// requirements are never deduplicated. A fresh id allocator is built per
// call, so concurrent Extract calls on different inputs do not interfere.
func (e *RequirementExtractor) Extract(text string) model.Requirements {
	alloc := NewAllocator()
	return model.Requirements{
		Functional:    e.extractCategory(text, model.CategoryFunctional, alloc),
		NonFunctional: e.extractCategory(text, model.CategoryNonFunctional, alloc),
		Technical:     e.extractCategory(text, model.CategoryTechnical, alloc),
	}
}

func (e *RequirementExtractor) extractCategory(text string, category model.Category, alloc *Allocator) []model.RequirementItem {
	matches := Fields(text, e.lib.ForCategory(category), minRequirementRunes)

	items := make([]model.RequirementItem, 0, len(matches))
	for _, match := range matches {
		items = append(items, model.RequirementItem{
			ID:          alloc.Next(category),
			Title:       truncateTitle(match, maxTitleRunes),
			Description: match,
			Priority:    e.classifier.Classify(match),
			Category:    category,
			Source:      model.SourceConversation,
		})
	}
	return items
}

// truncateTitle cuts s to at most max runes, marking the cut with an
// ellipsis. The returned title is always a prefix of s plus the marker.
func truncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
