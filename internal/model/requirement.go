package model

import "strings"

// Priority is the coarse urgency label inferred from keyword presence in the
// matched text, not from stakeholder input.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Category is the fixed classification axis for extracted requirements.
type Category string

const (
	CategoryFunctional    Category = "Functional"
	CategoryNonFunctional Category = "Non-functional"
	CategoryTechnical     Category = "Technical"
)

// Letter returns the requirement id prefix: the upper-cased first letter of
// the category name ("F", "N", "T").
func (c Category) Letter() string {
	r := []rune(string(c))
	if len(r) == 0 {
		return "?"
	}
	return strings.ToUpper(string(r[0]))
}

// SourceConversation marks items derived from automated conversation
// analysis, as opposed to manual entry.
const SourceConversation = "对话分析"

// RequirementItem is a single classified requirement statement extracted
// from a transcript. Title is always a prefix of Description, truncated when
// the description runs long.
type RequirementItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
	Source      string   `json:"source"`
}
