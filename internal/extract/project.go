package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jiayuchou/prdgen/internal/model"
	"github.com/jiayuchou/prdgen/internal/rules"
)

const (
	// overviewSentences is how many leading fragments are considered.
	overviewSentences = 5
	// overviewKept is how many qualifying fragments make the overview.
	overviewKept = 3
	// overviewMinRunes is the qualifying length for a fragment, exclusive.
	overviewMinRunes = 10
)

// sentenceDelims splits transcripts into sentence fragments. Both half-width
// and full-width terminators count; empty fragments between consecutive
// terminators are kept so "the first five fragments" means the same thing
// regardless of punctuation style.
var sentenceDelims = regexp.MustCompile(`[。！？.!?\n]`)

// ProjectExtractor derives project metadata from a transcript.
type ProjectExtractor struct {
	lib *rules.Library
}

// NewProjectExtractor creates a project extractor over the given library.
func NewProjectExtractor(lib *rules.Library) *ProjectExtractor {
	return &ProjectExtractor{lib: lib}
}

// Extract returns the project metadata found in text. It never fails: a
// transcript with no recognizable patterns yields the name placeholder, an
// empty overview, and empty objective and user sets.
func (e *ProjectExtractor) Extract(text string) model.ProjectInfo {
	return model.ProjectInfo{
		Name:        e.extractName(text),
		Overview:    extractOverview(text),
		Objectives:  Unique(Fields(text, e.lib.Objectives(), 0)),
		TargetUsers: Unique(Fields(text, e.lib.Users(), 0)),
	}
}

// extractName returns the first trimmed capture of the first name rule that
// matches at all, or the placeholder when none do.
func (e *ProjectExtractor) extractName(text string) string {
	for _, rule := range e.lib.Names().Rules() {
		if capture, ok := rule.FindFirst(text); ok {
			return strings.TrimSpace(capture)
		}
	}
	return model.DefaultProjectName
}

// extractOverview builds a short summary from the opening of the transcript:
// of the first five sentence fragments, keep those longer than ten runes and
// join up to three of them with a full-width period.
func extractOverview(text string) string {
	fragments := sentenceDelims.Split(text, -1)
	if len(fragments) > overviewSentences {
		fragments = fragments[:overviewSentences]
	}

	var kept []string
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if utf8.RuneCountInString(fragment) > overviewMinRunes {
			kept = append(kept, fragment)
		}
		if len(kept) == overviewKept {
			break
		}
	}

	return strings.Join(kept, "。")
}
