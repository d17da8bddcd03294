// Package rules holds the hand-curated pattern library that drives
// extraction. Rules compile under Go's RE2 engine, so matching stays
// linear in input length regardless of how hostile the transcript is.
package rules

import (
	"fmt"
	"regexp"

	"github.com/jiayuchou/prdgen/internal/model"
)

// Kind tags which extracted field a rule feeds.
type Kind string

const (
	KindFunctional    Kind = "functional"
	KindNonFunctional Kind = "non_functional"
	KindTechnical     Kind = "technical"
	KindObjective     Kind = "objective"
	KindUser          Kind = "user"
	KindName          Kind = "name"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindFunctional, KindNonFunctional, KindTechnical, KindObjective, KindUser, KindName:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown rule kind %q", s)
}

// KindForCategory returns the rule kind feeding a requirement category.
func KindForCategory(c model.Category) Kind {
	switch c {
	case model.CategoryFunctional:
		return KindFunctional
	case model.CategoryNonFunctional:
		return KindNonFunctional
	case model.CategoryTechnical:
		return KindTechnical
	}
	return ""
}

// Rule is a single pattern-plus-capture definition used to locate candidate
// requirement or metadata text. The language hint is informational only.
type Rule struct {
	kind Kind
	lang string
	expr *regexp.Regexp
}

// New compiles expr into a Rule. The expression must compile and contain
// exactly one capture group holding the extracted phrase.
func New(kind Kind, lang, expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	if n := re.NumSubexp(); n != 1 {
		return Rule{}, fmt.Errorf("pattern %q must have exactly one capture group, has %d", expr, n)
	}
	return Rule{kind: kind, lang: lang, expr: re}, nil
}

// mustRule backs the built-in library; a pattern that fails to compile there
// is a programmer error.
func mustRule(kind Kind, lang, expr string) Rule {
	r, err := New(kind, lang, expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the field the rule feeds.
func (r Rule) Kind() Kind { return r.kind }

// Lang returns the language hint.
func (r Rule) Lang() string { return r.lang }

// Pattern returns the source expression, for diagnostics.
func (r Rule) Pattern() string { return r.expr.String() }

// FindAll returns every non-overlapping capture in text, in occurrence
// order. Captures are returned untrimmed.
func (r Rule) FindAll(text string) []string {
	ms := r.expr.FindAllStringSubmatch(text, -1)
	if ms == nil {
		return nil
	}
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m[1])
	}
	return out
}

// FindFirst returns the first capture in text and whether the rule matched
// at all.
func (r Rule) FindFirst(text string) (string, bool) {
	m := r.expr.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Set is an ordered collection of rules applied in listed sequence. Sets are
// built once and treated as immutable afterwards.
type Set struct {
	rules []Rule
}

// NewSet builds a Set preserving rule order.
func NewSet(rs ...Rule) Set {
	out := make([]Rule, len(rs))
	copy(out, rs)
	return Set{rules: out}
}

// Rules exposes the ordered rules for iteration. Callers must not mutate the
// returned slice.
func (s Set) Rules() []Rule { return s.rules }

// Len returns the number of rules in the set.
func (s Set) Len() int { return len(s.rules) }

func (s Set) with(r Rule) Set {
	out := make([]Rule, 0, len(s.rules)+1)
	out = append(out, s.rules...)
	out = append(out, r)
	return Set{rules: out}
}
