package extract

import (
	"fmt"

	"github.com/jiayuchou/prdgen/internal/model"
)

// Allocator hands out sequential requirement ids. Counters are scoped to a
// category and to the allocator's lifetime: a fresh allocator is built for
// each extraction run, so ids restart at 1 every run and never collide
// within one. Not safe for concurrent use; extraction is single-threaded.
type Allocator struct {
	next map[model.Category]int
}

// NewAllocator creates an allocator with all category counters at 1.
func NewAllocator() *Allocator {
	return &Allocator{next: make(map[model.Category]int)}
}

// Next returns the next id for the category: the upper-cased first letter of
// the category name followed by the counter zero-padded to three digits,
// e.g. F001, N014, T003.
func (a *Allocator) Next(category model.Category) string {
	a.next[category]++
	return fmt.Sprintf("%s%03d", category.Letter(), a.next[category])
}
