package utils

import (
	"strings"
)

// TitleFilter drops titles that were already seen, compared case-insensitively.
// It is not safe for concurrent use.
type TitleFilter struct {
	seen map[string]struct{}
}

// NewTitleFilter creates an empty filter sized for n titles.
func NewTitleFilter(n int) *TitleFilter {
	return &TitleFilter{seen: make(map[string]struct{}, n)}
}

// ShouldInclude reports whether title is new and records it.
// Returns false for every later title with the same lower-cased form.
func (f *TitleFilter) ShouldInclude(title string) bool {
	key := strings.ToLower(title)
	if _, ok := f.seen[key]; ok {
		return false
	}
	f.seen[key] = struct{}{}
	return true
}
