// Package fuzzy suggests a catalog title for a mistyped query.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/cineserve/internal/utils"
)

// scoring
const (
	firstCharMatchBonus            = 15
	adjacentMatchBonus             = 10
	separatorMatchBonus            = 12
	camelCaseMatchBonus            = 12
	unmatchedLeadingCharPenalty    = -3
	maxUnmatchedLeadingCharPenalty = -9
	maxPopularityBonus             = 30
	lengthDiffPenalty              = 2
)

// Matcher corrects queries against a fixed set of titles.
type Matcher struct {
	titles  []string
	lowered []string
	weights map[string]int
}

// Match is a scored candidate title.
type Match struct {
	Title          string
	Score          int
	MatchedIndexes []int
}

// NewMatcher builds a matcher over titles, each weighted by popularity.
func NewMatcher(titles map[string]int) *Matcher {
	list := make([]string, 0, len(titles))
	for title := range titles {
		if title != "" {
			list = append(list, title)
		}
	}
	slices.Sort(list)

	lowered := make([]string, len(list))
	for i, title := range list {
		lowered[i] = strings.ToLower(title)
	}
	return &Matcher{titles: list, lowered: lowered, weights: titles}
}

// Len returns the number of titles the matcher knows.
func (m *Matcher) Len() int {
	return len(m.titles)
}

// SuggestCorrection returns the most likely title for input and whether it
// differs from input. Inputs under two runes and exact case-insensitive title
// matches come back unchanged.
func (m *Matcher) SuggestCorrection(input string) (string, bool) {
	query := strings.TrimSpace(input)
	if utf8.RuneCountInString(query) < 2 {
		return input, false
	}

	lower := strings.ToLower(query)
	if slices.Contains(m.lowered, lower) {
		return input, false
	}

	matches := m.FindMatches(lower)
	if len(matches) == 0 {
		return input, false
	}
	return matches[0].Title, true
}

// FindMatches returns every title pattern matches as a subsequence, best
// first. The first character must match.
func (m *Matcher) FindMatches(pattern string) []Match {
	if pattern == "" {
		return nil
	}
	patternRunes := []rune(strings.ToLower(pattern))
	patternLen := len(patternRunes)

	var matches []Match
	for i, candidate := range m.lowered {
		first, _ := utf8.DecodeRuneInString(candidate)
		if !utils.EqualFold(first, patternRunes[0]) {
			continue
		}

		title := []rune(m.titles[i])
		match := Match{Title: m.titles[i], MatchedIndexes: make([]int, 0, patternLen)}
		if !score(title, patternRunes, &match) {
			continue
		}

		titleLen := len(title)
		match.Score += len(match.MatchedIndexes) - titleLen
		if w := m.weights[match.Title]; w > 0 {
			match.Score += min(w/10, maxPopularityBonus)
		}
		match.Score -= abs(titleLen-patternLen) * lengthDiffPenalty
		matches = append(matches, match)
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matches
}

// score walks the title once, taking each pattern rune at its first
// occurrence after the previous one. It reports whether every pattern rune
// was found.
func score(title, pattern []rune, match *Match) bool {
	var last rune
	adjacent := 0
	p := 0

	for i, curr := range title {
		if p == len(pattern) {
			break
		}
		if !utils.EqualFold(curr, pattern[p]) {
			last = curr
			continue
		}

		s := 0
		switch {
		case i == 0:
			s += firstCharMatchBonus
		case utils.IsSeparator(last):
			s += separatorMatchBonus
		case unicode.IsLower(last) && unicode.IsUpper(curr):
			s += camelCaseMatchBonus
		}

		if n := len(match.MatchedIndexes); n > 0 && match.MatchedIndexes[n-1] == i-1 {
			adjacent = adjacent*2 + adjacentMatchBonus
			s += adjacent
		} else {
			adjacent = 0
		}

		if len(match.MatchedIndexes) == 0 {
			s += max(i*unmatchedLeadingCharPenalty, maxUnmatchedLeadingCharPenalty)
		}

		match.Score += s
		match.MatchedIndexes = append(match.MatchedIndexes, i)
		last = curr
		p++
	}
	return p == len(pattern)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
