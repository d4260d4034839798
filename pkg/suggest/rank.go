package suggest

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/bastiangx/cineserve/internal/utils"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collate.Collator keeps internal buffers and is not safe for concurrent use.
var collatorPool = sync.Pool{
	New: func() any {
		return collate.New(language.English, collate.IgnoreCase)
	},
}

type ranked struct {
	s      Suggestion
	lower  string
	prefix bool
	pos    int
}

// Rank filters, deduplicates, orders and truncates items for query.
// Items are expected in sequence order (movies before shows); that order
// decides which duplicate survives and breaks exact ties.
// The returned slice is never nil, and is empty when limit <= 0.
func Rank(items []Suggestion, query string, limit int) []Suggestion {
	if limit <= 0 {
		return []Suggestion{}
	}

	q := strings.ToLower(query)
	seen := utils.NewTitleFilter(len(items))
	keep := make([]ranked, 0, len(items))

	for _, s := range items {
		if s.Title == "" {
			continue
		}
		lower := strings.ToLower(s.Title)
		pos := utils.RuneIndex(lower, q)
		if pos < 0 {
			continue
		}
		if !seen.ShouldInclude(s.Title) {
			continue
		}
		keep = append(keep, ranked{s: s, lower: lower, prefix: pos == 0, pos: pos})
	}

	col := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(col)

	slices.SortStableFunc(keep, func(a, b ranked) int {
		if a.prefix != b.prefix {
			if a.prefix {
				return -1
			}
			return 1
		}
		if a.pos != b.pos {
			return cmp.Compare(a.pos, b.pos)
		}
		if c := col.CompareString(a.lower, b.lower); c != 0 {
			return c
		}
		return strings.Compare(a.lower, b.lower)
	})

	if len(keep) > limit {
		keep = keep[:limit]
	}

	out := make([]Suggestion, len(keep))
	for i, r := range keep {
		out[i] = r.s
	}
	return out
}
