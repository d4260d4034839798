package catalog

import (
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// suffixIndex answers "which entries contain this substring" by storing every
// suffix of every indexed text in a patricia trie. A substring query is then a
// prefix walk: any suffix starting with the query belongs to a text containing it.
//
// Items are *[]int postings holding entry positions; a position can repeat when
// the same suffix occurs more than once.
type suffixIndex struct {
	trie *patricia.Trie
	keys int
}

func newSuffixIndex() *suffixIndex {
	return &suffixIndex{trie: patricia.NewTrie()}
}

// add indexes every suffix of the lower-cased text under pos.
func (ix *suffixIndex) add(pos int, text string) {
	lower := strings.ToLower(text)
	for i := range lower {
		key := patricia.Prefix(lower[i:])
		if item := ix.trie.Get(key); item != nil {
			postings := item.(*[]int)
			*postings = append(*postings, pos)
			continue
		}
		postings := []int{pos}
		ix.trie.Insert(key, &postings)
		ix.keys++
	}
}

// lookup marks every position whose text contains query, case-insensitively.
// The returned slice has one flag per entry, n entries long.
func (ix *suffixIndex) lookup(query string, n int) ([]bool, error) {
	hits := make([]bool, n)
	err := ix.trie.VisitSubtree(patricia.Prefix(strings.ToLower(query)), func(_ patricia.Prefix, item patricia.Item) error {
		for _, pos := range *item.(*[]int) {
			if pos < n {
				hits[pos] = true
			}
		}
		return nil
	})
	return hits, err
}
