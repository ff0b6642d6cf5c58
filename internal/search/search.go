package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Match is a filtered item with highlighting metadata
type Match struct {
	Index          int   // Index in the source slice
	Score          int   // Higher is better
	MatchedIndexes []int // Rune positions in the title that matched
}

// titleIndex implements sahilm/fuzzy.Source over pre-lowered titles
type titleIndex []string

func (t titleIndex) String(i int) string { return t[i] }
func (t titleIndex) Len() int            { return len(t) }

// Filter fuzzy-matches query against titles, best match first.
// A blank query matches everything in original order.
func Filter(query string, titles []string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]Match, len(titles))
		for i := range titles {
			all[i] = Match{Index: i}
		}
		return all
	}

	lower := make(titleIndex, len(titles))
	for i, t := range titles {
		lower[i] = strings.ToLower(t)
	}

	found := sfuzzy.FindFrom(strings.ToLower(query), lower)
	matches := make([]Match, len(found))
	for i, m := range found {
		matches[i] = Match{
			Index:          m.Index,
			Score:          m.Score,
			MatchedIndexes: runePositions(lower[m.Index], m.MatchedIndexes),
		}
	}
	return matches
}

// runePositions converts byte offsets into s to rune positions.
// Lowercasing maps rune for rune, so positions in the lowered title apply
// to the original.
func runePositions(s string, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	byRune := make(map[int]int, len(s))
	pos := 0
	for off := range s {
		byRune[off] = pos
		pos++
	}
	out := make([]int, 0, len(offsets))
	for _, off := range offsets {
		if p, ok := byRune[off]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Rank returns the indexes of titles containing the characters of query in
// order, ignoring case and diacritics, closest match first. Ties keep their
// original order.
func Rank(query string, titles []string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		idx := make([]int, len(titles))
		for i := range titles {
			idx[i] = i
		}
		return idx
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	idx := make([]int, len(ranks))
	for i, r := range ranks {
		idx[i] = r.OriginalIndex
	}
	return idx
}
