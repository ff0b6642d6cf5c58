package components

import (
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/mmcdole/newsdesk/internal/tui/styles"
)

// positionParts splits text into row parts, marking the runes at positions.
// Consecutive runes with the same style are batched into one part.
func positionParts(text string, positions []int) []styles.RowPart {
	if len(positions) == 0 {
		return []styles.RowPart{{Text: text}}
	}

	matchSet := make(map[int]bool, len(positions))
	for _, p := range positions {
		matchSet[p] = true
	}

	var parts []styles.RowPart
	runes := []rune(text)
	for i := 0; i < len(runes); {
		isMatch := matchSet[i]
		j := i
		for j < len(runes) && matchSet[j] == isMatch {
			j++
		}
		parts = append(parts, matchPart(string(runes[i:j]), isMatch))
		i = j
	}
	return parts
}

// keywordParts splits text into row parts around occurrences of keyword
func keywordParts(text, keyword string) []styles.RowPart {
	spans := textutil.HighlightSpans(text, keyword)
	parts := make([]styles.RowPart, len(spans))
	for i, s := range spans {
		parts[i] = matchPart(s.Text, s.Match)
	}
	return parts
}

func matchPart(text string, match bool) styles.RowPart {
	if !match {
		return styles.RowPart{Text: text}
	}
	fg := styles.Amber
	return styles.RowPart{Text: text, Foreground: &fg, Bold: true}
}
