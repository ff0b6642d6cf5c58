package search

import (
	"strings"
	"sync"
)

// DefaultHistoryLimit bounds the keywords a History keeps
const DefaultHistoryLimit = 20

// History remembers committed search keywords, most recent first.
// It lives in memory only and dies with the session that owns it.
type History struct {
	mu       sync.Mutex
	limit    int
	keywords []string
}

// NewHistory creates an empty history holding at most limit keywords
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add records keyword, moving a repeat to the front. Blank input is ignored.
func (h *History) Add(keyword string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	recent := make([]string, 0, len(h.keywords)+1)
	recent = append(recent, keyword)
	for _, k := range h.keywords {
		if k != keyword {
			recent = append(recent, k)
		}
	}
	if len(recent) > h.limit {
		recent = recent[:h.limit]
	}
	h.keywords = recent
}

// Recent returns a copy of the keywords, most recent first
func (h *History) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.keywords...)
}
