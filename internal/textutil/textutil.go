// Package textutil formats server text for terminal display.
package textutil

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var (
	youTubeIDPattern = regexp.MustCompile(`[?&]v=([^&]+)`)
	whitespace       = regexp.MustCompile(`\s+`)
	strictPolicy     = bluemonday.StrictPolicy()
)

// ParseHighlights splits a newline separated highlight list, dropping blank lines
func ParseHighlights(highlights string) []string {
	if highlights == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(highlights, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ExtractYouTubeVideoID returns the v= parameter of a YouTube watch URL
func ExtractYouTubeVideoID(rawURL string) (string, bool) {
	m := youTubeIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Sanitize strips markup from crawled text, decodes entities and collapses
// whitespace into single spaces
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// RelativeTime renders the age of t as "5m ago", "2h ago" or "3d ago"
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	minutes := int(now.Sub(t) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/1440)
	}
}

// AbsoluteTime renders t as "Dec 25, 2025 10:00" in local time
func AbsoluteTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// Span is a run of text that either matches a keyword or not
type Span struct {
	Text  string
	Match bool
}

// HighlightSpans splits text around case-insensitive occurrences of keyword.
// The keyword is matched literally.
func HighlightSpans(text, keyword string) []Span {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || text == "" {
		return []Span{{Text: text}}
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	locs := re.FindAllStringIndex(text, -1)
	if locs == nil {
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// Truncate shortens s to at most width runes, ending in an ellipsis when cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
