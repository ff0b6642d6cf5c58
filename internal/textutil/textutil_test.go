package textutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHighlights(t *testing.T) {
	assert.Nil(t, ParseHighlights(""))
	assert.Equal(t,
		[]string{"First point", "Second point"},
		ParseHighlights("First point\n\n   \n  Second point  \n"),
	)
}

func TestExtractYouTubeVideoID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?list=abc&v=xyz123&t=42", "xyz123", true},
		{"https://example.com/article/1", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractYouTubeVideoID(tt.url)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Tom & Jerry are back", Sanitize("<p>Tom &amp; <b>Jerry</b>\n  are back</p>"))
	assert.Equal(t, "alert", Sanitize("<script>x()</script>alert"))
	assert.Equal(t, "", Sanitize(""))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC)
	tests := map[time.Duration]string{
		0:                             "0m ago",
		59 * time.Minute:              "59m ago",
		60 * time.Minute:              "1h ago",
		23*time.Hour + 59*time.Minute: "23h ago",
		24 * time.Hour:                "1d ago",
		80 * time.Hour:                "3d ago",
		-5 * time.Minute:              "0m ago",
	}
	for age, want := range tests {
		assert.Equal(t, want, RelativeTime(now.Add(-age), now), age.String())
	}
	assert.Empty(t, RelativeTime(time.Time{}, now))
}

func TestAbsoluteTime(t *testing.T) {
	ts := time.Date(2025, 12, 25, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "Dec 25, 2025 10:00", AbsoluteTime(ts))
	assert.Empty(t, AbsoluteTime(time.Time{}))
}

func TestHighlightSpans(t *testing.T) {
	assert.Equal(t,
		[]Span{{Text: "Open"}, {Text: "AI", Match: true}, {Text: " and "}, {Text: "ai", Match: true}},
		HighlightSpans("OpenAI and ai", "AI"),
	)
	assert.Equal(t,
		[]Span{{Text: "C++", Match: true}, {Text: " news"}},
		HighlightSpans("C++ news", "c++"),
		"keyword is literal",
	)
	assert.Equal(t, []Span{{Text: "nothing"}}, HighlightSpans("nothing", "zzz"))
	assert.Equal(t, []Span{{Text: "plain"}}, HighlightSpans("plain", " "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "뉴스…", Truncate("뉴스 기사", 3))
	assert.Equal(t, "", Truncate("hello", 0))
}
