package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowProperties(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 0; current < total; current++ {
			w := Window(current, total)

			require.Len(t, w.Pages, min(5, total), "current=%d total=%d", current, total)
			assert.Contains(t, w.Pages, current)
			for i, p := range w.Pages {
				assert.GreaterOrEqual(t, p, 0)
				assert.Less(t, p, total)
				if i > 0 {
					assert.Equal(t, w.Pages[i-1]+1, p, "window is contiguous")
				}
			}
			assert.Equal(t, w.Pages[0] > 0, w.First)
			assert.Equal(t, w.Pages[len(w.Pages)-1] < total-1, w.Last)
			assert.Equal(t, current > 0, w.HasPrev)
			assert.Equal(t, current < total-1, w.HasNext)
		}
	}
}

func TestWindowScenarios(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    PageWindow
	}{
		{
			name: "five pages centered", current: 2, total: 5,
			want: PageWindow{Pages: []int{0, 1, 2, 3, 4}, HasPrev: true, HasNext: true},
		},
		{
			name: "shifts right at the start", current: 0, total: 10,
			want: PageWindow{Pages: []int{0, 1, 2, 3, 4}, Last: true, TrailingGap: true, HasNext: true},
		},
		{
			name: "shifts left at the end", current: 9, total: 10,
			want: PageWindow{Pages: []int{5, 6, 7, 8, 9}, First: true, LeadingGap: true, HasPrev: true},
		},
		{
			name: "middle with both gaps", current: 5, total: 12,
			want: PageWindow{Pages: []int{3, 4, 5, 6, 7}, First: true, Last: true, LeadingGap: true, TrailingGap: true, HasPrev: true, HasNext: true},
		},
		{
			name: "adjacent to edges without gaps", current: 3, total: 7,
			want: PageWindow{Pages: []int{1, 2, 3, 4, 5}, First: true, Last: true, HasPrev: true, HasNext: true},
		},
		{
			name: "single page", current: 0, total: 1,
			want: PageWindow{Pages: []int{0}},
		},
		{
			name: "out of range current is clamped", current: 40, total: 3,
			want: PageWindow{Pages: []int{0, 1, 2}, HasPrev: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Window(tt.current, tt.total))
		})
	}

	assert.Equal(t, PageWindow{}, Window(0, 0))
}
