package service

// windowWidth is the number of numbered page controls shown at once
const windowWidth = 5

// PageWindow describes the page controls to render around the current page
type PageWindow struct {
	Pages       []int // Contiguous, strictly increasing page indices
	First       bool  // Show a jump-to-first control (window excludes page 0)
	Last        bool  // Show a jump-to-last control (window excludes the last page)
	LeadingGap  bool  // Pages are hidden between the first control and the window
	TrailingGap bool  // Pages are hidden between the window and the last control
	HasPrev     bool
	HasNext     bool
}

// Window computes the page controls for current within total pages.
// The window is centered on current where possible and shifts at either edge
// to stay windowWidth wide (or total wide when there are fewer pages).
func Window(current, total int) PageWindow {
	if total <= 0 {
		return PageWindow{}
	}
	current = max(0, min(current, total-1))

	start := max(0, current-windowWidth/2)
	end := min(total-1, start+windowWidth-1)
	if end-start < windowWidth-1 {
		start = max(0, end-(windowWidth-1))
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}

	return PageWindow{
		Pages:       pages,
		First:       start > 0,
		Last:        end < total-1,
		LeadingGap:  start > 1,
		TrailingGap: end < total-2,
		HasPrev:     current > 0,
		HasNext:     current < total-1,
	}
}
