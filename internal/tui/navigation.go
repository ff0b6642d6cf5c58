package tui

// ViewID identifies a screen of the application
type ViewID int

const (
	ViewHome ViewID = iota
	ViewArticles
	ViewSummaries
	ViewBookmarks
	ViewArticleDetail
	ViewSummaryDetail
	ViewLogin
	ViewRegister
	ViewProfile
)

// String returns the title shown in the header
func (v ViewID) String() string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewArticles:
		return "Articles"
	case ViewSummaries:
		return "AI Summaries"
	case ViewBookmarks:
		return "Bookmarks"
	case ViewArticleDetail:
		return "Article"
	case ViewSummaryDetail:
		return "AI Summary"
	case ViewLogin:
		return "Login"
	case ViewRegister:
		return "Register"
	case ViewProfile:
		return "Profile"
	}
	return "Unknown"
}

// tabs are the top-level views reachable with the number keys
var tabs = []ViewID{ViewHome, ViewArticles, ViewSummaries, ViewBookmarks}

// Protected reports whether the view needs an authenticated session
func (v ViewID) Protected() bool {
	return v == ViewBookmarks || v == ViewProfile
}

// IsList reports whether the view is a paginated list
func (v ViewID) IsList() bool {
	return v == ViewArticles || v == ViewSummaries || v == ViewBookmarks
}

// IsForm reports whether the view is an input form
func (v ViewID) IsForm() bool {
	return v == ViewLogin || v == ViewRegister
}

// ViewStack tracks the views behind the current one for back navigation.
// Switching tabs resets it; opening a detail or form pushes onto it.
type ViewStack struct {
	views []ViewID
}

// Len returns the number of views in the stack
func (s *ViewStack) Len() int {
	return len(s.views)
}

// Top returns the current view
func (s *ViewStack) Top() ViewID {
	if len(s.views) == 0 {
		return ViewHome
	}
	return s.views[len(s.views)-1]
}

// Push makes v the current view. Pushing the current view again is a no-op.
func (s *ViewStack) Push(v ViewID) {
	if len(s.views) > 0 && s.Top() == v {
		return
	}
	s.views = append(s.views, v)
}

// Pop returns to the previous view and reports it. The root view is never popped.
func (s *ViewStack) Pop() ViewID {
	if len(s.views) > 1 {
		s.views = s.views[:len(s.views)-1]
	}
	return s.Top()
}

// Reset replaces the whole stack with v
func (s *ViewStack) Reset(v ViewID) {
	s.views = append(s.views[:0], v)
}

// Replace swaps the current view for v
func (s *ViewStack) Replace(v ViewID) {
	if len(s.views) == 0 {
		s.views = append(s.views, v)
		return
	}
	s.views[len(s.views)-1] = v
}

// Previous returns the view under the current one, or ViewHome
func (s *ViewStack) Previous() ViewID {
	if len(s.views) < 2 {
		return ViewHome
	}
	return s.views[len(s.views)-2]
}
