package tui

import (
	"time"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TickMsg drives the countdown clock
type TickMsg struct {
	Time time.Time
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message if it is still the one
// identified by Seq
type ClearStatusMsg struct {
	Seq int
}

// SessionChangedMsg carries a session state transition
type SessionChangedMsg struct {
	State service.SessionState
}

// SessionResolvedMsg signals that the stored token has been validated
type SessionResolvedMsg struct {
	Err error
}

// StatsLoadedMsg carries the dashboard counters
type StatsLoadedMsg struct {
	Stats domain.Stats
	Err   error
}

// LatestSummaryMsg carries the newest AI summary (nil when none exist)
type LatestSummaryMsg struct {
	Summary *domain.Summary
	Err     error
}

// PageLoadedMsg signals that a list finished loading. The list state itself
// is read back from the list's controller.
type PageLoadedMsg struct {
	View ViewID
	Err  error
}

// BookmarkToggledMsg signals the outcome of a bookmark toggle in a list
type BookmarkToggledMsg struct {
	View       ViewID
	Title      string
	Bookmarked bool
	Err        error
}

// ArticleLoadedMsg carries an article and its bookmark status
type ArticleLoadedMsg struct {
	Article    *domain.Article
	Bookmarked bool
	Err        error
}

// SummaryLoadedMsg carries an AI summary and its bookmark status
type SummaryLoadedMsg struct {
	Summary    *domain.Summary
	Bookmarked bool
	Err        error
}

// DetailBookmarkMsg signals the outcome of a bookmark toggle in a detail view
type DetailBookmarkMsg struct {
	Key        domain.BookmarkKey
	Bookmarked bool
	Err        error
}

// LoginDoneMsg signals the outcome of a login
type LoginDoneMsg struct {
	User *domain.User
	Err  error
}

// RegisterDoneMsg signals the outcome of a registration
type RegisterDoneMsg struct {
	LoggedIn bool
	Err      error
}

// PasswordChangedMsg signals the outcome of a password change
type PasswordChangedMsg struct {
	Err error
}

// AccountDeletedMsg signals the outcome of an account deletion
type AccountDeletedMsg struct {
	Err error
}

// LinkOpenedMsg signals the outcome of opening a link externally
type LinkOpenedMsg struct {
	URL string
	Err error
}
