package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/service"
)

// Command factories for async operations

// requestTimeout bounds every call made on behalf of a key press
const requestTimeout = 30 * time.Second

// ResolveSessionCmd validates the stored token
func ResolveSessionCmd(session *service.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return SessionResolvedMsg{Err: session.Resolve(ctx)}
	}
}

// LoadStatsCmd loads the dashboard counters
func LoadStatsCmd(svc *service.StatsService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		stats, err := svc.Stats(ctx)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// LoadLatestSummaryCmd loads the newest AI summary
func LoadLatestSummaryCmd(svc *service.NewsService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		summary, err := svc.LatestSummary(ctx)
		return LatestSummaryMsg{Summary: summary, Err: err}
	}
}

// LoadPageCmd loads page of a list. The controller supersedes any load
// still in flight for the same list.
func LoadPageCmd[T domain.Listable](view ViewID, ctrl *service.Controller[T], page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := ctrl.LoadPage(ctx, page)
		return PageLoadedMsg{View: view, Err: err}
	}
}

// ToggleListBookmarkCmd toggles the bookmark of a listed item
func ToggleListBookmarkCmd[T domain.Listable](view ViewID, ctrl *service.Controller[T], item T) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		on, err := ctrl.ToggleBookmark(ctx, item.GetID())
		return BookmarkToggledMsg{View: view, Title: item.GetTitle(), Bookmarked: on, Err: err}
	}
}

// LoadArticleCmd loads an article and whether it is bookmarked
func LoadArticleCmd(svc *service.NewsService, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		article, err := svc.Article(ctx, id)
		if err != nil {
			return ArticleLoadedMsg{Err: err}
		}
		return ArticleLoadedMsg{
			Article:    article,
			Bookmarked: svc.IsBookmarked(ctx, article.BookmarkKey()),
		}
	}
}

// LoadSummaryCmd loads an AI summary and whether it is bookmarked
func LoadSummaryCmd(svc *service.NewsService, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		summary, err := svc.Summary(ctx, id)
		if err != nil {
			return SummaryLoadedMsg{Err: err}
		}
		return SummaryLoadedMsg{
			Summary:    summary,
			Bookmarked: svc.IsBookmarked(ctx, summary.BookmarkKey()),
		}
	}
}

// ToggleDetailBookmarkCmd toggles the bookmark of the item in a detail view
func ToggleDetailBookmarkCmd(svc *service.NewsService, key domain.BookmarkKey, current bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		on, err := svc.Toggle(ctx, key, current)
		return DetailBookmarkMsg{Key: key, Bookmarked: on, Err: err}
	}
}

// LoginCmd logs in with email and password
func LoginCmd(session *service.Session, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := session.Login(ctx, email, password)
		return LoginDoneMsg{User: user, Err: err}
	}
}

// RegisterCmd creates an account
func RegisterCmd(session *service.Session, in service.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		loggedIn, err := session.Register(ctx, in)
		return RegisterDoneMsg{LoggedIn: loggedIn, Err: err}
	}
}

// ChangePasswordCmd changes the account password
func ChangePasswordCmd(session *service.Session, current, next, confirm string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return PasswordChangedMsg{Err: session.ChangePassword(ctx, current, next, confirm)}
	}
}

// DeleteAccountCmd deletes the account after confirming the password
func DeleteAccountCmd(session *service.Session, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return AccountDeletedMsg{Err: session.DeleteAccount(ctx, password)}
	}
}

// OpenLinkCmd opens rawURL outside the terminal. Video links go to a player.
func OpenLinkCmd(opener linkOpener, rawURL string, video bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if video {
			err = opener.OpenVideo(rawURL)
		} else {
			err = opener.Open(rawURL)
		}
		return LinkOpenedMsg{URL: rawURL, Err: err}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// ClearStatusCmd returns a command that clears status seq after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
