package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/tui"
)

// runTUI runs the interactive client. Logging out or deleting the account
// ends the program with domain.ErrSessionReset; every piece of state is then
// dropped and the client starts over from the store on the login form.
func runTUI(ctx context.Context) error {
	logger.Info("starting newsdesk", "version", version)

	start := tui.ViewHome
	for {
		err := runTUIOnce(ctx, start)
		if errors.Is(err, domain.ErrSessionReset) {
			logger.Info("session reset, restarting")
			start = tui.ViewLogin
			continue
		}
		if err != nil {
			return err
		}
		logger.Info("shutting down")
		return nil
	}
}

func runTUIOnce(ctx context.Context, start tui.ViewID) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	articles := service.NewController(service.ArticleSource(a.api, a.api), a.api, a.session, a.logger)
	defer articles.Close()
	summaries := service.NewController(service.SummarySource(a.api, a.api, ""), a.api, a.session, a.logger)
	defer summaries.Close()
	bookmarks := service.NewController(service.BookmarkSource(a.api), a.api, a.session, a.logger)
	defer bookmarks.Close()

	model := tui.NewModel(tui.Services{
		Session:   a.session,
		Stats:     a.stats,
		News:      a.news,
		Articles:  articles,
		Summaries: summaries,
		Bookmarks: bookmarks,
		Links:     a.launcher,
		Logger:    a.logger,
		StartView: start,
	})
	defer model.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	p := tea.NewProgram(model, opts...)

	final, err := p.Run()
	if err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	if m, ok := final.(tui.Model); ok {
		return m.ExitErr()
	}
	return nil
}
