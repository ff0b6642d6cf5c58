package cli

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmcdole/newsdesk/internal/adapter"
	"github.com/mmcdole/newsdesk/internal/adapter/source"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/output"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/store"
)

// commandTimeout bounds the server calls of a single subcommand
const commandTimeout = 30 * time.Second

// app is everything one run of the client is built from. A logout discards
// the whole value and builds a new one.
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	store    *store.SessionStore
	api      source.NewsSource
	session  *service.Session
	stats    *service.StatsService
	news     *service.NewsService
	launcher *adapter.Launcher
}

// newApp opens the session store for the configured server and wires the
// services on top of the API client
func newApp(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	storagePath, err := adapter.ExpandHome(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	st, err := store.NewSessionStore(storagePath, cfg.Server.URL)
	if err != nil {
		return nil, &output.CLIError{
			Summary:    "could not open the session store",
			Detail:     err.Error(),
			Suggestion: "Check storage.path, or close other running newsdesk instances",
			ExitCode:   output.ExitConfigError,
		}
	}

	api, err := source.NewClient(&cfg.Server, st, logger)
	if err != nil {
		st.Close()
		return nil, &output.CLIError{
			Summary:    "invalid server configuration",
			Detail:     err.Error(),
			Suggestion: "Set server.url in your config or NEWSDESK_SERVER_URL",
			ExitCode:   output.ExitConfigError,
		}
	}

	session := service.NewSession(api, st, logger)
	api.OnUnauthorized(session.HandleUnauthorized)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		api:      api,
		session:  session,
		stats:    service.NewStatsService(api, session, logger),
		news:     service.NewNewsService(api, api, api, session, logger),
		launcher: adapter.NewLauncher(cfg.Browser, logger),
	}, nil
}

// openApp builds the app from the loaded configuration
func openApp() (*app, error) {
	return newApp(cfg, logger)
}

// Close releases the session store
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close session store", "error", err)
	}
}

// resolve validates a stored token. The session purges a rejected one.
func (a *app) resolve(ctx context.Context) error {
	err := a.session.Resolve(ctx)
	if err != nil && !a.session.IsAuthenticated() {
		a.logger.Debug("stored session not usable", "error", err)
	}
	return err
}

// requireLogin resolves the stored session and fails unless it is valid
func (a *app) requireLogin(ctx context.Context) error {
	err := a.resolve(ctx)
	if a.session.IsAuthenticated() {
		return nil
	}
	if err != nil && isOffline(err) {
		return err
	}
	return &output.CLIError{
		Summary:    "you are not logged in",
		Suggestion: "Run 'newsdesk login' first",
		ExitCode:   output.ExitAuthError,
	}
}

// pageSize is the listing size for CLI output
func (a *app) pageSize() int {
	if a.cfg.UI.PageSize > 0 {
		return a.cfg.UI.PageSize
	}
	return service.PageSize
}

// commandContext bounds ctx by the per-command timeout
func commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}

// pageArg converts the 1-based --page flag to the 0-based API index
func pageArg(page int) (int, error) {
	if page < 1 {
		return 0, usageError("--page must be 1 or greater, got %d", page)
	}
	return page - 1, nil
}

func isOffline(err error) bool {
	return err != nil && (errors.Is(err, domain.ErrServerOffline) || errors.Is(err, context.DeadlineExceeded))
}

// parseID parses a positional item id
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError("invalid id %q", arg)
	}
	return id, nil
}
