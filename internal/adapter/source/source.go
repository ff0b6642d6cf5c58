package source

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mmcdole/newsdesk/internal/adapter"
	"github.com/mmcdole/newsdesk/internal/adapter/source/newsdesk"
	"github.com/mmcdole/newsdesk/internal/domain"
)

// NewsSource combines all repository interfaces the news API backend implements.
type NewsSource interface {
	domain.ArticleRepository    // Listing, search, filters, detail
	domain.SummaryRepository    // AI summaries
	domain.BookmarkRepository   // Per-user bookmarks
	domain.StatisticsRepository // Dashboard counters
	domain.AuthRepository       // Login, registration, account

	// OnUnauthorized registers the hook run when the server ends the session
	OnUnauthorized(fn func())
}

// NewClient creates a NewsSource for the configured server.
func NewClient(cfg *adapter.ServerConfig, tokens domain.TokenStore, logger *slog.Logger) (NewsSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server config is nil")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", cfg.URL)
	}
	if tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}

	return newsdesk.NewClient(cfg.URL, tokens, cfg.Timeout, logger), nil
}
