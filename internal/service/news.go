package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// LatestSummarySort orders summaries newest first
const LatestSummarySort = "createdAt,desc"

// bookmarkChecker is the slice of the bookmark API the detail views need
type bookmarkChecker interface {
	Bookmarker
	CheckBookmark(ctx context.Context, key domain.BookmarkKey) (bool, error)
}

// NewsService serves the detail views: single items and their bookmark status
type NewsService struct {
	articles  domain.ArticleRepository
	summaries domain.SummaryRepository
	bookmarks bookmarkChecker
	auth      authState
	logger    *slog.Logger
}

// NewNewsService creates a new news service
func NewNewsService(
	articles domain.ArticleRepository,
	summaries domain.SummaryRepository,
	bookmarks bookmarkChecker,
	auth authState,
	logger *slog.Logger,
) *NewsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsService{
		articles:  articles,
		summaries: summaries,
		bookmarks: bookmarks,
		auth:      auth,
		logger:    logger,
	}
}

// Article returns a single article
func (s *NewsService) Article(ctx context.Context, id int64) (*domain.Article, error) {
	return s.articles.GetArticle(ctx, id)
}

// Summary returns a single AI summary
func (s *NewsService) Summary(ctx context.Context, id int64) (*domain.Summary, error) {
	return s.summaries.GetSummary(ctx, id)
}

// LatestSummary returns the newest summary, or nil when none exist yet
func (s *NewsService) LatestSummary(ctx context.Context) (*domain.Summary, error) {
	page, err := s.summaries.GetSummaries(ctx, domain.SummaryQuery{
		Page: 0,
		Size: 1,
		Sort: LatestSummarySort,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Content) == 0 {
		return nil, nil
	}
	latest := page.Content[0]
	return &latest, nil
}

// IsBookmarked checks one item. Unauthenticated sessions never have bookmarks
// and a failed check reads as not bookmarked.
func (s *NewsService) IsBookmarked(ctx context.Context, key domain.BookmarkKey) bool {
	if !s.auth.IsAuthenticated() {
		return false
	}
	ok, err := s.bookmarks.CheckBookmark(ctx, key)
	if err != nil {
		s.logger.Warn("bookmark check failed", "target", key.String(), "error", err)
		return false
	}
	return ok
}

// Toggle flips the bookmark of key given its current status and returns the
// confirmed new status
func (s *NewsService) Toggle(ctx context.Context, key domain.BookmarkKey, current bool) (bool, error) {
	if !s.auth.IsAuthenticated() {
		return current, domain.ErrLoginRequired
	}
	if current {
		if err := s.bookmarks.RemoveBookmark(ctx, key); err != nil {
			return current, err
		}
		return false, nil
	}
	if _, err := s.bookmarks.AddBookmark(ctx, key); err != nil {
		return current, err
	}
	return true, nil
}
