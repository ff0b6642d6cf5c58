package domain

import "context"

// ArticleRepository provides access to crawled articles
type ArticleRepository interface {
	// GetArticles returns a page of articles, newest first
	GetArticles(ctx context.Context, page, size int) (Page[Article], error)

	// SearchArticles returns a page of articles whose title matches the query
	SearchArticles(ctx context.Context, query string, page, size int) (Page[Article], error)

	// GetArticlesBySource returns a page of articles of one source type
	GetArticlesBySource(ctx context.Context, sourceType string, page, size int) (Page[Article], error)

	// GetArticlesByCategory returns a page of articles in one category
	GetArticlesByCategory(ctx context.Context, category string, page, size int) (Page[Article], error)

	// GetArticle returns a single article
	GetArticle(ctx context.Context, id int64) (*Article, error)
}

// SummaryQuery shapes a summaries listing request
type SummaryQuery struct {
	Page   int
	Size   int
	Sort   string        // e.g. "createdAt,desc"
	Status SummaryStatus // empty = any
}

// SummaryRepository provides access to AI summaries
type SummaryRepository interface {
	GetSummaries(ctx context.Context, q SummaryQuery) (Page[Summary], error)
	GetSummary(ctx context.Context, id int64) (*Summary, error)
}

// BookmarkRepository provides per-user bookmark operations
type BookmarkRepository interface {
	GetBookmarks(ctx context.Context, page, size int) (Page[Bookmark], error)
	AddBookmark(ctx context.Context, key BookmarkKey) (*Bookmark, error)
	RemoveBookmark(ctx context.Context, key BookmarkKey) error
	CheckBookmark(ctx context.Context, key BookmarkKey) (bool, error)

	// CheckBookmarks resolves bookmark status for many ids in one request
	CheckBookmarks(ctx context.Context, kind BookmarkType, ids []int64) (map[int64]bool, error)
	CountBookmarks(ctx context.Context) (int64, error)
}

// StatisticsRepository provides dashboard counters
type StatisticsRepository interface {
	CountArticlesToday(ctx context.Context) (int64, error)
	CountArticlesTotal(ctx context.Context) (int64, error)
	CountBookmarks(ctx context.Context) (int64, error)
}

// AuthRepository provides account operations
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, email, password, username string) (*AuthResult, error)
	CurrentUser(ctx context.Context) (*User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, password string) error
}
