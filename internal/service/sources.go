package service

import (
	"context"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// ArticleSource lists articles with keyword search and batch bookmark checks
func ArticleSource(articles domain.ArticleRepository, bookmarks domain.BookmarkRepository) Source[domain.Article] {
	return Source[domain.Article]{
		Kind:           domain.BookmarkTypeArticle,
		FetchPage:      articles.GetArticles,
		SearchPage:     articles.SearchArticles,
		CheckBookmarks: bookmarks.CheckBookmarks,
	}
}

// SummarySource lists AI summaries newest first. An empty status lists all.
func SummarySource(summaries domain.SummaryRepository, bookmarks domain.BookmarkRepository, status domain.SummaryStatus) Source[domain.Summary] {
	return Source[domain.Summary]{
		Kind: domain.BookmarkTypeSummary,
		FetchPage: func(ctx context.Context, page, size int) (domain.Page[domain.Summary], error) {
			return summaries.GetSummaries(ctx, domain.SummaryQuery{
				Page:   page,
				Size:   size,
				Sort:   LatestSummarySort,
				Status: status,
			})
		},
		CheckBookmarks: bookmarks.CheckBookmarks,
	}
}

// BookmarkSource lists the user's bookmarks. Every item is bookmarked by
// definition and removing one reloads the page.
func BookmarkSource(bookmarks domain.BookmarkRepository) Source[domain.Bookmark] {
	return Source[domain.Bookmark]{
		FetchPage:         bookmarks.GetBookmarks,
		AllBookmarked:     true,
		ReloadAfterToggle: true,
	}
}
