package newsdesk

import (
	"github.com/mmcdole/newsdesk/internal/domain"
)

// MapArticle converts an ArticleDTO to a domain Article
func MapArticle(a ArticleDTO) domain.Article {
	return domain.Article{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		URL:          a.URL,
		SourceName:   a.SourceName,
		SourceType:   a.SourceType,
		Category:     a.Category,
		ThumbnailURL: a.ThumbnailURL,
		PublishedAt:  a.PublishedAt,
		CrawledAt:    a.CrawledAt,
	}
}

// MapSummary converts a SummaryDTO to a domain Summary
func MapSummary(s SummaryDTO) domain.Summary {
	summary := domain.Summary{
		ID:            s.ID,
		Title:         s.Title,
		Content:       s.Content,
		KeyHighlights: s.KeyHighlights,
		Status:        domain.SummaryStatus(s.Status),
		GeneratedAt:   s.GeneratedAt,
		CreatedAt:     s.CreatedAt,
		PeriodStart:   s.SummaryPeriodStart,
		PeriodEnd:     s.SummaryPeriodEnd,
	}
	if s.RelatedArticlesCount != nil {
		summary.RelatedArticlesCount = *s.RelatedArticlesCount
	}
	if summary.Status == "" {
		summary.Status = domain.SummaryStatusDraft
	}
	return summary
}

// MapBookmark converts a BookmarkDTO to a domain Bookmark
func MapBookmark(b BookmarkDTO) domain.Bookmark {
	bookmark := domain.Bookmark{
		ID:        b.ID,
		Type:      domain.BookmarkType(b.BookmarkType),
		CreatedAt: b.CreatedAt,
	}
	if b.ArticleID != nil {
		bookmark.ArticleID = *b.ArticleID
	}
	if b.AISummaryID != nil {
		bookmark.SummaryID = *b.AISummaryID
	}
	if b.Article != nil {
		article := MapArticle(*b.Article)
		bookmark.Article = &article
		if bookmark.ArticleID == 0 {
			bookmark.ArticleID = article.ID
		}
	}
	if b.AISummary != nil {
		summary := MapSummary(*b.AISummary)
		bookmark.Summary = &summary
		if bookmark.SummaryID == 0 {
			bookmark.SummaryID = summary.ID
		}
	}
	return bookmark
}

// MapUser converts a UserDTO to a domain User
func MapUser(u UserDTO) domain.User {
	return domain.User{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
	}
}

// MapAuth converts an AuthResponse to a domain AuthResult
func MapAuth(r AuthResponse) *domain.AuthResult {
	return &domain.AuthResult{
		Token: r.Token,
		User: domain.User{
			ID:       r.UserID,
			Email:    r.Email,
			Username: r.Username,
		},
	}
}

// mapPage converts a page envelope using fn for every item, preserving order
func mapPage[D, T any](p PageResponse[D], fn func(D) T) domain.Page[T] {
	content := make([]T, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}
	return domain.Page[T]{
		Content:       content,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
	}
}
