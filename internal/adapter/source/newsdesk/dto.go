package newsdesk

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// PageResponse is the paginated envelope. Only the fields the client needs
// are decoded; sorting and pageable metadata are ignored.
type PageResponse[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
}

// ArticleDTO mirrors the server article representation
type ArticleDTO struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	URL          string           `json:"url"`
	SourceName   string           `json:"sourceName"`
	SourceType   string           `json:"sourceType"`
	Category     string           `json:"category"`
	ThumbnailURL string           `json:"thumbnailUrl"`
	PublishedAt  domain.Timestamp `json:"publishedAt"`
	CrawledAt    domain.Timestamp `json:"crawledAt"`
}

// SummaryDTO mirrors the server AI summary representation
type SummaryDTO struct {
	ID                   int64            `json:"id"`
	SummaryPeriodStart   domain.Timestamp `json:"summaryPeriodStart"`
	SummaryPeriodEnd     domain.Timestamp `json:"summaryPeriodEnd"`
	Title                string           `json:"title"`
	Content              string           `json:"content"`
	KeyHighlights        string           `json:"keyHighlights"`
	RelatedArticlesCount *int             `json:"relatedArticlesCount"`
	GeneratedAt          domain.Timestamp `json:"generatedAt"`
	Status               string           `json:"status"`
	CreatedAt            domain.Timestamp `json:"createdAt"`
}

// BookmarkDTO mirrors the server bookmark representation
type BookmarkDTO struct {
	ID           int64            `json:"id"`
	BookmarkType string           `json:"bookmarkType"`
	ArticleID    *int64           `json:"articleId"`
	AISummaryID  *int64           `json:"aiSummaryId"`
	Article      *ArticleDTO      `json:"article"`
	AISummary    *SummaryDTO      `json:"aiSummary"`
	CreatedAt    domain.Timestamp `json:"createdAt"`
}

// BookmarkRequest is the body of POST /bookmarks
type BookmarkRequest struct {
	BookmarkType string `json:"bookmarkType"`
	ArticleID    *int64 `json:"articleId,omitempty"`
	AISummaryID  *int64 `json:"aiSummaryId,omitempty"`
}

// BookmarkCheckResponse is the body of GET /bookmarks/check
type BookmarkCheckResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// UserDTO mirrors the server user representation
type UserDTO struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ChangePasswordRequest is the body of PUT /auth/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordRequest is the body of DELETE /auth/account
type PasswordRequest struct {
	Password string `json:"password"`
}

// ErrorResponse is the server error body
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// countResponse decodes a count that arrives either as a bare number or as
// an object carrying it under "count" or "bookmarks"
type countResponse int64

func (c *countResponse) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = countResponse(n)
		return nil
	}

	var obj struct {
		Count     *int64 `json:"count"`
		Bookmarks *int64 `json:"bookmarks"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unexpected count payload %s", data)
	}
	switch {
	case obj.Count != nil:
		*c = countResponse(*obj.Count)
	case obj.Bookmarks != nil:
		*c = countResponse(*obj.Bookmarks)
	default:
		*c = 0
	}
	return nil
}
