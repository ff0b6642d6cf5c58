package domain

import (
	"fmt"
	"strconv"
)

// BookmarkType distinguishes what a bookmark points at
type BookmarkType string

const (
	BookmarkTypeArticle BookmarkType = "ARTICLE"
	BookmarkTypeSummary BookmarkType = "AI_SUMMARY"
)

// String returns a human-readable representation of the bookmark type
func (t BookmarkType) String() string {
	switch t {
	case BookmarkTypeArticle:
		return "Article"
	case BookmarkTypeSummary:
		return "AI Summary"
	default:
		return "Unknown"
	}
}

// BookmarkKey identifies the target of a bookmark
type BookmarkKey struct {
	Type BookmarkType
	ID   int64
}

func (k BookmarkKey) String() string {
	return fmt.Sprintf("%s:%d", k.Type, k.ID)
}

// SummaryStatus is the publication state of an AI summary
type SummaryStatus string

const (
	SummaryStatusDraft     SummaryStatus = "DRAFT"
	SummaryStatusPublished SummaryStatus = "PUBLISHED"
)

// Page is the paginated envelope returned by every list endpoint.
// Content order is server-determined (newest first) and must be preserved.
type Page[T any] struct {
	Content       []T
	TotalPages    int
	TotalElements int
}

// IsEmpty reports whether the page carries no items at all
func (p Page[T]) IsEmpty() bool {
	return p.TotalElements == 0 || len(p.Content) == 0
}

// Article is a crawled news article
type Article struct {
	ID           int64     // Server-assigned identifier
	Title        string    // Headline
	Description  string    // Summary text (may contain markup)
	URL          string    // Original article URL
	SourceName   string    // Publisher name
	SourceType   string    // OFFICIAL, PROFESSIONAL, GENERAL
	Category     string    // Category tag
	ThumbnailURL string    // Thumbnail image URL
	PublishedAt  Timestamp // Publication time at the source
	CrawledAt    Timestamp // Time the crawler picked it up
}

// Summary is a periodically generated AI digest of recent articles
type Summary struct {
	ID                   int64
	Title                string
	Content              string // Markdown body
	KeyHighlights        string // Newline separated bullet list
	RelatedArticlesCount int
	Status               SummaryStatus
	GeneratedAt          Timestamp
	CreatedAt            Timestamp
	PeriodStart          Timestamp
	PeriodEnd            Timestamp
}

// Bookmark is a saved reference to an article or a summary
type Bookmark struct {
	ID        int64
	Type      BookmarkType
	ArticleID int64
	SummaryID int64
	Article   *Article // Populated for ARTICLE bookmarks
	Summary   *Summary // Populated for AI_SUMMARY bookmarks
	CreatedAt Timestamp
}

// TargetID returns the id of the bookmarked article or summary
func (b Bookmark) TargetID() int64 {
	if b.Type == BookmarkTypeSummary {
		return b.SummaryID
	}
	return b.ArticleID
}

// Title returns the title of the bookmarked item
func (b Bookmark) Title() string {
	switch {
	case b.Type == BookmarkTypeArticle && b.Article != nil:
		return b.Article.Title
	case b.Type == BookmarkTypeSummary && b.Summary != nil:
		return b.Summary.Title
	default:
		return fmt.Sprintf("%s #%d", b.Type, b.TargetID())
	}
}

// User is the authenticated account
type User struct {
	ID       int64
	Email    string
	Username string
}

// DisplayName returns the username, falling back to the email
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// AuthResult contains the result of a login or registration
type AuthResult struct {
	Token string // Bearer token; empty when registration does not log in
	User  User
}

// Stats holds the dashboard counters
type Stats struct {
	Today     int64
	Total     int64
	Bookmarks int64
}

// Listable implementation for Article

func (a Article) GetID() int64            { return a.ID }
func (a Article) GetTitle() string        { return a.Title }
func (a Article) GetDescription() string  { return a.Description }
func (a Article) GetTag() string          { return a.Category }
func (a Article) GetTimestamp() Timestamp { return a.CrawledAt }
func (a Article) BookmarkKey() BookmarkKey {
	return BookmarkKey{Type: BookmarkTypeArticle, ID: a.ID}
}

// Listable implementation for Summary

func (s Summary) GetID() int64           { return s.ID }
func (s Summary) GetTitle() string       { return s.Title }
func (s Summary) GetDescription() string { return s.KeyHighlights }
func (s Summary) GetTag() string {
	if s.RelatedArticlesCount == 1 {
		return "1 article"
	}
	return strconv.Itoa(s.RelatedArticlesCount) + " articles"
}
func (s Summary) GetTimestamp() Timestamp { return s.CreatedAt }
func (s Summary) BookmarkKey() BookmarkKey {
	return BookmarkKey{Type: BookmarkTypeSummary, ID: s.ID}
}

// Listable implementation for Bookmark

func (b Bookmark) GetID() int64     { return b.ID }
func (b Bookmark) GetTitle() string { return b.Title() }
func (b Bookmark) GetDescription() string {
	switch {
	case b.Article != nil:
		return b.Article.Description
	case b.Summary != nil:
		return b.Summary.KeyHighlights
	default:
		return ""
	}
}
func (b Bookmark) GetTag() string          { return b.Type.String() }
func (b Bookmark) GetTimestamp() Timestamp { return b.CreatedAt }
func (b Bookmark) BookmarkKey() BookmarkKey {
	return BookmarkKey{Type: b.Type, ID: b.TargetID()}
}
