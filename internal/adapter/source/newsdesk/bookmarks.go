package newsdesk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// bookmarkQuery shapes the target parameters; only the id for the key's type is sent
func bookmarkQuery(key domain.BookmarkKey) url.Values {
	query := url.Values{}
	query.Set("bookmarkType", string(key.Type))
	switch key.Type {
	case domain.BookmarkTypeArticle:
		query.Set("articleId", strconv.FormatInt(key.ID, 10))
	case domain.BookmarkTypeSummary:
		query.Set("aiSummaryId", strconv.FormatInt(key.ID, 10))
	}
	return query
}

// GetBookmarks returns a page of the user's bookmarks
func (c *Client) GetBookmarks(ctx context.Context, page, size int) (domain.Page[domain.Bookmark], error) {
	var resp PageResponse[BookmarkDTO]
	if err := c.getJSON(ctx, "/bookmarks", pageQuery(page, size), &resp); err != nil {
		return domain.Page[domain.Bookmark]{}, err
	}
	return mapPage(resp, MapBookmark), nil
}

// AddBookmark bookmarks an article or summary
func (c *Client) AddBookmark(ctx context.Context, key domain.BookmarkKey) (*domain.Bookmark, error) {
	req := BookmarkRequest{BookmarkType: string(key.Type)}
	id := key.ID
	switch key.Type {
	case domain.BookmarkTypeArticle:
		req.ArticleID = &id
	case domain.BookmarkTypeSummary:
		req.AISummaryID = &id
	default:
		return nil, fmt.Errorf("unknown bookmark type %q", key.Type)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/bookmarks", nil, req)
	if err != nil {
		return nil, err
	}

	if len(body) == 0 {
		bookmark := domain.Bookmark{Type: key.Type}
		if key.Type == domain.BookmarkTypeArticle {
			bookmark.ArticleID = key.ID
		} else {
			bookmark.SummaryID = key.ID
		}
		return &bookmark, nil
	}
	var dto BookmarkDTO
	if err := decode(body, &dto); err != nil {
		return nil, err
	}
	bookmark := MapBookmark(dto)
	return &bookmark, nil
}

// RemoveBookmark removes a bookmark. The server answers 204 with no body.
func (c *Client) RemoveBookmark(ctx context.Context, key domain.BookmarkKey) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/bookmarks", bookmarkQuery(key), nil)
	return err
}

// CheckBookmark reports whether a single item is bookmarked
func (c *Client) CheckBookmark(ctx context.Context, key domain.BookmarkKey) (bool, error) {
	var resp BookmarkCheckResponse
	if err := c.getJSON(ctx, "/bookmarks/check", bookmarkQuery(key), &resp); err != nil {
		return false, err
	}
	return resp.Bookmarked, nil
}

// CheckBookmarks resolves bookmark status for many ids in one request.
// An empty id list returns an empty map without contacting the server.
func (c *Client) CheckBookmarks(ctx context.Context, kind domain.BookmarkType, ids []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{}
	query.Set("bookmarkType", string(kind))
	query.Set("itemIds", strings.Join(parts, ","))

	// JSON object keys are strings; decode them back into ids
	var resp map[string]bool
	if err := c.getJSON(ctx, "/bookmarks/check/batch", query, &resp); err != nil {
		return nil, err
	}
	for k, v := range resp {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			c.logger.Warn("ignoring malformed bookmark id", "id", k)
			continue
		}
		result[id] = v
	}
	return result, nil
}

// CountBookmarks returns the number of bookmarks of the current user
func (c *Client) CountBookmarks(ctx context.Context) (int64, error) {
	var count countResponse
	if err := c.getJSON(ctx, "/bookmarks/count", nil, &count); err != nil {
		return 0, err
	}
	return int64(count), nil
}
