package newsdesk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/newsdesk/internal/domain"
)

func pageQuery(page, size int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	return query
}

func (c *Client) getArticlePage(ctx context.Context, path string, query url.Values) (domain.Page[domain.Article], error) {
	var resp PageResponse[ArticleDTO]
	if err := c.getJSON(ctx, path, query, &resp); err != nil {
		return domain.Page[domain.Article]{}, err
	}
	return mapPage(resp, MapArticle), nil
}

// GetArticles returns a page of articles, newest first
func (c *Client) GetArticles(ctx context.Context, page, size int) (domain.Page[domain.Article], error) {
	return c.getArticlePage(ctx, "/articles", pageQuery(page, size))
}

// SearchArticles returns a page of articles matching query.
// The keyword is sent as both "query" and "keyword"; servers read one or the other.
func (c *Client) SearchArticles(ctx context.Context, query string, page, size int) (domain.Page[domain.Article], error) {
	q := pageQuery(page, size)
	q.Set("query", query)
	q.Set("keyword", query)
	return c.getArticlePage(ctx, "/articles/search", q)
}

// GetArticlesBySource returns a page of articles for one source type
func (c *Client) GetArticlesBySource(ctx context.Context, sourceType string, page, size int) (domain.Page[domain.Article], error) {
	return c.getArticlePage(ctx, "/articles/source/"+url.PathEscape(sourceType), pageQuery(page, size))
}

// GetArticlesByCategory returns a page of articles in one category
func (c *Client) GetArticlesByCategory(ctx context.Context, category string, page, size int) (domain.Page[domain.Article], error) {
	return c.getArticlePage(ctx, "/articles/category/"+url.PathEscape(category), pageQuery(page, size))
}

// GetArticle returns a single article
func (c *Client) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	var dto ArticleDTO
	if err := c.getJSON(ctx, fmt.Sprintf("/articles/%d", id), nil, &dto); err != nil {
		return nil, err
	}
	article := MapArticle(dto)
	return &article, nil
}

// CountArticlesToday returns the number of articles crawled today
func (c *Client) CountArticlesToday(ctx context.Context) (int64, error) {
	var count countResponse
	if err := c.getJSON(ctx, "/articles/count/today", nil, &count); err != nil {
		return 0, err
	}
	return int64(count), nil
}

// CountArticlesTotal returns the total number of articles
func (c *Client) CountArticlesTotal(ctx context.Context) (int64, error) {
	var count countResponse
	if err := c.getJSON(ctx, "/articles/count/total", nil, &count); err != nil {
		return 0, err
	}
	return int64(count), nil
}
