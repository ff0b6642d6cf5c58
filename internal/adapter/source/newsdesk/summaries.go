package newsdesk

import (
	"context"
	"fmt"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// GetSummaries returns a page of AI summaries
func (c *Client) GetSummaries(ctx context.Context, q domain.SummaryQuery) (domain.Page[domain.Summary], error) {
	query := pageQuery(q.Page, q.Size)
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}

	var resp PageResponse[SummaryDTO]
	if err := c.getJSON(ctx, "/ai-summaries", query, &resp); err != nil {
		return domain.Page[domain.Summary]{}, err
	}
	return mapPage(resp, MapSummary), nil
}

// GetSummary returns a single AI summary
func (c *Client) GetSummary(ctx context.Context, id int64) (*domain.Summary, error) {
	var dto SummaryDTO
	if err := c.getJSON(ctx, fmt.Sprintf("/ai-summaries/%d", id), nil, &dto); err != nil {
		return nil, err
	}
	summary := MapSummary(dto)
	return &summary, nil
}
