package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	today, total, bookmarks          int64
	todayErr, totalErr, bookmarksErr error
	bookmarkCalls                    int
}

func (f *fakeStats) CountArticlesToday(ctx context.Context) (int64, error) {
	return f.today, f.todayErr
}

func (f *fakeStats) CountArticlesTotal(ctx context.Context) (int64, error) {
	return f.total, f.totalErr
}

func (f *fakeStats) CountBookmarks(ctx context.Context) (int64, error) {
	f.bookmarkCalls++
	return f.bookmarks, f.bookmarksErr
}

func TestStats(t *testing.T) {
	t.Run("authenticated includes bookmarks", func(t *testing.T) {
		repo := &fakeStats{today: 3, total: 120, bookmarks: 7}
		stats, err := NewStatsService(repo, authed(true), nil).Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Stats{Today: 3, Total: 120, Bookmarks: 7}, stats)
	})

	t.Run("anonymous skips bookmarks", func(t *testing.T) {
		repo := &fakeStats{today: 3, total: 120, bookmarks: 7}
		stats, err := NewStatsService(repo, authed(false), nil).Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.Bookmarks)
		assert.Zero(t, repo.bookmarkCalls)
	})

	t.Run("bookmark failure degrades to zero", func(t *testing.T) {
		repo := &fakeStats{today: 3, total: 120, bookmarksErr: errors.New("boom")}
		stats, err := NewStatsService(repo, authed(true), nil).Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(120), stats.Total)
		assert.Zero(t, stats.Bookmarks)
	})

	t.Run("article count failure fails", func(t *testing.T) {
		repo := &fakeStats{totalErr: domain.ErrServerOffline}
		_, err := NewStatsService(repo, authed(true), nil).Stats(context.Background())
		assert.ErrorIs(t, err, domain.ErrServerOffline)
	})
}

type fakeSummaries struct {
	items     []domain.Summary
	lastQuery domain.SummaryQuery
}

func (f *fakeSummaries) GetSummaries(ctx context.Context, q domain.SummaryQuery) (domain.Page[domain.Summary], error) {
	f.lastQuery = q
	n := min(q.Size, len(f.items))
	return domain.Page[domain.Summary]{Content: f.items[:n], TotalElements: len(f.items), TotalPages: 1}, nil
}

func (f *fakeSummaries) GetSummary(ctx context.Context, id int64) (*domain.Summary, error) {
	for _, s := range f.items {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeChecker struct {
	*fakeArticles
	checkErr error
}

func (f *fakeChecker) CheckBookmark(ctx context.Context, key domain.BookmarkKey) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.bookmarked[key.ID], nil
}

func TestNewsServiceLatestSummary(t *testing.T) {
	summaries := &fakeSummaries{}
	svc := NewNewsService(nil, summaries, nil, authed(false), nil)

	latest, err := svc.LatestSummary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)

	summaries.items = []domain.Summary{{ID: 9}, {ID: 8}}
	latest, err = svc.LatestSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), latest.ID)
	assert.Equal(t, domain.SummaryQuery{Page: 0, Size: 1, Sort: "createdAt,desc"}, summaries.lastQuery)
}

func TestNewsServiceBookmarks(t *testing.T) {
	key := domain.BookmarkKey{Type: domain.BookmarkTypeArticle, ID: 4}

	t.Run("anonymous", func(t *testing.T) {
		checker := &fakeChecker{fakeArticles: newFakeArticles(0)}
		svc := NewNewsService(nil, nil, checker, authed(false), nil)
		assert.False(t, svc.IsBookmarked(context.Background(), key))

		_, err := svc.Toggle(context.Background(), key, false)
		assert.ErrorIs(t, err, domain.ErrLoginRequired)
		assert.Zero(t, checker.adds)
	})

	t.Run("toggle round trip", func(t *testing.T) {
		checker := &fakeChecker{fakeArticles: newFakeArticles(0)}
		svc := NewNewsService(nil, nil, checker, authed(true), nil)

		on, err := svc.Toggle(context.Background(), key, false)
		require.NoError(t, err)
		assert.True(t, on)
		assert.True(t, svc.IsBookmarked(context.Background(), key))

		on, err = svc.Toggle(context.Background(), key, true)
		require.NoError(t, err)
		assert.False(t, on)
	})

	t.Run("failed check reads as not bookmarked", func(t *testing.T) {
		checker := &fakeChecker{fakeArticles: newFakeArticles(0), checkErr: errors.New("boom")}
		checker.bookmarked[4] = true
		svc := NewNewsService(nil, nil, checker, authed(true), nil)
		assert.False(t, svc.IsBookmarked(context.Background(), key))
	})
}

func TestFetchAll(t *testing.T) {
	f := newFakeArticles(23)

	var progress []int
	all, err := FetchAll(context.Background(), f.Fetch, 10, func(loaded, total int) {
		assert.Equal(t, 23, total)
		progress = append(progress, loaded)
	})
	require.NoError(t, err)
	assert.Len(t, all, 23)
	assert.Equal(t, int64(23), all[0].ID)
	assert.Equal(t, int64(1), all[22].ID)
	assert.Equal(t, []int{10, 20, 23}, progress)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FetchAll(ctx, f.Fetch, 10, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
