package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct{ authed atomic.Bool }

func (f *fakeAuth) IsAuthenticated() bool { return f.authed.Load() }

func authed(v bool) *fakeAuth {
	a := &fakeAuth{}
	a.authed.Store(v)
	return a
}

// fakeArticles serves a fixed corpus of articles with newest (highest id) first
type fakeArticles struct {
	mu         sync.Mutex
	total      int
	titles     map[int64]string
	searches   []string
	batchCalls int
	batchErr   error
	bookmarked map[int64]bool
	adds       int
	removes    int
	toggleErr  error
	delay      time.Duration
}

func newFakeArticles(total int) *fakeArticles {
	return &fakeArticles{total: total, bookmarked: map[int64]bool{}}
}

func (f *fakeArticles) article(id int64) domain.Article {
	title := fmt.Sprintf("article %d", id)
	if t, ok := f.titles[id]; ok {
		title = t
	}
	return domain.Article{ID: id, Title: title}
}

func (f *fakeArticles) page(items []domain.Article, page, size int) domain.Page[domain.Article] {
	start := min(page*size, len(items))
	end := min(start+size, len(items))
	return domain.Page[domain.Article]{
		Content:       items[start:end],
		TotalPages:    (len(items) + size - 1) / size,
		TotalElements: len(items),
	}
}

func (f *fakeArticles) Fetch(ctx context.Context, page, size int) (domain.Page[domain.Article], error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.Page[domain.Article]{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Article, 0, f.total)
	for id := f.total; id >= 1; id-- {
		items = append(items, f.article(int64(id)))
	}
	return f.page(items, page, size), nil
}

func (f *fakeArticles) Search(ctx context.Context, keyword string, page, size int) (domain.Page[domain.Article], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, keyword)
	var items []domain.Article
	for id := f.total; id >= 1; id-- {
		if a := f.article(int64(id)); a.Title == keyword {
			items = append(items, a)
		}
	}
	return f.page(items, page, size), nil
}

func (f *fakeArticles) Check(ctx context.Context, kind domain.BookmarkType, ids []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = f.bookmarked[id]
	}
	return out, nil
}

func (f *fakeArticles) AddBookmark(ctx context.Context, key domain.BookmarkKey) (*domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds++
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}
	f.bookmarked[key.ID] = true
	return &domain.Bookmark{Type: key.Type, ArticleID: key.ID}, nil
}

func (f *fakeArticles) RemoveBookmark(ctx context.Context, key domain.BookmarkKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	if f.toggleErr != nil {
		return f.toggleErr
	}
	delete(f.bookmarked, key.ID)
	return nil
}

func newArticleController(f *fakeArticles, auth authState) *Controller[domain.Article] {
	return NewController(Source[domain.Article]{
		Kind:           domain.BookmarkTypeArticle,
		FetchPage:      f.Fetch,
		SearchPage:     f.Search,
		CheckBookmarks: f.Check,
	}, f, auth, nil)
}

func TestLoadPageScenario42(t *testing.T) {
	f := newFakeArticles(42)
	c := newArticleController(f, authed(false))
	defer c.Close()
	ctx := context.Background()

	s, err := c.LoadPage(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, s.TotalPages)
	assert.Equal(t, 42, s.TotalElements)
	assert.Len(t, s.Content, 10)
	assert.Equal(t, int64(42), s.Content[0].ID)

	s, err = c.LoadPage(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, s.Content, 2)

	s, err = c.LoadPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.Window().Pages)
}

func TestLoadPageIsIdempotent(t *testing.T) {
	f := newFakeArticles(15)
	f.bookmarked[14] = true
	c := newArticleController(f, authed(true))
	defer c.Close()

	first, err := c.LoadPage(context.Background(), 0)
	require.NoError(t, err)
	second, err := c.LoadPage(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, second.IsBookmarked(14))
}

func TestLoadPageBookmarkDecoration(t *testing.T) {
	t.Run("one batch call per authenticated load", func(t *testing.T) {
		f := newFakeArticles(12)
		f.bookmarked[12] = true
		f.bookmarked[3] = true
		f.bookmarked[2] = true
		c := newArticleController(f, authed(true))
		defer c.Close()

		// Newest first: page 0 holds ids 12 down to 3
		s, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, f.batchCalls)
		assert.True(t, s.IsBookmarked(12))
		assert.True(t, s.IsBookmarked(3))
		assert.False(t, s.IsBookmarked(2), "not on this page")
		assert.Len(t, s.Bookmarked, 10)
	})

	t.Run("unauthenticated skips the lookup", func(t *testing.T) {
		f := newFakeArticles(12)
		c := newArticleController(f, authed(false))
		defer c.Close()

		s, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)
		assert.Zero(t, f.batchCalls)
		assert.Empty(t, s.Bookmarked)
	})

	t.Run("empty page skips the lookup", func(t *testing.T) {
		f := newFakeArticles(0)
		c := newArticleController(f, authed(true))
		defer c.Close()

		s, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)
		assert.Zero(t, f.batchCalls)
		assert.True(t, s.IsEmpty())
	})

	t.Run("lookup failure degrades to unbookmarked", func(t *testing.T) {
		f := newFakeArticles(12)
		f.bookmarked[12] = true
		f.batchErr = errors.New("boom")
		c := newArticleController(f, authed(true))
		defer c.Close()

		s, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, s.Content, 10)
		for _, item := range s.Content {
			assert.False(t, s.IsBookmarked(item.ID))
		}
		assert.NoError(t, s.Err)
	})
}

func TestLoadPageFailureKeepsStaleContent(t *testing.T) {
	f := newFakeArticles(30)
	fail := false
	fetchErr := errors.New("offline")
	c := NewController(Source[domain.Article]{
		Kind: domain.BookmarkTypeArticle,
		FetchPage: func(ctx context.Context, page, size int) (domain.Page[domain.Article], error) {
			if fail {
				return domain.Page[domain.Article]{}, fetchErr
			}
			return f.Fetch(ctx, page, size)
		},
	}, f, authed(false), nil)
	defer c.Close()

	before, err := c.LoadPage(context.Background(), 0)
	require.NoError(t, err)

	fail = true
	after, err := c.LoadPage(context.Background(), 1)
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, before.Content, after.Content)
	assert.True(t, after.Stale)
	assert.False(t, after.Loading)
	assert.ErrorIs(t, after.Err, fetchErr)
	assert.False(t, after.IsEmpty())
}

func TestLoadPageSupersedesEarlierLoad(t *testing.T) {
	f := newFakeArticles(30)
	slow := make(chan struct{})
	c := NewController(Source[domain.Article]{
		Kind: domain.BookmarkTypeArticle,
		FetchPage: func(ctx context.Context, page, size int) (domain.Page[domain.Article], error) {
			if page == 0 {
				close(slow)
				<-ctx.Done()
				return domain.Page[domain.Article]{}, ctx.Err()
			}
			return f.Fetch(ctx, page, size)
		},
	}, f, authed(false), nil)
	defer c.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := c.LoadPage(context.Background(), 0)
		errCh <- err
	}()
	<-slow

	s, err := c.LoadPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Page)

	assert.ErrorIs(t, <-errCh, domain.ErrSuperseded)
	final := c.Snapshot()
	assert.Equal(t, 2, final.Page)
	assert.Equal(t, int64(10), final.Content[0].ID)
	assert.False(t, final.Stale)
}

func TestCloseCancelsInFlightLoad(t *testing.T) {
	f := newFakeArticles(30)
	f.delay = time.Minute
	c := newArticleController(f, authed(false))

	done := make(chan error, 1)
	go func() {
		_, err := c.LoadPage(context.Background(), 0)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	c.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("load was not cancelled")
	}
}

func TestSearchStateRoundTrip(t *testing.T) {
	f := newFakeArticles(30)
	c := newArticleController(f, authed(false))
	defer c.Close()
	ctx := context.Background()

	_, err := c.LoadPage(ctx, 2)
	require.NoError(t, err)

	assert.True(t, c.SubmitSearch("  gpt "))
	s := c.Snapshot()
	assert.Equal(t, SearchState{RawInput: "  gpt ", Keyword: "gpt", Active: true}, s.Search)
	assert.Equal(t, 0, s.Page)

	_, err = c.LoadPage(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt"}, f.searches)

	assert.True(t, c.ClearSearch())
	s = c.Snapshot()
	assert.Equal(t, SearchState{}, s.Search)
	assert.Equal(t, 0, s.Page)
}

func TestSubmitBlankSearchIsIgnored(t *testing.T) {
	c := newArticleController(newFakeArticles(5), authed(false))
	defer c.Close()

	assert.False(t, c.SubmitSearch("   "))
	assert.False(t, c.Snapshot().Search.Active)
}

func TestSearchWithNoMatchesIsEmptyNotError(t *testing.T) {
	f := newFakeArticles(30)
	c := newArticleController(f, authed(true))
	defer c.Close()

	require.True(t, c.SubmitSearch("AI"))
	s, err := c.LoadPage(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, s.TotalElements)
	assert.Empty(t, s.Content)
	assert.True(t, s.IsEmpty())
	assert.NoError(t, s.Err)
	assert.Zero(t, f.batchCalls)
}

func TestToggleBookmark(t *testing.T) {
	t.Run("unauthenticated makes no call", func(t *testing.T) {
		f := newFakeArticles(10)
		c := newArticleController(f, authed(false))
		defer c.Close()
		_, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)

		_, err = c.ToggleBookmark(context.Background(), 7)
		assert.ErrorIs(t, err, domain.ErrLoginRequired)
		assert.Zero(t, f.adds+f.removes)
		assert.False(t, c.Snapshot().IsBookmarked(7))
	})

	t.Run("flips after confirmation", func(t *testing.T) {
		f := newFakeArticles(10)
		c := newArticleController(f, authed(true))
		defer c.Close()
		_, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)

		on, err := c.ToggleBookmark(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, on)
		assert.True(t, c.Snapshot().IsBookmarked(7))

		on, err = c.ToggleBookmark(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, on)
		assert.Equal(t, 1, f.adds)
		assert.Equal(t, 1, f.removes)
	})

	t.Run("failure leaves status unchanged", func(t *testing.T) {
		f := newFakeArticles(10)
		c := newArticleController(f, authed(true))
		defer c.Close()
		_, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)

		f.toggleErr = errors.New("nope")
		_, err = c.ToggleBookmark(context.Background(), 7)
		assert.Error(t, err)
		assert.False(t, c.Snapshot().IsBookmarked(7))
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFakeArticles(10)
		c := newArticleController(f, authed(true))
		defer c.Close()

		_, err := c.ToggleBookmark(context.Background(), 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("concurrent toggles of one item are serialized", func(t *testing.T) {
		f := newFakeArticles(10)
		c := newArticleController(f, authed(true))
		defer c.Close()
		_, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.ToggleBookmark(context.Background(), 5)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// Alternating add/remove; an even number of toggles ends unbookmarked
		assert.Equal(t, 2, f.adds)
		assert.Equal(t, 2, f.removes)
		assert.False(t, c.Snapshot().IsBookmarked(5))
		assert.False(t, f.bookmarked[5])
	})

	t.Run("finished toggles leave no locks behind", func(t *testing.T) {
		f := newFakeArticles(10)
		c := newArticleController(f, authed(true))
		defer c.Close()
		_, err := c.LoadPage(context.Background(), 0)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for id := int64(1); id <= 10; id++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.ToggleBookmark(context.Background(), id)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		f.toggleErr = errors.New("nope")
		_, err = c.ToggleBookmark(context.Background(), 3)
		assert.Error(t, err)

		c.mu.Lock()
		defer c.mu.Unlock()
		assert.Empty(t, c.toggles)
	})
}

type fakeBookmarks struct {
	mu    sync.Mutex
	items []domain.Bookmark
}

func (f *fakeBookmarks) Fetch(ctx context.Context, page, size int) (domain.Page[domain.Bookmark], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	start := min(page*size, len(f.items))
	end := min(start+size, len(f.items))
	return domain.Page[domain.Bookmark]{
		Content:       append([]domain.Bookmark(nil), f.items[start:end]...),
		TotalPages:    (len(f.items) + size - 1) / size,
		TotalElements: len(f.items),
	}, nil
}

func (f *fakeBookmarks) AddBookmark(ctx context.Context, key domain.BookmarkKey) (*domain.Bookmark, error) {
	return nil, errors.New("not supported")
}

func (f *fakeBookmarks) RemoveBookmark(ctx context.Context, key domain.BookmarkKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.items {
		if b.BookmarkKey() == key {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func TestBookmarksListRemovesAndReloads(t *testing.T) {
	f := &fakeBookmarks{}
	for i := 1; i <= 11; i++ {
		f.items = append(f.items, domain.Bookmark{ID: int64(100 + i), Type: domain.BookmarkTypeArticle, ArticleID: int64(i)})
	}
	c := NewController(Source[domain.Bookmark]{
		Kind:              domain.BookmarkTypeArticle,
		FetchPage:         f.Fetch,
		AllBookmarked:     true,
		ReloadAfterToggle: true,
	}, f, authed(true), nil)
	defer c.Close()

	s, err := c.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, s.Content, 1)
	assert.True(t, s.IsBookmarked(111))

	on, err := c.ToggleBookmark(context.Background(), 111)
	require.NoError(t, err)
	assert.False(t, on)

	s = c.Snapshot()
	assert.Equal(t, 0, s.Page, "steps back from an emptied trailing page")
	assert.Len(t, s.Content, 10)
	assert.Equal(t, 10, s.TotalElements)
}
