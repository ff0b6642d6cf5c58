package service

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// PageSize is the fixed number of items per list page
const PageSize = 10

// authState reports whether requests carry a validated session
type authState interface {
	IsAuthenticated() bool
}

// Bookmarker adds and removes bookmarks
type Bookmarker interface {
	AddBookmark(ctx context.Context, key domain.BookmarkKey) (*domain.Bookmark, error)
	RemoveBookmark(ctx context.Context, key domain.BookmarkKey) error
}

// Source is the capability set a list controller is built from.
// Optional capabilities are nil when a list does not support them.
type Source[T domain.Listable] struct {
	// Kind is the bookmark type of the listed items
	Kind domain.BookmarkType

	// FetchPage loads a plain listing page
	FetchPage func(ctx context.Context, page, size int) (domain.Page[T], error)

	// SearchPage loads a page of keyword results (optional)
	SearchPage func(ctx context.Context, keyword string, page, size int) (domain.Page[T], error)

	// CheckBookmarks resolves bookmark status for a page in one call (optional)
	CheckBookmarks func(ctx context.Context, kind domain.BookmarkType, ids []int64) (map[int64]bool, error)

	// AllBookmarked marks every listed item as bookmarked without asking the server
	AllBookmarked bool

	// ReloadAfterToggle reloads the current page after a toggle succeeds
	ReloadAfterToggle bool
}

// SearchState is the keyword search state of a list
type SearchState struct {
	RawInput string // What is typed in the search box
	Keyword  string // Committed, trimmed keyword
	Active   bool   // True only after a submit with non-empty input
}

// ListState is a consistent copy of a list controller's render state
type ListState[T domain.Listable] struct {
	Page          int
	Content       []T
	TotalPages    int
	TotalElements int
	Bookmarked    map[int64]bool // Keyed by item id; only covers Content
	Loading       bool
	Loaded        bool  // At least one load has succeeded
	Stale         bool  // Content is from an earlier load; the latest one failed
	Err           error // Error of the latest load
	Search        SearchState
}

// IsEmpty reports whether a completed load returned no items
func (s ListState[T]) IsEmpty() bool {
	return s.Loaded && !s.Stale && s.TotalElements == 0
}

// Window returns the pagination controls for the current state
func (s ListState[T]) Window() PageWindow {
	return Window(s.Page, s.TotalPages)
}

// IsBookmarked reports the bookmark status of an item; absent means false
func (s ListState[T]) IsBookmarked(id int64) bool {
	return s.Bookmarked[id]
}

// Controller owns the paged, searchable, bookmark-decorated state of one list.
// Every load supersedes the previous one: its context is cancelled and its
// response discarded.
type Controller[T domain.Listable] struct {
	src       Source[T]
	bookmarks Bookmarker
	auth      authState
	logger    *slog.Logger

	life     context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	generation uint64
	cancelLoad context.CancelFunc
	state      ListState[T]

	// toggles serializes bookmark toggles per target. Entries go away once
	// no toggle holds or waits for them.
	toggles map[domain.BookmarkKey]*toggleLock
}

// toggleLock is a per-target mutex counted by its holder and waiters
type toggleLock struct {
	sync.Mutex
	users int
}

// NewController creates a list controller
func NewController[T domain.Listable](src Source[T], bookmarks Bookmarker, auth authState, logger *slog.Logger) *Controller[T] {
	if logger == nil {
		logger = slog.Default()
	}
	life, shutdown := context.WithCancel(context.Background())
	return &Controller[T]{
		src:       src,
		bookmarks: bookmarks,
		auth:      auth,
		logger:    logger.With("list", string(src.Kind)),
		life:      life,
		shutdown:  shutdown,
		state:     ListState[T]{Bookmarked: map[int64]bool{}},
		toggles:   make(map[domain.BookmarkKey]*toggleLock),
	}
}

// Close cancels all in-flight work. Later loads fail with context.Canceled.
func (c *Controller[T]) Close() {
	c.shutdown()
}

// Snapshot returns a copy of the current state
func (c *Controller[T]) Snapshot() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() ListState[T] {
	s := c.state
	s.Content = slices.Clone(c.state.Content)
	s.Bookmarked = maps.Clone(c.state.Bookmarked)
	return s
}

// LoadPage fetches page and its bookmark decoration, then swaps them in at once.
// A failed bookmark lookup leaves every item unbookmarked rather than failing
// the load. A failed fetch keeps the previous content and marks it stale.
// A load overtaken by a newer one returns domain.ErrSuperseded.
func (c *Controller[T]) LoadPage(ctx context.Context, page int) (ListState[T], error) {
	if page < 0 {
		page = 0
	}

	c.mu.Lock()
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(ctx)
	c.cancelLoad = cancel
	c.state.Page = page
	c.state.Loading = true
	search := c.state.Search
	c.mu.Unlock()

	defer cancel()
	stop := context.AfterFunc(c.life, cancel)
	defer stop()

	result, err := c.fetch(ctx, search, page)
	if err != nil {
		return c.finishFailed(gen, err)
	}

	bookmarked := c.decorate(ctx, result.Content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.snapshotLocked(), domain.ErrSuperseded
	}
	c.state.Content = result.Content
	c.state.TotalPages = result.TotalPages
	c.state.TotalElements = result.TotalElements
	c.state.Bookmarked = bookmarked
	c.state.Loading = false
	c.state.Loaded = true
	c.state.Stale = false
	c.state.Err = nil
	return c.snapshotLocked(), nil
}

func (c *Controller[T]) fetch(ctx context.Context, search SearchState, page int) (domain.Page[T], error) {
	if search.Active && search.Keyword != "" && c.src.SearchPage != nil {
		return c.src.SearchPage(ctx, search.Keyword, page, PageSize)
	}
	return c.src.FetchPage(ctx, page, PageSize)
}

// decorate builds the bookmark map for freshly loaded content
func (c *Controller[T]) decorate(ctx context.Context, content []T) map[int64]bool {
	bookmarked := make(map[int64]bool, len(content))
	if len(content) == 0 || !c.auth.IsAuthenticated() {
		return bookmarked
	}

	if c.src.AllBookmarked {
		for _, item := range content {
			bookmarked[item.GetID()] = true
		}
		return bookmarked
	}

	if c.src.CheckBookmarks == nil {
		return bookmarked
	}

	ids := make([]int64, len(content))
	for i, item := range content {
		ids[i] = item.GetID()
	}
	status, err := c.src.CheckBookmarks(ctx, c.src.Kind, ids)
	if err != nil {
		c.logger.Warn("bookmark lookup failed, showing items as unbookmarked", "error", err)
		return bookmarked
	}
	for _, id := range ids {
		bookmarked[id] = status[id]
	}
	return bookmarked
}

func (c *Controller[T]) finishFailed(gen uint64, err error) (ListState[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.snapshotLocked(), domain.ErrSuperseded
	}
	c.state.Loading = false
	c.state.Stale = c.state.Loaded
	c.state.Err = err
	if !errors.Is(err, context.Canceled) {
		c.logger.Error("failed to load page", "page", c.state.Page, "error", err)
	}
	return c.snapshotLocked(), err
}

// SetInput records the search box contents without committing them
func (c *Controller[T]) SetInput(raw string) {
	c.mu.Lock()
	c.state.Search.RawInput = raw
	c.mu.Unlock()
}

// SubmitSearch commits raw as the search keyword and resets to page 0.
// Blank input is ignored. Returns true when the caller should load page 0.
func (c *Controller[T]) SubmitSearch(raw string) bool {
	keyword := strings.TrimSpace(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Search.RawInput = raw
	if keyword == "" {
		return false
	}
	c.state.Search.Keyword = keyword
	c.state.Search.Active = true
	c.state.Page = 0
	return true
}

// ClearSearch resets the search state and the page index.
// Returns true when the caller should load page 0.
func (c *Controller[T]) ClearSearch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.state.Search.Active || c.state.Page != 0
	c.state.Search = SearchState{}
	c.state.Page = 0
	return changed
}

// releaseToggle unlocks a per-target lock and forgets it when unused
func (c *Controller[T]) releaseToggle(key domain.BookmarkKey, lock *toggleLock) {
	lock.Unlock()
	c.mu.Lock()
	lock.users--
	if lock.users == 0 {
		delete(c.toggles, key)
	}
	c.mu.Unlock()
}

// ToggleBookmark adds or removes the bookmark of a loaded item and returns
// its new status. The local status flips only once the server confirms.
// Toggles of the same target run one at a time.
func (c *Controller[T]) ToggleBookmark(ctx context.Context, itemID int64) (bool, error) {
	if !c.auth.IsAuthenticated() {
		return false, domain.ErrLoginRequired
	}

	c.mu.Lock()
	idx := slices.IndexFunc(c.state.Content, func(item T) bool { return item.GetID() == itemID })
	if idx < 0 {
		c.mu.Unlock()
		return false, domain.ErrNotFound
	}
	key := c.state.Content[idx].BookmarkKey()
	lock, ok := c.toggles[key]
	if !ok {
		lock = &toggleLock{}
		c.toggles[key] = lock
	}
	lock.users++
	c.mu.Unlock()

	lock.Lock()
	defer c.releaseToggle(key, lock)

	// Read after acquiring the per-target lock so a queued toggle sees the
	// outcome of the one before it
	c.mu.Lock()
	current := c.state.Bookmarked[itemID]
	c.mu.Unlock()

	var err error
	if current {
		err = c.bookmarks.RemoveBookmark(ctx, key)
	} else {
		_, err = c.bookmarks.AddBookmark(ctx, key)
	}
	if err != nil {
		c.logger.Error("failed to toggle bookmark", "target", key.String(), "error", err)
		return current, err
	}

	c.mu.Lock()
	if slices.ContainsFunc(c.state.Content, func(item T) bool { return item.GetID() == itemID }) {
		c.state.Bookmarked[itemID] = !current
	}
	page := c.state.Page
	remaining := len(c.state.Content)
	c.mu.Unlock()

	if c.src.ReloadAfterToggle {
		// Step back when the last item of a trailing page was removed
		if current && remaining == 1 && page > 0 {
			page--
		}
		if _, err := c.LoadPage(ctx, page); err != nil && !errors.Is(err, domain.ErrSuperseded) {
			return !current, err
		}
	}
	return !current, nil
}
