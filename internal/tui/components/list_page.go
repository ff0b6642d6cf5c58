package components

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/search"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/mmcdole/newsdesk/internal/tui/styles"
)

// Layout constants for list pages
const (
	// Each item takes a title line and a description line
	LinesPerItem = 2

	// Title, search bar, pager and the blank lines between them
	ListChromeLines = 5
)

// ListPage renders one page of a server-paginated list with a cursor,
// an optional keyword search box and a local fuzzy filter over the page.
type ListPage[T domain.Listable] struct {
	title     string
	emptyText string

	state   service.ListState[T]
	loading bool

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width  int
	height int

	// Keyword search (server side)
	searchable  bool
	searchInput textinput.Model

	// Filter state (current page only)
	filterActive bool
	filterInput  textinput.Model
	matches      []search.Match
}

// NewListPage creates a list page. Searchable pages show a keyword box.
func NewListPage[T domain.Listable](title, emptyText string, searchable bool) *ListPage[T] {
	si := textinput.New()
	si.Placeholder = "search by keyword..."
	si.Prompt = "Search: "
	si.PromptStyle = styles.FilterPromptStyle
	si.TextStyle = styles.FilterStyle
	si.PlaceholderStyle = styles.DimStyle
	si.CharLimit = 100

	fi := textinput.New()
	fi.Placeholder = "type to filter this page..."
	fi.Prompt = "f "
	fi.PromptStyle = styles.FilterPromptStyle
	fi.TextStyle = styles.FilterStyle

	return &ListPage[T]{
		title:       title,
		emptyText:   emptyText,
		searchable:  searchable,
		searchInput: si,
		filterInput: fi,
		maxVisible:  service.PageSize,
	}
}

// SetSize sets the page dimensions
func (p *ListPage[T]) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.recalcMaxVisible()
	p.ensureVisible()
}

// SetState replaces the rendered list state
func (p *ListPage[T]) SetState(state service.ListState[T]) {
	p.state = state
	p.applyFilter()
	if p.cursor >= p.ItemCount() {
		p.cursor = max(0, p.ItemCount()-1)
	}
	p.ensureVisible()
}

// State returns the rendered list state
func (p *ListPage[T]) State() service.ListState[T] {
	return p.state
}

// SetLoading marks a load as in flight
func (p *ListPage[T]) SetLoading(loading bool) {
	p.loading = loading
}

// IsLoading reports whether a load is in flight
func (p *ListPage[T]) IsLoading() bool {
	return p.loading
}

// ItemCount returns the number of visible items (after filtering)
func (p *ListPage[T]) ItemCount() int {
	if p.matches != nil {
		return len(p.matches)
	}
	return len(p.state.Content)
}

// mapIndex maps a visible row to an index into the page content
func (p *ListPage[T]) mapIndex(i int) int {
	if p.matches != nil {
		return p.matches[i].Index
	}
	return i
}

// Selected returns the item under the cursor
func (p *ListPage[T]) Selected() (T, bool) {
	var zero T
	if p.ItemCount() == 0 {
		return zero, false
	}
	return p.state.Content[p.mapIndex(p.cursor)], true
}

// Cursor returns the cursor row
func (p *ListPage[T]) Cursor() int {
	return p.cursor
}

// ResetCursor moves the cursor back to the first row
func (p *ListPage[T]) ResetCursor() {
	p.cursor = 0
	p.offset = 0
}

// Update handles cursor movement and filter typing
func (p *ListPage[T]) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)

	// Filter input takes every key while focused
	if p.IsFilterTyping() {
		if ok {
			switch {
			case key.Matches(keyMsg, ListPageKeys.Escape):
				p.ClearFilter()
				return nil
			case key.Matches(keyMsg, ListPageKeys.Enter):
				p.filterInput.Blur()
				return nil
			case keyMsg.Type == tea.KeyBackspace && p.filterInput.Value() == "":
				p.ClearFilter()
				return nil
			}
		}
		var cmd tea.Cmd
		p.filterInput, cmd = p.filterInput.Update(msg)
		p.applyFilter()
		p.cursor = 0
		p.offset = 0
		return cmd
	}

	if !ok {
		return nil
	}
	count := p.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, ListPageKeys.Down):
		if p.cursor < count-1 {
			p.cursor++
		}
	case key.Matches(keyMsg, ListPageKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(keyMsg, ListPageKeys.Top):
		p.cursor = 0
	case key.Matches(keyMsg, ListPageKeys.Bottom):
		p.cursor = count - 1
	}
	p.ensureVisible()
	return nil
}

// StartFilter opens the page filter
func (p *ListPage[T]) StartFilter() tea.Cmd {
	p.filterActive = true
	p.recalcMaxVisible()
	return p.filterInput.Focus()
}

// IsFiltering reports whether a page filter is applied
func (p *ListPage[T]) IsFiltering() bool {
	return p.filterActive
}

// IsFilterTyping reports whether the filter input has focus
func (p *ListPage[T]) IsFilterTyping() bool {
	return p.filterActive && p.filterInput.Focused()
}

// ClearFilter removes the page filter
func (p *ListPage[T]) ClearFilter() {
	p.filterActive = false
	p.filterInput.SetValue("")
	p.filterInput.Blur()
	p.matches = nil
	p.recalcMaxVisible()
	p.ensureVisible()
}

func (p *ListPage[T]) applyFilter() {
	query := strings.TrimSpace(p.filterInput.Value())
	if !p.filterActive || query == "" {
		p.matches = nil
		return
	}
	titles := make([]string, len(p.state.Content))
	for i, item := range p.state.Content {
		titles[i] = item.GetTitle()
	}
	p.matches = search.Filter(query, titles)
	if p.matches == nil {
		p.matches = []search.Match{}
	}
}

// Searchable reports whether the page has a keyword box
func (p *ListPage[T]) Searchable() bool {
	return p.searchable
}

// FocusSearch focuses the keyword box
func (p *ListPage[T]) FocusSearch() tea.Cmd {
	if !p.searchable {
		return nil
	}
	return p.searchInput.Focus()
}

// IsSearchTyping reports whether the keyword box has focus
func (p *ListPage[T]) IsSearchTyping() bool {
	return p.searchable && p.searchInput.Focused()
}

// BlurSearch removes focus from the keyword box
func (p *ListPage[T]) BlurSearch() {
	p.searchInput.Blur()
}

// SearchValue returns the keyword box contents
func (p *ListPage[T]) SearchValue() string {
	return p.searchInput.Value()
}

// ResetSearch empties the keyword box
func (p *ListPage[T]) ResetSearch() {
	p.searchInput.SetValue("")
	p.searchInput.Blur()
}

// SetSearchValue replaces the keyword box contents
func (p *ListPage[T]) SetSearchValue(v string) {
	p.searchInput.SetValue(v)
	p.searchInput.CursorEnd()
}

// UpdateSearch routes a message to the keyword box
func (p *ListPage[T]) UpdateSearch(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(msg)
	return cmd
}

func (p *ListPage[T]) recalcMaxVisible() {
	lines := p.height - ListChromeLines
	if p.filterActive {
		lines--
	}
	p.maxVisible = max(1, lines/LinesPerItem)
}

func (p *ListPage[T]) ensureVisible() {
	if p.maxVisible <= 0 {
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.maxVisible {
		p.offset = p.cursor - p.maxVisible + 1
	}
	p.offset = max(0, min(p.offset, p.ItemCount()-p.maxVisible))
}

// View renders the page. spinner is the current spinner frame.
func (p *ListPage[T]) View(spinner string, now time.Time) string {
	width := max(p.width, 20)

	var b strings.Builder
	b.WriteString(p.renderTitle())
	b.WriteString("\n")
	if p.searchable {
		b.WriteString(p.searchInput.View())
	}
	b.WriteString("\n\n")

	switch {
	case p.loading && !p.state.Loaded:
		b.WriteString(spinner + styles.DimStyle.Render(" Loading..."))
		return b.String()
	case p.state.Err != nil && !p.state.Loaded:
		b.WriteString(styles.ErrorStyle.Render(ErrorText(p.state.Err)))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Press r to retry"))
		return b.String()
	case p.state.IsEmpty():
		b.WriteString(styles.DimStyle.Render(p.emptyMessage()))
		return b.String()
	}

	if p.state.Stale {
		b.WriteString(styles.WarningStyle.Render("Showing earlier results: " + ErrorText(p.state.Err)))
		b.WriteString("\n")
	}

	count := p.ItemCount()
	if count == 0 {
		b.WriteString(styles.DimStyle.Render("No matches on this page"))
		b.WriteString("\n")
	}

	end := min(p.offset+p.maxVisible, count)
	for i := p.offset; i < end; i++ {
		idx := p.mapIndex(i)
		var positions []int
		if p.matches != nil {
			positions = p.matches[i].MatchedIndexes
		}
		b.WriteString(p.renderItem(p.state.Content[idx], positions, i == p.cursor, width, now))
		b.WriteString("\n")
	}

	if p.filterActive {
		b.WriteString(p.renderFilterBar())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderPager(spinner))
	return b.String()
}

func (p *ListPage[T]) renderTitle() string {
	title := styles.TitleStyle.Render(p.title)
	if p.state.Search.Active {
		title += styles.DimStyle.Render(fmt.Sprintf("  results for %q", p.state.Search.Keyword))
	}
	if p.state.Loaded {
		title += styles.DimStyle.Render(fmt.Sprintf("  (%d)", p.state.TotalElements))
	}
	return title
}

func (p *ListPage[T]) emptyMessage() string {
	if p.state.Search.Active {
		return fmt.Sprintf("No results for %q", p.state.Search.Keyword)
	}
	return p.emptyText
}

func (p *ListPage[T]) renderItem(item T, positions []int, selected bool, width int, now time.Time) string {
	star := styles.UnbookmarkedChar
	starFg := styles.DimGray
	if p.state.IsBookmarked(item.GetID()) {
		star = styles.BookmarkedChar
		starFg = styles.Amber
	}

	var meta string
	if tag := item.GetTag(); tag != "" {
		meta = tag
	}
	if age := textutil.RelativeTime(item.GetTimestamp().Time, now); age != "" {
		if meta != "" {
			meta += " · "
		}
		meta += age
	}

	// star + space + title + gap + meta, inside the row margins
	titleWidth := max(10, width-4-lipgloss.Width(meta)-2)
	title := textutil.Truncate(textutil.Sanitize(item.GetTitle()), titleWidth)

	var titleParts []styles.RowPart
	switch {
	case positions != nil:
		titleParts = positionParts(title, positions)
	case p.state.Search.Active:
		titleParts = keywordParts(title, p.state.Search.Keyword)
	default:
		titleParts = []styles.RowPart{{Text: title, Bold: selected}}
	}

	parts := []styles.RowPart{{Text: star + " ", Foreground: &starFg}}
	parts = append(parts, titleParts...)
	if gap := width - 2 - lipgloss.Width(star+" "+title) - lipgloss.Width(meta); gap > 0 {
		dim := styles.DimGray
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap) + meta, Foreground: &dim})
	}
	line1 := styles.RenderListRow(parts, selected, width)

	desc := textutil.Sanitize(item.GetDescription())
	desc = strings.ReplaceAll(desc, "\n", " ")
	dim := styles.DimGray
	line2 := styles.RenderListRow([]styles.RowPart{
		{Text: "  " + textutil.Truncate(desc, max(10, width-6)), Foreground: &dim},
	}, selected, width)

	return line1 + "\n" + line2
}

func (p *ListPage[T]) renderFilterBar() string {
	bar := p.filterInput.View()
	if strings.TrimSpace(p.filterInput.Value()) != "" {
		bar += styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", p.ItemCount(), len(p.state.Content)))
	}
	return bar
}

func (p *ListPage[T]) renderPager(spinner string) string {
	w := p.state.Window()
	if len(w.Pages) == 0 {
		return ""
	}

	var parts []string
	if w.HasPrev {
		parts = append(parts, styles.PageStyle.Render("‹"))
	}
	if w.First {
		parts = append(parts, styles.PageStyle.Render("1"))
		if w.LeadingGap {
			parts = append(parts, styles.DimStyle.Render("…"))
		}
	}
	for _, pg := range w.Pages {
		label := strconv.Itoa(pg + 1)
		if pg == p.state.Page {
			parts = append(parts, styles.CurrentPageStyle.Render(label))
		} else {
			parts = append(parts, styles.PageStyle.Render(label))
		}
	}
	if w.Last {
		if w.TrailingGap {
			parts = append(parts, styles.DimStyle.Render("…"))
		}
		parts = append(parts, styles.PageStyle.Render(strconv.Itoa(p.state.TotalPages)))
	}
	if w.HasNext {
		parts = append(parts, styles.PageStyle.Render("›"))
	}

	pager := strings.Join(parts, " ")
	if p.loading {
		pager += " " + spinner
	}
	return pager
}

// ErrorText turns a load error into a short message
func ErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return "Server unavailable. Check that the news server is running."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	}
	return domain.UserMessage(err, "Failed to load. Please try again.")
}
