package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/search"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/mmcdole/newsdesk/internal/tui/components"
	"github.com/mmcdole/newsdesk/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmLogout
)

// Status bar timings
const (
	statusDuration      = 3 * time.Second
	errorStatusDuration = 5 * time.Second
	clockInterval       = time.Second
)

// Vertical chrome: header line, blank line, footer line
const ChromeHeight = 3

// linkOpener opens links outside the terminal
type linkOpener interface {
	Open(rawURL string) error
	OpenVideo(rawURL string) error
}

// Services bundles everything the UI drives
type Services struct {
	Session   *service.Session
	Stats     *service.StatsService
	News      *service.NewsService
	Articles  *service.Controller[domain.Article]
	Summaries *service.Controller[domain.Summary]
	Bookmarks *service.Controller[domain.Bookmark]
	Links     linkOpener
	Logger    *slog.Logger

	// StartView is shown first, on top of Home. Zero starts at Home.
	StartView ViewID
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	svc      Services
	logger   *slog.Logger
	observer *SessionObserver
	nav      *ViewStack
	history  *search.History

	// returnTo is opened after a successful login; ViewHome means "go back"
	returnTo  ViewID
	wasAuthed bool

	// UI components
	Articles     *components.ListPage[domain.Article]
	Summaries    *components.ListPage[domain.Summary]
	Bookmarks    *components.ListPage[domain.Bookmark]
	LoginForm    *components.Form
	RegisterForm *components.Form
	PasswordForm *components.Form
	DeleteForm   *components.Form
	Detail       viewport.Model
	Spinner      spinner.Model
	Help         help.Model

	// profileForm is the form open on the profile page, if any
	profileForm *components.Form

	// Home
	Stats         domain.Stats
	StatsErr      error
	StatsLoaded   bool
	Latest        *domain.Summary
	LatestLoaded  bool
	Now           time.Time
	nextSummaryAt time.Time

	// Detail
	Article          *domain.Article
	Summary          *domain.Summary
	DetailKey        domain.BookmarkKey
	DetailBookmarked bool
	DetailLoading    bool
	DetailErr        error
	detailToggling   bool

	// Dimensions
	Width  int
	Height int

	// Status bar
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int

	// exitErr is returned to the runner once the program quits
	exitErr error
}

// NewModel creates a new application model
func NewModel(svc Services) Model {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	helpModel := help.New()
	helpModel.ShowAll = true

	nav := &ViewStack{views: []ViewID{ViewHome}}
	if svc.StartView != ViewHome {
		nav.Push(svc.StartView)
	}

	return Model{
		State:     StateBrowsing,
		svc:       svc,
		logger:    logger,
		observer:  NewSessionObserver(svc.Session),
		nav:       nav,
		history:   search.NewHistory(search.DefaultHistoryLimit),
		wasAuthed: svc.Session.IsAuthenticated(),
		Articles:  components.NewListPage[domain.Article]("Articles", "No articles yet.", true),
		Summaries: components.NewListPage[domain.Summary]("AI Summaries", "No AI summaries yet.", false),
		Bookmarks: components.NewListPage[domain.Bookmark]("Bookmarks", "You have no bookmarks yet.", false),
		LoginForm: components.NewForm("Log in", "Log in",
			components.FormField{Label: "Email", Placeholder: "you@example.com"},
			components.FormField{Label: "Password", Password: true},
		),
		RegisterForm: components.NewForm("Create an account", "Register",
			components.FormField{Label: "Email", Placeholder: "you@example.com"},
			components.FormField{Label: "Username", Placeholder: "display name", CharLimit: 50},
			components.FormField{Label: "Password", Placeholder: "at least 6 characters", Password: true},
			components.FormField{Label: "Confirm password", Password: true},
		),
		PasswordForm: components.NewForm("Change password", "Change password",
			components.FormField{Label: "Current password", Password: true},
			components.FormField{Label: "New password", Placeholder: "at least 6 characters", Password: true},
			components.FormField{Label: "Confirm new", Password: true},
		),
		DeleteForm: components.NewForm("Delete account", "Delete forever",
			components.FormField{Label: "Password", Password: true},
		),
		Detail: viewport.New(0, 0),
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
		Help: helpModel,
		Now:  time.Now(),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.Spinner.Tick,
		TickCmd(clockInterval),
		m.observer.Wait(),
		LoadStatsCmd(m.svc.Stats),
		LoadLatestSummaryCmd(m.svc.News),
	}
	if m.svc.Session.IsResolving() {
		cmds = append(cmds, ResolveSessionCmd(m.svc.Session))
	}
	if m.nav.Top() == ViewLogin {
		cmds = append(cmds, m.LoginForm.Focus())
	}
	return tea.Batch(cmds...)
}

// ExitErr reports why the program quit. domain.ErrSessionReset asks the
// runner to start over with a fresh session.
func (m Model) ExitErr() error {
	return m.exitErr
}

// CurrentView returns the view on screen
func (m Model) CurrentView() ViewID {
	return m.nav.Top()
}

// Close releases the session subscription
func (m Model) Close() {
	m.observer.Close()
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case TickMsg:
		return m, tea.Batch(m.handleTick(msg.Time), TickCmd(clockInterval))

	case SessionChangedMsg:
		return m, tea.Batch(m.handleSessionChange(msg.State), m.observer.Wait())

	case SessionResolvedMsg:
		return m, m.handleSessionResolved(msg.Err)

	case StatsLoadedMsg:
		m.StatsErr = msg.Err
		if msg.Err == nil {
			m.Stats = msg.Stats
			m.StatsLoaded = true
		}
		return m, nil

	case LatestSummaryMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to load latest summary", "error", msg.Err)
			return m, nil
		}
		m.Latest = msg.Summary
		m.LatestLoaded = true
		return m, nil

	case PageLoadedMsg:
		// A newer load for the same list is still running
		if errors.Is(msg.Err, domain.ErrSuperseded) {
			return m, nil
		}
		m.syncList(msg.View)
		var cmd tea.Cmd
		if loadFailureWorthReporting(msg.Err) {
			cmd = m.setStatus(components.ErrorText(msg.Err), true)
		}
		return m, cmd

	case BookmarkToggledMsg:
		return m, m.handleListToggle(msg)

	case ArticleLoadedMsg:
		m.DetailLoading = false
		m.DetailErr = msg.Err
		if msg.Err == nil {
			m.Article = msg.Article
			m.DetailKey = msg.Article.BookmarkKey()
			m.DetailBookmarked = msg.Bookmarked
			m.refreshDetail()
			m.Detail.GotoTop()
		}
		return m, nil

	case SummaryLoadedMsg:
		m.DetailLoading = false
		m.DetailErr = msg.Err
		if msg.Err == nil {
			m.Summary = msg.Summary
			m.DetailKey = msg.Summary.BookmarkKey()
			m.DetailBookmarked = msg.Bookmarked
			m.refreshDetail()
			m.Detail.GotoTop()
		}
		return m, nil

	case DetailBookmarkMsg:
		m.detailToggling = false
		if msg.Err != nil {
			return m, m.bookmarkError(msg.Err)
		}
		if msg.Key == m.DetailKey {
			m.DetailBookmarked = msg.Bookmarked
			m.refreshDetail()
		}
		if msg.Bookmarked {
			return m, m.setStatus("Bookmarked", false)
		}
		return m, m.setStatus("Bookmark removed", false)

	case LoginDoneMsg:
		return m, m.handleLoginDone(msg)

	case RegisterDoneMsg:
		return m, m.handleRegisterDone(msg)

	case PasswordChangedMsg:
		if msg.Err != nil {
			m.PasswordForm.SetError(formError(msg.Err, "Failed to change password."))
			return m, nil
		}
		m.PasswordForm.Reset()
		m.profileForm = nil
		return m, m.setStatus("Password changed", false)

	case AccountDeletedMsg:
		if msg.Err != nil {
			m.DeleteForm.SetError(formError(msg.Err, "Failed to delete account."))
			return m, nil
		}
		m.exitErr = domain.ErrSessionReset
		return m, tea.Quit

	case LinkOpenedMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to open link", "url", msg.URL, "error", msg.Err)
			return m, m.setStatus("Could not open link: "+msg.Err.Error(), true)
		}
		return m, m.setStatus("Opened "+msg.URL, false)

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	// Remaining messages (cursor blink) go to whatever input has focus
	return m, m.forwardToInput(msg)
}

// setStatus shows a toast and schedules its removal
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	delay := statusDuration
	if isErr {
		delay = errorStatusDuration
	}
	return ClearStatusCmd(m.statusSeq, delay)
}

// handleTick advances the clock and refreshes the home page when a summary
// boundary passes
func (m *Model) handleTick(now time.Time) tea.Cmd {
	m.Now = now
	if m.nextSummaryAt.IsZero() {
		m.nextSummaryAt = service.NextSummaryAt(now)
		return nil
	}
	if now.Before(m.nextSummaryAt) {
		return nil
	}
	m.nextSummaryAt = service.NextSummaryAt(now)
	return tea.Batch(LoadLatestSummaryCmd(m.svc.News), LoadStatsCmd(m.svc.Stats))
}

func (m *Model) handleSessionChange(state service.SessionState) tea.Cmd {
	var cmds []tea.Cmd
	wasAuthed := m.wasAuthed
	m.wasAuthed = state == service.Authenticated

	switch state {
	case service.Unauthenticated:
		cmds = append(cmds, LoadStatsCmd(m.svc.Stats))
		if wasAuthed {
			cmds = append(cmds, m.setStatus("Your session has expired. Please log in again.", true))
		}
		if view := m.nav.Top(); view.Protected() {
			cmds = append(cmds, m.redirectToLogin(view, ""))
		} else if view.IsList() {
			cmds = append(cmds, m.loadList(view, m.listPage(view)))
		}
	case service.Authenticated:
		cmds = append(cmds, LoadStatsCmd(m.svc.Stats))
		if view := m.nav.Top(); view.IsList() {
			cmds = append(cmds, m.loadList(view, m.listPage(view)))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleSessionResolved(err error) tea.Cmd {
	var cmds []tea.Cmd
	if err != nil && errors.Is(err, domain.ErrServerOffline) {
		cmds = append(cmds, m.setStatus("Server unavailable, continuing logged out", true))
	}

	// Protected views waited on the resolution
	if view := m.nav.Top(); view.Protected() {
		if !m.svc.Session.IsAuthenticated() {
			cmds = append(cmds, m.redirectToLogin(view, "Please log in to continue"))
		} else if view.IsList() {
			cmds = append(cmds, m.loadList(view, m.listPage(view)))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleLoginDone(msg LoginDoneMsg) tea.Cmd {
	if msg.Err != nil {
		m.LoginForm.SetError(formError(msg.Err, "Login failed. Please check your email and password."))
		return nil
	}

	m.LoginForm.Reset()
	status := m.setStatus("Welcome back, "+msg.User.DisplayName(), false)

	target := m.returnTo
	m.returnTo = ViewHome
	if target != ViewHome {
		return tea.Batch(status, m.navigate(target))
	}
	return tea.Batch(status, m.back())
}

func (m *Model) handleRegisterDone(msg RegisterDoneMsg) tea.Cmd {
	if msg.Err != nil {
		m.RegisterForm.SetError(formError(msg.Err, "Registration failed. Please try again."))
		return nil
	}

	email := m.RegisterForm.Value(0)
	m.RegisterForm.Reset()
	if msg.LoggedIn {
		m.returnTo = ViewHome
		return tea.Batch(m.setStatus("Account created. Welcome!", false), m.navigate(ViewHome))
	}

	// The server created the account without a token
	m.nav.Replace(ViewLogin)
	m.LoginForm.Reset()
	m.LoginForm.SetValue(0, email)
	return tea.Batch(m.setStatus("Account created. Please log in.", false), m.LoginForm.Focus())
}

func (m *Model) handleListToggle(msg BookmarkToggledMsg) tea.Cmd {
	m.syncList(msg.View)
	if msg.Err != nil {
		return m.bookmarkError(msg.Err)
	}
	title := textutil.Truncate(msg.Title, 40)
	if msg.Bookmarked {
		return m.setStatus("Bookmarked: "+title, false)
	}
	return m.setStatus("Removed bookmark: "+title, false)
}

// bookmarkError reports a failed toggle; login is offered when needed
func (m *Model) bookmarkError(err error) tea.Cmd {
	if errors.Is(err, domain.ErrLoginRequired) {
		return m.redirectToLogin(ViewHome, "Please log in to bookmark")
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		// The session observer handles the redirect
		return nil
	}
	return m.setStatus(components.ErrorText(err), true)
}

// loadFailureWorthReporting reports whether a failed page load gets a toast.
// Cancellations are not failures, and a rejected session already moves the
// user to the login form.
func loadFailureWorthReporting(err error) bool {
	return err != nil &&
		!errors.Is(err, domain.ErrSuperseded) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, domain.ErrUnauthorized)
}

// navigate opens v. Tabs reset the view stack; other views push onto it.
// Protected views send unauthenticated users to the login form.
func (m *Model) navigate(v ViewID) tea.Cmd {
	session := m.svc.Session
	if v.Protected() && !session.IsAuthenticated() && !session.IsResolving() {
		return m.redirectToLogin(v, fmt.Sprintf("Please log in to view your %s", strings.ToLower(v.String())))
	}

	if slices.Contains(tabs, v) {
		m.nav.Reset(v)
	} else {
		m.nav.Push(v)
	}
	return m.enterView(v)
}

// back returns to the previous view
func (m *Model) back() tea.Cmd {
	if m.nav.Len() <= 1 {
		return nil
	}
	return m.enterView(m.nav.Pop())
}

// redirectToLogin opens the login form and remembers target for afterwards
func (m *Model) redirectToLogin(target ViewID, reason string) tea.Cmd {
	m.returnTo = target
	m.LoginForm.Reset()
	if m.nav.Top().Protected() {
		m.nav.Replace(ViewLogin)
	} else {
		m.nav.Push(ViewLogin)
	}

	cmds := []tea.Cmd{m.LoginForm.Focus()}
	if reason != "" {
		cmds = append(cmds, m.setStatus(reason, false))
	}
	return tea.Batch(cmds...)
}

// enterView refreshes whatever v shows
func (m *Model) enterView(v ViewID) tea.Cmd {
	switch v {
	case ViewHome:
		return tea.Batch(LoadStatsCmd(m.svc.Stats), LoadLatestSummaryCmd(m.svc.News))
	case ViewArticles, ViewSummaries, ViewBookmarks:
		if v.Protected() && !m.svc.Session.IsAuthenticated() {
			// Still resolving; the resolution loads the list
			return nil
		}
		return m.loadList(v, m.listPage(v))
	case ViewArticleDetail, ViewSummaryDetail:
		return m.loadDetail(m.DetailKey)
	case ViewLogin:
		return m.LoginForm.Focus()
	case ViewRegister:
		return m.RegisterForm.Focus()
	case ViewProfile:
		m.profileForm = nil
	}
	return nil
}

// openItem shows the detail view for a bookmark target
func (m *Model) openItem(key domain.BookmarkKey) tea.Cmd {
	m.DetailKey = key
	view := ViewArticleDetail
	if key.Type == domain.BookmarkTypeSummary {
		view = ViewSummaryDetail
	}
	m.nav.Push(view)
	return m.loadDetail(key)
}

func (m *Model) loadDetail(key domain.BookmarkKey) tea.Cmd {
	m.DetailLoading = true
	m.DetailErr = nil
	if key.Type == domain.BookmarkTypeSummary {
		m.Article = nil
		return LoadSummaryCmd(m.svc.News, key.ID)
	}
	m.Summary = nil
	return LoadArticleCmd(m.svc.News, key.ID)
}

// refreshDetail re-renders the detail body into the viewport
func (m *Model) refreshDetail() {
	width := m.Detail.Width
	switch {
	case m.Article != nil:
		m.Detail.SetContent(renderArticleBody(*m.Article, m.DetailBookmarked, width, m.Now))
	case m.Summary != nil:
		m.Detail.SetContent(renderSummaryBody(*m.Summary, m.DetailBookmarked, width, m.Now))
	}
}

// loadList starts loading the current page of a list
func (m *Model) loadList(v ViewID, page listPage) tea.Cmd {
	return m.loadListPage(v, page, page.CurrentPage())
}

func (m *Model) loadListPage(v ViewID, page listPage, n int) tea.Cmd {
	page.SetLoading(true)
	switch v {
	case ViewArticles:
		return LoadPageCmd(v, m.svc.Articles, n)
	case ViewSummaries:
		return LoadPageCmd(v, m.svc.Summaries, n)
	case ViewBookmarks:
		return LoadPageCmd(v, m.svc.Bookmarks, n)
	}
	return nil
}

// syncList copies a controller's state into its page
func (m *Model) syncList(v ViewID) {
	switch v {
	case ViewArticles:
		syncPage(m.Articles, m.svc.Articles)
	case ViewSummaries:
		syncPage(m.Summaries, m.svc.Summaries)
	case ViewBookmarks:
		syncPage(m.Bookmarks, m.svc.Bookmarks)
	}
}

func syncPage[T domain.Listable](page *components.ListPage[T], ctrl *service.Controller[T]) {
	state := ctrl.Snapshot()
	if state.Page != page.State().Page {
		page.ResetCursor()
	}
	page.SetState(state)
	page.SetLoading(state.Loading)
}

// listPage is the type-independent part of a list page
type listPage interface {
	SetLoading(bool)
	IsLoading() bool
	CurrentPage() int
	IsSearchTyping() bool
	IsFilterTyping() bool
	SetSize(width, height int)
}

func (m *Model) listPage(v ViewID) listPage {
	switch v {
	case ViewArticles:
		return pageAdapter[domain.Article]{m.Articles}
	case ViewSummaries:
		return pageAdapter[domain.Summary]{m.Summaries}
	case ViewBookmarks:
		return pageAdapter[domain.Bookmark]{m.Bookmarks}
	}
	return nil
}

// pageAdapter exposes a typed list page through listPage
type pageAdapter[T domain.Listable] struct {
	*components.ListPage[T]
}

func (a pageAdapter[T]) CurrentPage() int {
	return a.State().Page
}

// updateLayout resizes every component to the window
func (m *Model) updateLayout() {
	contentHeight := max(1, m.Height-ChromeHeight)
	width := m.Width

	m.Articles.SetSize(width, contentHeight)
	m.Summaries.SetSize(width, contentHeight)
	m.Bookmarks.SetSize(width, contentHeight)

	m.Detail.Width = max(20, min(width-4, 100))
	m.Detail.Height = max(1, contentHeight-1) // scroll indicator
	m.refreshDetail()

	m.Help.Width = width
}

// forwardToInput routes non-key messages to the focused text input
func (m *Model) forwardToInput(msg tea.Msg) tea.Cmd {
	switch view := m.nav.Top(); view {
	case ViewLogin:
		cmd, _ := m.LoginForm.Update(msg)
		return cmd
	case ViewRegister:
		cmd, _ := m.RegisterForm.Update(msg)
		return cmd
	case ViewProfile:
		if m.profileForm != nil {
			cmd, _ := m.profileForm.Update(msg)
			return cmd
		}
	case ViewArticles:
		if m.Articles.IsSearchTyping() {
			return m.Articles.UpdateSearch(msg)
		}
		return m.Articles.Update(msg)
	case ViewSummaries:
		return m.Summaries.Update(msg)
	case ViewBookmarks:
		return m.Bookmarks.Update(msg)
	}
	return nil
}

// formError turns a failed form submission into an inline message
func formError(err error, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return "Server unavailable. Please try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond."
	}
	return domain.UserMessage(err, fallback)
}
