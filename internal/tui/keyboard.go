package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/mmcdole/newsdesk/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			if err := m.svc.Session.Logout(); err != nil {
				m.logger.Warn("logout cleanup failed", "error", err)
			}
			m.exitErr = domain.ErrSessionReset
			return m, tea.Quit
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	view := m.nav.Top()

	// Text inputs take every key while focused
	if cmd, handled := m.routeToInput(view, msg); handled {
		return m, cmd
	}

	// Global keys
	session := m.svc.Session
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Home):
		return m, m.navigate(ViewHome)
	case key.Matches(msg, Keys.Articles):
		return m, m.navigate(ViewArticles)
	case key.Matches(msg, Keys.Summaries):
		return m, m.navigate(ViewSummaries)
	case key.Matches(msg, Keys.Bookmarks):
		return m, m.navigate(ViewBookmarks)
	case key.Matches(msg, Keys.Profile):
		return m, m.navigate(ViewProfile)

	case key.Matches(msg, Keys.Login):
		if session.IsAuthenticated() {
			m.State = StateConfirmLogout
			return m, nil
		}
		return m, m.redirectToLogin(ViewHome, "")

	case key.Matches(msg, Keys.Register) && !session.IsAuthenticated():
		m.RegisterForm.Reset()
		m.nav.Push(ViewRegister)
		return m, m.RegisterForm.Focus()
	}

	// View-specific keys
	var cmd tea.Cmd
	switch view {
	case ViewHome:
		cmd = m.handleHomeKey(msg)
	case ViewArticles:
		cmd = handleListKey(&m, view, m.Articles, m.svc.Articles, msg)
	case ViewSummaries:
		cmd = handleListKey(&m, view, m.Summaries, m.svc.Summaries, msg)
	case ViewBookmarks:
		cmd = handleListKey(&m, view, m.Bookmarks, m.svc.Bookmarks, msg)
	case ViewArticleDetail, ViewSummaryDetail:
		cmd = m.handleDetailKey(msg)
	case ViewProfile:
		cmd = m.handleProfileKey(msg)
	}
	return m, cmd
}

// routeToInput sends msg to the focused text input, if any
func (m *Model) routeToInput(view ViewID, msg tea.KeyMsg) (tea.Cmd, bool) {
	switch view {
	case ViewLogin:
		return m.handleLoginKey(msg), true
	case ViewRegister:
		return m.handleRegisterKey(msg), true
	case ViewProfile:
		if m.profileForm != nil {
			return m.handleProfileFormKey(msg), true
		}
	case ViewArticles:
		if m.Articles.IsSearchTyping() {
			return m.handleSearchKey(msg), true
		}
		if m.Articles.IsFilterTyping() {
			return m.Articles.Update(msg), true
		}
	case ViewSummaries:
		if m.Summaries.IsFilterTyping() {
			return m.Summaries.Update(msg), true
		}
	case ViewBookmarks:
		if m.Bookmarks.IsFilterTyping() {
			return m.Bookmarks.Update(msg), true
		}
	}
	return nil, false
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	form := m.LoginForm
	switch {
	case msg.Type == tea.KeyEsc:
		m.returnTo = ViewHome
		return m.back()
	case key.Matches(msg, Keys.SwitchForm) && !form.IsSubmitting():
		m.RegisterForm.Reset()
		m.nav.Replace(ViewRegister)
		return m.RegisterForm.Focus()
	}

	cmd, submitted := form.Update(msg)
	if !submitted {
		return cmd
	}
	return LoginCmd(m.svc.Session, form.Value(0), form.Value(1))
}

func (m *Model) handleRegisterKey(msg tea.KeyMsg) tea.Cmd {
	form := m.RegisterForm
	switch {
	case msg.Type == tea.KeyEsc:
		return m.back()
	case key.Matches(msg, Keys.SwitchForm) && !form.IsSubmitting():
		m.LoginForm.Reset()
		m.nav.Replace(ViewLogin)
		return m.LoginForm.Focus()
	}

	cmd, submitted := form.Update(msg)
	if !submitted {
		return cmd
	}
	return RegisterCmd(m.svc.Session, service.RegisterInput{
		Email:    form.Value(0),
		Username: form.Value(1),
		Password: form.Value(2),
		Confirm:  form.Value(3),
	})
}

func (m *Model) handleProfileFormKey(msg tea.KeyMsg) tea.Cmd {
	form := m.profileForm
	if msg.Type == tea.KeyEsc && !form.IsSubmitting() {
		form.Reset()
		m.profileForm = nil
		return nil
	}

	cmd, submitted := form.Update(msg)
	if !submitted {
		return cmd
	}
	if form == m.DeleteForm {
		return DeleteAccountCmd(m.svc.Session, form.Value(0))
	}
	return ChangePasswordCmd(m.svc.Session, form.Value(0), form.Value(1), form.Value(2))
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Password):
		m.PasswordForm.Reset()
		m.profileForm = m.PasswordForm
		return m.PasswordForm.Focus()
	case key.Matches(msg, Keys.Delete):
		m.DeleteForm.Reset()
		m.profileForm = m.DeleteForm
		return m.DeleteForm.Focus()
	case key.Matches(msg, Keys.Back):
		return m.back()
	}
	return nil
}

func (m *Model) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Enter):
		if m.Latest != nil {
			return m.openItem(m.Latest.BookmarkKey())
		}
	case key.Matches(msg, Keys.Refresh):
		return m.enterView(ViewHome)
	}
	return nil
}

// handleSearchKey edits the article keyword box
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	page, ctrl := m.Articles, m.svc.Articles

	switch msg.Type {
	case tea.KeyEnter:
		page.BlurSearch()
		if !ctrl.SubmitSearch(page.SearchValue()) {
			return nil
		}
		m.history.Add(ctrl.Snapshot().Search.Keyword)
		page.ResetCursor()
		return m.loadListPage(ViewArticles, m.listPage(ViewArticles), 0)

	case tea.KeyEsc:
		page.BlurSearch()
		if !ctrl.ClearSearch() {
			page.ResetSearch()
			return nil
		}
		page.ResetSearch()
		page.ResetCursor()
		return m.loadListPage(ViewArticles, m.listPage(ViewArticles), 0)

	case tea.KeyUp:
		// Recall the most recent keyword into an empty box
		if page.SearchValue() == "" {
			if recent := m.history.Recent(); len(recent) > 0 {
				page.SetSearchValue(recent[0])
				ctrl.SetInput(recent[0])
			}
		}
		return nil
	}

	cmd := page.UpdateSearch(msg)
	ctrl.SetInput(page.SearchValue())
	return cmd
}

// handleListKey handles keys on a list page
func handleListKey[T domain.Listable](
	m *Model,
	view ViewID,
	page *components.ListPage[T],
	ctrl *service.Controller[T],
	msg tea.KeyMsg,
) tea.Cmd {
	state := page.State()
	window := state.Window()

	switch {
	case key.Matches(msg, Keys.Back):
		if page.IsFiltering() {
			page.ClearFilter()
			return nil
		}
		if state.Search.Active && ctrl.ClearSearch() {
			page.ResetSearch()
			page.ResetCursor()
			return m.loadListPage(view, m.listPage(view), 0)
		}
		return nil

	case key.Matches(msg, Keys.Enter):
		if item, ok := page.Selected(); ok {
			return m.openItem(item.BookmarkKey())
		}
		return nil

	case key.Matches(msg, Keys.Bookmark):
		item, ok := page.Selected()
		if !ok {
			return nil
		}
		if m.svc.Session.IsResolving() {
			return m.setStatus("Checking your session, try again in a moment", false)
		}
		if !m.svc.Session.IsAuthenticated() {
			return m.redirectToLogin(view, "Please log in to bookmark")
		}
		return ToggleListBookmarkCmd(view, ctrl, item)

	case key.Matches(msg, Keys.Search):
		if !page.Searchable() {
			return nil
		}
		page.SetSearchValue(state.Search.RawInput)
		return page.FocusSearch()

	case key.Matches(msg, Keys.Filter):
		return page.StartFilter()

	case key.Matches(msg, Keys.NextPage):
		if window.HasNext {
			return m.loadListPage(view, m.listPage(view), state.Page+1)
		}
		return nil

	case key.Matches(msg, Keys.PrevPage):
		if window.HasPrev {
			return m.loadListPage(view, m.listPage(view), state.Page-1)
		}
		return nil

	case key.Matches(msg, Keys.First):
		if state.Page != 0 {
			return m.loadListPage(view, m.listPage(view), 0)
		}
		return nil

	case key.Matches(msg, Keys.Last):
		if last := state.TotalPages - 1; last > 0 && state.Page != last {
			return m.loadListPage(view, m.listPage(view), last)
		}
		return nil

	case key.Matches(msg, Keys.Refresh):
		return m.loadList(view, m.listPage(view))
	}

	// Cursor movement
	return page.Update(msg)
}

// handleDetailKey handles keys on an article or summary
func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Back):
		return m.back()

	case key.Matches(msg, Keys.Refresh):
		return m.loadDetail(m.DetailKey)

	case key.Matches(msg, Keys.Bookmark):
		if m.DetailLoading || m.DetailErr != nil || m.detailToggling {
			return nil
		}
		if m.svc.Session.IsResolving() {
			return m.setStatus("Checking your session, try again in a moment", false)
		}
		if !m.svc.Session.IsAuthenticated() {
			return m.redirectToLogin(ViewHome, "Please log in to bookmark")
		}
		m.detailToggling = true
		return ToggleDetailBookmarkCmd(m.svc.News, m.DetailKey, m.DetailBookmarked)

	case key.Matches(msg, Keys.Open):
		if m.Article == nil || m.Article.URL == "" || m.svc.Links == nil {
			return nil
		}
		_, video := textutil.ExtractYouTubeVideoID(m.Article.URL)
		return OpenLinkCmd(m.svc.Links, m.Article.URL, video)
	}

	// Scrolling
	var cmd tea.Cmd
	m.Detail, cmd = m.Detail.Update(msg)
	return cmd
}
