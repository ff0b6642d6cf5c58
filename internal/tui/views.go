package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/mmcdole/newsdesk/internal/tui/components"
	"github.com/mmcdole/newsdesk/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmLogout:
		return m.renderLogoutConfirmation()
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := max(1, m.Height-ChromeHeight)
	body := lipgloss.NewStyle().
		Width(m.Width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(m.renderBody())

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer)
}

func (m Model) renderBody() string {
	spin := m.Spinner.View()
	view := m.nav.Top()

	if view.Protected() && m.svc.Session.IsResolving() {
		return m.centered(spin + " Checking your session...")
	}

	switch view {
	case ViewHome:
		return m.renderHome()
	case ViewArticles:
		return m.Articles.View(spin, m.Now)
	case ViewSummaries:
		return m.Summaries.View(spin, m.Now)
	case ViewBookmarks:
		return m.Bookmarks.View(spin, m.Now)
	case ViewArticleDetail, ViewSummaryDetail:
		return m.renderDetail()
	case ViewLogin:
		return m.centered(m.LoginForm.View(spin) + "\n" +
			styles.DimStyle.Render("ctrl+r: create an account • esc: back"))
	case ViewRegister:
		return m.centered(m.RegisterForm.View(spin) + "\n" +
			styles.DimStyle.Render("ctrl+r: log in instead • esc: back"))
	case ViewProfile:
		return m.renderProfile()
	}
	return ""
}

func (m Model) centered(content string) string {
	return lipgloss.Place(m.Width, max(1, m.Height-ChromeHeight), lipgloss.Center, lipgloss.Center, content)
}

// renderHeader draws the title, the tabs and the session indicator
func (m Model) renderHeader() string {
	title := styles.AppTitleStyle.Render("newsdesk")

	current := m.nav.Top()
	// Details keep the tab they were opened from highlighted
	for _, v := range m.nav.views {
		if v == ViewArticles || v == ViewSummaries || v == ViewBookmarks {
			current = v
		}
	}

	tabParts := make([]string, 0, len(tabs))
	for i, v := range tabs {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == current {
			tabParts = append(tabParts, styles.ActiveTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, styles.TabStyle.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title, " "}, tabParts...)...)

	right := m.renderSessionIndicator()
	gap := max(1, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSessionIndicator() string {
	session := m.svc.Session
	switch {
	case session.IsResolving():
		return m.Spinner.View() + styles.DimStyle.Render(" signing in")
	case session.IsAuthenticated():
		name := "account"
		if u := session.User(); u != nil {
			name = u.DisplayName()
		}
		return styles.AccentStyle.Render(name) + styles.DimStyle.Render(" • L logout")
	}
	return styles.DimStyle.Render("L login • R register")
}

// renderFooter draws the status toast and the help hint
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	default:
		left = styles.DimStyle.Render(m.footerHint())
	}

	right := m.Help.ShortHelpView(Keys.ShortHelp())
	gap := max(1, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) footerHint() string {
	switch m.nav.Top() {
	case ViewArticles:
		return "/ search • f filter • b bookmark • n/p page • enter open"
	case ViewSummaries, ViewBookmarks:
		return "f filter • b bookmark • n/p page • enter open"
	case ViewArticleDetail:
		return "o open link • b bookmark • esc back"
	case ViewSummaryDetail:
		return "b bookmark • esc back"
	case ViewProfile:
		return "c change password • D delete account • esc back"
	case ViewHome:
		return "enter read latest summary • r refresh"
	}
	return ""
}

// renderHome draws the dashboard: counters, countdown and latest summary
func (m Model) renderHome() string {
	var cards []string

	counter := func(label string, value int64, ok bool) string {
		text := "-"
		if ok {
			text = strconv.FormatInt(value, 10)
		}
		return styles.CardStyle.Render(
			styles.LabelStyle.Render(label) + "\n" + styles.TitleStyle.Render(text),
		)
	}
	cards = append(cards,
		counter("Today's articles", m.Stats.Today, m.StatsLoaded),
		counter("Total articles", m.Stats.Total, m.StatsLoaded),
	)
	if m.svc.Session.IsAuthenticated() {
		cards = append(cards, counter("My bookmarks", m.Stats.Bookmarks, m.StatsLoaded))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	var b strings.Builder
	b.WriteString(row)
	b.WriteString("\n")
	if m.StatsErr != nil {
		b.WriteString(styles.ErrorStyle.Render(components.ErrorText(m.StatsErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderCountdown())
	b.WriteString("\n\n")
	b.WriteString(m.renderLatest())

	return styles.PanelStyle.Width(max(20, m.Width-4)).Render(b.String())
}

func (m Model) renderCountdown() string {
	next := service.NextSummaryAt(m.Now)
	remaining := service.Countdown(m.Now)

	badge := styles.PendingBadgeStyle
	status := service.SummaryStatus(m.Latest, m.Now)
	if status == service.GenerationDone {
		badge = styles.DoneBadgeStyle
	}

	return styles.LabelStyle.Render("Next AI summary") +
		styles.TitleStyle.Render(remaining.String()) +
		styles.DimStyle.Render(" at "+next.Format("15:04")+"  ") +
		badge.Render("This hour: "+status.String())
}

func (m Model) renderLatest() string {
	if !m.LatestLoaded {
		return m.Spinner.View() + " Loading latest summary..."
	}
	if m.Latest == nil {
		return styles.DimStyle.Render("No AI summary has been generated yet.")
	}

	s := m.Latest
	var b strings.Builder
	b.WriteString(styles.DimBadgeStyle.Render("Latest AI summary"))
	b.WriteString(" ")
	b.WriteString(styles.DimStyle.Render(textutil.RelativeTime(s.GeneratedAt.Time, m.Now)))
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render(s.Title))
	b.WriteString("\n")
	for _, h := range textutil.ParseHighlights(s.KeyHighlights) {
		b.WriteString("  • " + textutil.Truncate(h, max(10, m.Width-12)) + "\n")
	}
	b.WriteString(styles.DimStyle.Render("enter to read"))
	return b.String()
}

// renderDetail draws the article or summary viewport
func (m Model) renderDetail() string {
	switch {
	case m.DetailLoading:
		return m.centered(m.Spinner.View() + " Loading...")
	case m.DetailErr != nil:
		return m.centered(styles.ErrorStyle.Render(components.ErrorText(m.DetailErr)) + "\n" +
			styles.DimStyle.Render("Press r to retry • esc to go back"))
	}

	body := m.Detail.View()
	if m.Detail.TotalLineCount() > m.Detail.Height {
		pct := fmt.Sprintf("%3.0f%%", m.Detail.ScrollPercent()*100)
		body += "\n" + styles.DimStyle.Render(pct)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(body)
}

func renderArticleBody(a domain.Article, bookmarked bool, width int, now time.Time) string {
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder

	b.WriteString(wrap.Inherit(styles.TitleStyle).Render(a.Title))
	b.WriteString("\n")
	b.WriteString(bookmarkMark(bookmarked))
	b.WriteString(" ")

	meta := []string{}
	if a.SourceName != "" {
		meta = append(meta, a.SourceName)
	}
	if a.Category != "" {
		meta = append(meta, a.Category)
	}
	if !a.PublishedAt.IsZero() {
		meta = append(meta, textutil.AbsoluteTime(a.PublishedAt.Time)+" ("+textutil.RelativeTime(a.PublishedAt.Time, now)+")")
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	if desc := textutil.Sanitize(a.Description); desc != "" {
		b.WriteString(wrap.Render(desc))
		b.WriteString("\n\n")
	}

	if id, ok := textutil.ExtractYouTubeVideoID(a.URL); ok {
		b.WriteString(styles.BadgeStyle.Render("Video"))
		b.WriteString(" ")
		b.WriteString(styles.DimStyle.Render("youtube " + id + " • o to play"))
		b.WriteString("\n")
	}
	if a.URL != "" {
		b.WriteString(styles.AccentStyle.Render(a.URL))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("o to open in browser"))
	}
	return b.String()
}

func renderSummaryBody(s domain.Summary, bookmarked bool, width int, now time.Time) string {
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder

	b.WriteString(wrap.Inherit(styles.TitleStyle).Render(s.Title))
	b.WriteString("\n")
	b.WriteString(bookmarkMark(bookmarked))
	b.WriteString(" ")

	meta := []string{}
	if !s.GeneratedAt.IsZero() {
		meta = append(meta, "Generated "+textutil.AbsoluteTime(s.GeneratedAt.Time)+" ("+textutil.RelativeTime(s.GeneratedAt.Time, now)+")")
	}
	if !s.PeriodStart.IsZero() && !s.PeriodEnd.IsZero() {
		meta = append(meta, "covers "+s.PeriodStart.Format("15:04")+"–"+s.PeriodEnd.Format("15:04"))
	}
	if s.RelatedArticlesCount > 0 {
		meta = append(meta, fmt.Sprintf("%d related articles", s.RelatedArticlesCount))
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	if highlights := textutil.ParseHighlights(s.KeyHighlights); len(highlights) > 0 {
		b.WriteString(styles.LabelStyle.Render("Key highlights"))
		b.WriteString("\n")
		bullet := lipgloss.NewStyle().Width(max(10, width-4)).PaddingLeft(4)
		for _, h := range highlights {
			b.WriteString(bullet.Render("• " + h))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(wrap.Render(strings.TrimSpace(s.Content)))
	return b.String()
}

func bookmarkMark(on bool) string {
	if on {
		return styles.BookmarkedStar + " Bookmarked"
	}
	return styles.UnbookmarkedStar + " Not bookmarked"
}

// renderProfile draws the account page or the open account form
func (m Model) renderProfile() string {
	spin := m.Spinner.View()
	if m.profileForm != nil {
		hint := "esc: cancel"
		if m.profileForm == m.DeleteForm {
			hint = "This removes your account and bookmarks. esc: cancel"
		}
		return m.centered(m.profileForm.View(spin) + "\n" + styles.DimStyle.Render(hint))
	}

	user := m.svc.Session.User()
	if user == nil {
		return m.centered(styles.DimStyle.Render("Not logged in"))
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Profile"))
	b.WriteString("\n")
	b.WriteString(styles.LabelStyle.Render("Email") + user.Email + "\n")
	username := user.Username
	if username == "" {
		username = styles.DimStyle.Render("(none)")
	}
	b.WriteString(styles.LabelStyle.Render("Username") + username + "\n\n")
	b.WriteString(styles.DimStyle.Render("c change password • D delete account • L log out"))
	return m.centered(styles.ModalStyle.Render(b.String()))
}

// renderHelp draws the key binding reference
func (m Model) renderHelp() string {
	content := styles.ModalTitleStyle.Render("Keyboard shortcuts") + "\n" +
		m.Help.View(Keys) + "\n\n" +
		styles.DimStyle.Render("Forms: tab/shift+tab move • enter submit • ctrl+r switch login/register") + "\n" +
		styles.DimStyle.Render("Press any key to close")

	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}

// renderLogoutConfirmation draws the logout prompt
func (m Model) renderLogoutConfirmation() string {
	content := styles.ModalTitleStyle.Render("Log out?") + "\n" +
		"You will need to log in again to see your bookmarks.\n\n" +
		styles.DimStyle.Render("y confirm • n cancel")

	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}
