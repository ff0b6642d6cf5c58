package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mmcdole/newsdesk/internal/tui/components"
)

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Views
	Home      key.Binding
	Articles  key.Binding
	Summaries key.Binding
	Bookmarks key.Binding
	Profile   key.Binding
	Login     key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Enter    key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	First    key.Binding
	Last     key.Binding

	// Actions
	Bookmark key.Binding
	Search   key.Binding
	Filter   key.Binding
	Open     key.Binding
	Refresh  key.Binding
	Register key.Binding
	Password key.Binding
	Delete   key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Forms
	SwitchForm key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Views
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		Articles: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "articles"),
		),
		Summaries: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "AI summaries"),
		),
		Bookmarks: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "bookmarks"),
		),
		Profile: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "profile"),
		),
		Login: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "login/logout"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first item"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last item"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back/clear"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "right", "l"),
			key.WithHelp("n/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left", "h"),
			key.WithHelp("p/←", "previous page"),
		),
		First: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "first page"),
		),
		Last: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "last page"),
		),

		// Actions
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter page"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Register: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "register"),
		),
		Password: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "change password"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete account"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),

		// Forms
		SwitchForm: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "login/register"),
		),

		// Confirmations
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap for the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the help screen
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Articles, k.Summaries, k.Bookmarks, k.Profile, k.Login, k.Register},
		{k.Up, k.Down, k.Top, k.Bottom, k.Enter, k.Back},
		{k.NextPage, k.PrevPage, k.First, k.Last, k.Refresh},
		{k.Bookmark, k.Search, k.Filter, k.Open, k.Help, k.Quit},
		{components.FormKeys.Next, components.FormKeys.Prev, components.FormKeys.Submit, k.SwitchForm},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
