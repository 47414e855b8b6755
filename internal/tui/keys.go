package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	FontUp     key.Binding
	FontDown   key.Binding
	Theme      key.Binding
	Open       key.Binding
	Bookmark   key.Binding
	Bookmarks  key.Binding
	Debug      key.Binding
	Reinit     key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	CursorUp   key.Binding
	CursorDown key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("n", "right", "pgdown"), key.WithHelp("n", "next page")),
		Prev:       key.NewBinding(key.WithKeys("p", "left", "pgup"), key.WithHelp("p", "prev page")),
		FontUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "font up")),
		FontDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "font down")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open url")),
		Bookmark:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		Bookmarks:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to bookmark")),
		Debug:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug")),
		Reinit:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reinitialize")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		CursorUp:   key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑", "up")),
		CursorDown: key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓", "down")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Open, k.Bookmarks, k.Theme, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.FontUp, k.FontDown, k.Theme},
		{k.Open, k.Bookmark, k.Bookmarks, k.Debug, k.Reinit, k.Quit},
	}
}
