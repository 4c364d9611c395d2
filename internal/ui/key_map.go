package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next     key.Binding
	prev     key.Binding
	home     key.Binding
	music    key.Binding
	favs     key.Binding
	play     key.Binding
	refresh  key.Binding
	favorite key.Binding
	remove   key.Binding
	open     key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev page")),
		home:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
		music:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "music")),
		favs:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "favorites")),
		play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh weather")),
		favorite: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to favorites")),
		remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open cover")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.play, k.favorite, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.home, k.music, k.favs},
		{k.play, k.refresh, k.favorite, k.remove, k.open},
		{k.help, k.quit},
	}
}
