package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Screens with text inputs only react to the ctrl and navigation bindings so letters reach the inputs.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	enter    key.Binding
	back     key.Binding
	next     key.Binding
	prev     key.Binding
	favorite key.Binding
	genre    key.Binding
	director key.Binding
	profile  key.Binding
	reload   key.Binding
	logout   key.Binding
	mode     key.Binding
	save     key.Binding
	remove   key.Binding
	delete   key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
	forceQ   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		director: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "director")),
		profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		logout:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		mode:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/sign up")),
		save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove favorite")),
		delete:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete account")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQ:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.enter},
		{k.favorite, k.genre, k.director, k.profile, k.reload},
		{k.save, k.remove, k.delete, k.logout, k.quit},
	}
}
