package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/views"
)

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldBirthday
)

// favouriteItem is a favourites row. title falls back to the movie ID when the catalogue has not
// been loaded.
type favouriteItem struct {
	id    string
	title string
}

func (i favouriteItem) Title() string       { return i.title }
func (i favouriteItem) Description() string { return i.id }
func (i favouriteItem) FilterValue() string { return i.title }

func newProfileForm() form {
	return newForm(
		field{label: "Username", placeholder: "username"},
		field{label: "Email", placeholder: "email"},
		field{label: "Password", placeholder: "leave blank to keep", secret: true},
		field{label: "Birthday", placeholder: "YYYY-MM-DD"},
	)
}

func newFavouriteList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 40, 10)
	l.Title = "Favorite movies"
	l.Styles.Title = styles.selected
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}

// listFocused reports whether the favourites list holds focus rather than an input.
func (m *Model) listFocused() bool {
	return m.editor.focus == len(m.editor.inputs)
}

func (m *Model) loadProfile() tea.Cmd {
	ctx, profile := m.ctx, m.profile
	return func() tea.Msg {
		return profileLoadedMsg(profile.Load(ctx))
	}
}

// fillEditor copies the loaded form into the inputs. The password always starts blank.
func (m *Model) fillEditor() {
	f := m.profile.Form()
	m.editor.set(fieldUsername, f.Username)
	m.editor.set(fieldEmail, f.Email)
	m.editor.set(fieldPassword, "")
	m.editor.set(fieldBirthday, f.Birthday)
}

func (m *Model) syncFavourites() tea.Cmd {
	titles := make(map[string]string)
	for _, movie := range m.browser.Movies() {
		titles[movie.ID] = movie.Title
	}

	favs := m.profile.Favourites()
	items := make([]list.Item, 0, len(favs))
	for _, f := range favs {
		title, ok := titles[f.MovieID]
		if !ok {
			title = f.MovieID
		}
		items = append(items, favouriteItem{id: f.MovieID, title: title})
	}
	return m.favourites.SetItems(items)
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirmDelete {
		switch {
		case key.Matches(msg, m.keys.yes):
			return m.deleteAccount()
		case key.Matches(msg, m.keys.no):
			m.confirmDelete = false
		}
		return nil
	}

	stops := len(m.editor.inputs) + 1
	switch {
	case key.Matches(msg, m.keys.next):
		return m.editor.cycle(1, stops)
	case key.Matches(msg, m.keys.prev):
		return m.editor.cycle(-1, stops)
	case key.Matches(msg, m.keys.save):
		return m.saveProfile()
	case key.Matches(msg, m.keys.delete):
		m.confirmDelete = true
		return nil
	case key.Matches(msg, m.keys.logout):
		return m.logout()
	case key.Matches(msg, m.keys.back):
		return m.navigate(router.Movies)
	}

	if !m.listFocused() {
		return m.editor.update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.favourites.SelectedItem().(favouriteItem); ok {
			return m.removeFavourite(item.id)
		}
		return nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.favourites.SelectedItem().(favouriteItem); ok {
			return m.fetchMovie(item.title)
		}
		return nil
	}

	var cmd tea.Cmd
	m.favourites, cmd = m.favourites.Update(msg)
	return cmd
}

// editorForm reads the inputs into a [views.ProfileForm].
func (m *Model) editorForm() views.ProfileForm {
	return views.ProfileForm{
		Username: m.editor.value(fieldUsername),
		Email:    m.editor.value(fieldEmail),
		Password: m.editor.raw(fieldPassword),
		Birthday: m.editor.value(fieldBirthday),
	}
}

func (m *Model) saveProfile() tea.Cmd {
	m.profile.SetForm(m.editorForm())
	ctx, profile := m.ctx, m.profile
	return func() tea.Msg {
		return profileSavedMsg(profile.Save(ctx))
	}
}

func (m *Model) removeFavourite(movieID string) tea.Cmd {
	ctx, profile, notices := m.ctx, m.profile, m.notices
	return func() tea.Msg {
		err := profile.RemoveFavourite(ctx, movieID)
		if err == nil {
			notify(notices, successNotice("Removed from favorites."))
		}
		return favouriteRemovedMsg(movieID, err)
	}
}

func (m *Model) fetchMovie(title string) tea.Cmd {
	ctx, details := m.ctx, m.details
	return func() tea.Msg {
		d, err := details.FetchMovie(ctx, title)
		return dialogOpenedMsg(d, err)
	}
}

func (m *Model) deleteAccount() tea.Cmd {
	ctx, profile := m.ctx, m.profile
	return func() tea.Msg {
		dest, err := profile.Delete(ctx, true)
		return accountDeletedMsg(dest, err)
	}
}

func (m *Model) profileView() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Profile"))
	b.WriteString("\n")

	if m.profile.User() == nil {
		b.WriteString(styles.dim.Render("Loading profile..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.editor.view())
	b.WriteString("\n")

	if len(m.favourites.Items()) == 0 {
		b.WriteString(styles.dim.Render("No favorite movies yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.favourites.View())
		b.WriteString("\n")
	}

	if m.confirmDelete {
		b.WriteString("\n")
		b.WriteString(styles.err.Render("Delete your account? This cannot be undone. (y/n)"))
		b.WriteString("\n")
	}
	return b.String()
}
