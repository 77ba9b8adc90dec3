package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/desertthunder/shadowkick/internal/views"
)

func (m *Model) activateMovies() tea.Cmd {
	ctx, browser := m.ctx, m.browser
	return func() tea.Msg {
		return moviesLoadedMsg(browser.Activate(ctx))
	}
}

// syncPager clamps the page and cursor to the loaded catalogue.
func (m *Model) syncPager() {
	m.pager.PerPage = m.browser.PageSize()
	m.pager.SetTotalPages(len(m.browser.Movies()))
	if m.pager.Page >= m.pager.TotalPages {
		m.pager.Page = max(m.pager.TotalPages-1, 0)
	}
	m.browser.SetPage(m.pager.Page, 0)
	m.cursor = min(m.cursor, max(len(m.browser.Visible())-1, 0))
}

func (m *Model) selectedMovie() (models.Movie, bool) {
	visible := m.browser.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return models.Movie{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) setPage(page int) {
	if page < 0 || page >= max(m.browser.PageCount(), 1) {
		return
	}
	m.pager.Page = page
	m.browser.SetPage(page, 0)
	m.cursor = 0
}

func (m *Model) handleMoviesKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.browser.Visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.left):
		m.setPage(m.pager.Page - 1)
	case key.Matches(msg, m.keys.right):
		m.setPage(m.pager.Page + 1)
	case key.Matches(msg, m.keys.enter):
		if movie, ok := m.selectedMovie(); ok {
			d := m.details.OpenMovie(movie)
			m.dialog = &d
		}
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := m.selectedMovie(); ok {
			return m.toggleFavourite(movie.ID)
		}
	case key.Matches(msg, m.keys.genre):
		if movie, ok := m.selectedMovie(); ok {
			return m.openGenre(movie.Genre.Name)
		}
	case key.Matches(msg, m.keys.director):
		if movie, ok := m.selectedMovie(); ok {
			return m.openDirector(movie.Director.Name)
		}
	case key.Matches(msg, m.keys.reload):
		m.loading = true
		return m.activateMovies()
	case key.Matches(msg, m.keys.profile):
		return m.navigate(router.Profile)
	case key.Matches(msg, m.keys.logout):
		return m.logout()
	}
	return nil
}

func (m *Model) toggleFavourite(movieID string) tea.Cmd {
	ctx, browser := m.ctx, m.browser
	return func() tea.Msg {
		fav, err := browser.ToggleFavourite(ctx, movieID)
		return favouriteToggledMsg(movieID, fav, err)
	}
}

func (m *Model) moviesView() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Movies"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(styles.dim.Render("Loading movies..."))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.browser.Visible()
	if len(visible) == 0 {
		b.WriteString(styles.dim.Render("No movies found."))
		b.WriteString("\n")
		return b.String()
	}

	for i, movie := range visible {
		cursor, title := "  ", movie.Title
		if i == m.cursor {
			cursor, title = styles.selected.Render("> "), styles.selected.Render(title)
		}
		star := "  "
		if m.browser.IsFavourite(movie.ID) {
			star = styles.warn.Render("★ ")
		}
		meta := styles.dim.Render(fmt.Sprintf("  %s · %s", movie.Genre.Name, movie.Director.Name))
		b.WriteString(cursor + star + title + meta + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.pager.View())
	b.WriteString(styles.dim.Render(fmt.Sprintf("  page %d of %d", m.pager.Page+1, max(m.browser.PageCount(), 1))))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) dialogView() string {
	d := m.dialog
	var b strings.Builder
	b.WriteString(styles.title.Render(d.Title()))
	b.WriteString("\n")

	switch d.Kind {
	case views.GenreDialog:
		b.WriteString(d.Genre.Description)
	case views.DirectorDialog:
		b.WriteString(lifespan(*d.Director))
		b.WriteString(d.Director.Bio)
	default:
		movie := d.Movie
		b.WriteString(movie.Description)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s %s\n", styles.dim.Render("Genre:   "), movie.Genre.Name)
		fmt.Fprintf(&b, "%s %s\n", styles.dim.Render("Director:"), movie.Director.Name)
		if len(movie.Actors) > 0 {
			fmt.Fprintf(&b, "%s %s\n", styles.dim.Render("Actors:  "), strings.Join(movie.Actors, ", "))
		}
		if movie.ImagePath != "" {
			fmt.Fprintf(&b, "%s %s\n", styles.dim.Render("Poster:  "), movie.ImagePath)
		}
	}

	return styles.dialog.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func lifespan(d models.Director) string {
	birth, death := shared.FormatDate(d.Birth), shared.FormatDate(d.Death)
	switch {
	case birth == "":
		return ""
	case death == "":
		return styles.dim.Render("born "+birth) + "\n\n"
	default:
		return styles.dim.Render(birth+" to "+death) + "\n\n"
	}
}
