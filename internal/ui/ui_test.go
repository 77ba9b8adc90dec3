package ui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/services"
	"github.com/desertthunder/shadowkick/internal/session"
	tu "github.com/desertthunder/shadowkick/internal/testing"
	"github.com/desertthunder/shadowkick/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, api *tu.MockMovieAPI, loggedIn bool) (*Model, *session.Session) {
	t.Helper()
	sess := session.NewMemory(nil)
	if loggedIn {
		sess.Login("abc", "ana", &models.User{Username: "ana"})
	}
	m, err := NewModel(context.Background(), Options{API: api, Session: sess})
	require.NoError(t, err)
	return m, sess
}

// step runs cmd and feeds its message back into the model.
func step(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	return next
}

func press(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func catalogue(n int) []models.Movie {
	movies := make([]models.Movie, n)
	for i := range movies {
		movies[i] = models.Movie{
			ID:       fmt.Sprintf("m%d", i+1),
			Title:    fmt.Sprintf("Movie %d", i+1),
			Genre:    models.Genre{Name: "Drama"},
			Director: models.Director{Name: "Ridley Scott"},
		}
	}
	return movies
}

// openMovies lands a logged in model on the catalogue with n movies loaded.
func openMovies(t *testing.T, api *tu.MockMovieAPI, n int) (*Model, *session.Session) {
	t.Helper()
	api.GetMoviesFn = func(context.Context) ([]models.Movie, error) { return catalogue(n), nil }
	m, sess := newTestModel(t, api, true)
	step(t, m, m.navigate(router.Movies))
	require.Equal(t, router.Movies, m.Path())
	return m, sess
}

func TestModel(t *testing.T) {
	t.Run("requires an API", func(t *testing.T) {
		_, err := NewModel(context.Background(), Options{})
		assert.Error(t, err)
	})

	t.Run("init without a session lands on welcome", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockMovieAPI{}, false)
		assert.NotNil(t, m.Init())
		assert.Equal(t, router.Welcome, m.Path())
		assert.Contains(t, m.View(), "Log in")
		assert.NotContains(t, m.View(), "logged in as")
	})

	t.Run("init with a session opens movies", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockMovieAPI{}, true)
		m.Init()
		assert.Equal(t, router.Movies, m.Path())
		assert.Contains(t, m.View(), "Loading movies...")
	})

	t.Run("notices are shown", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockMovieAPI{}, false)
		next := step(t, m, func() tea.Msg {
			return noticeMsg(views.Notice{Level: views.LevelError, Message: "boom"})
		})
		assert.NotNil(t, next, "the notice listener is re-armed")
		assert.Contains(t, m.View(), "boom")
	})

	t.Run("ctrl+c quits from any screen", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockMovieAPI{}, false)
		cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestWelcome(t *testing.T) {
	t.Run("login opens the catalogue", func(t *testing.T) {
		api := &tu.MockMovieAPI{}
		m, sess := newTestModel(t, api, false)
		api.LoginFn = func(_ context.Context, c models.Credentials) (*models.LoginResponse, error) {
			assert.Equal(t, models.Credentials{Username: "ana", Password: "secret"}, c)
			sess.Login("abc", c.Username, nil)
			return &models.LoginResponse{Token: "abc", User: models.User{Username: c.Username}}, nil
		}
		api.GetMoviesFn = func(context.Context) ([]models.Movie, error) { return catalogue(2), nil }

		m.login.set(0, " ana ")
		m.login.set(1, "secret")

		press(m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, 1, m.login.focus, "enter on the first field moves focus")

		cmd := step(t, m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
		assert.Equal(t, router.Movies, m.Path())

		step(t, m, cmd)
		view := m.View()
		assert.Contains(t, view, "Movie 1")
		assert.Contains(t, view, "logged in as ana")
	})

	t.Run("failed login stays and clears the password", func(t *testing.T) {
		api := &tu.MockMovieAPI{
			LoginFn: func(context.Context, models.Credentials) (*models.LoginResponse, error) {
				return nil, &services.APIError{StatusCode: 400, Backend: services.ParseBackendError([]byte(`"Invalid credentials"`))}
			},
		}
		m, _ := newTestModel(t, api, false)
		m.login.set(0, "ana")
		m.login.set(1, "wrong")

		step(t, m, m.submitLogin())

		assert.Equal(t, router.Welcome, m.Path())
		assert.Empty(t, m.login.raw(1))
		n := <-m.notices
		assert.Equal(t, views.Notice{Level: views.LevelError, Message: "Invalid credentials"}, n)
	})

	t.Run("sign up prefills the login form", func(t *testing.T) {
		api := &tu.MockMovieAPI{}
		m, _ := newTestModel(t, api, false)

		press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
		require.True(t, m.registering)
		assert.Contains(t, m.View(), "Sign up")

		m.signup.set(0, "anabel")
		m.signup.set(1, "secret")
		m.signup.set(2, "ana@example.com")
		m.signup.setFocus(3)

		step(t, m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))

		assert.Equal(t, 1, api.Called("Register"))
		assert.False(t, m.registering)
		assert.Equal(t, "anabel", m.login.value(0))
		assert.Equal(t, 1, m.login.focus)
		assert.Equal(t, views.LevelSuccess, (<-m.notices).Level)
	})

	t.Run("tab cycles fields", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockMovieAPI{}, false)
		press(m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, 1, m.login.focus)
		press(m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, 0, m.login.focus)
		press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
		assert.Equal(t, 1, m.login.focus)
	})
}

func TestMovies(t *testing.T) {
	t.Run("pages through the catalogue", func(t *testing.T) {
		m, _ := openMovies(t, &tu.MockMovieAPI{}, 8)

		assert.Contains(t, m.View(), "Movie 6")
		assert.NotContains(t, m.View(), "Movie 7")
		assert.Contains(t, m.View(), "page 1 of 2")

		press(m, runes("l"))
		assert.Equal(t, 1, m.browser.PageIndex())
		assert.Contains(t, m.View(), "Movie 8")
		assert.NotContains(t, m.View(), "Movie 6")

		press(m, runes("l"))
		assert.Equal(t, 1, m.browser.PageIndex(), "stays on the last page")

		press(m, runes("h"))
		assert.Equal(t, 0, m.browser.PageIndex())
	})

	t.Run("cursor stays on the page", func(t *testing.T) {
		m, _ := openMovies(t, &tu.MockMovieAPI{}, 2)
		press(m, runes("k"))
		assert.Equal(t, 0, m.cursor)
		press(m, runes("j"))
		press(m, runes("j"))
		assert.Equal(t, 1, m.cursor)
	})

	t.Run("toggles the selected favourite", func(t *testing.T) {
		api := &tu.MockMovieAPI{}
		m, sess := openMovies(t, api, 3)
		press(m, runes("j"))

		step(t, m, press(m, runes("f")))

		assert.Equal(t, 1, api.Called("AddFavourite"))
		assert.True(t, m.browser.IsFavourite("m2"))
		assert.Contains(t, m.View(), "★")
		_, ok := sess.Username()
		assert.True(t, ok)
	})

	t.Run("empty catalogue", func(t *testing.T) {
		m, _ := openMovies(t, &tu.MockMovieAPI{}, 0)
		assert.Contains(t, m.View(), "No movies found.")
		assert.Nil(t, press(m, runes("f")))
	})

	t.Run("load failure still renders", func(t *testing.T) {
		api := &tu.MockMovieAPI{
			GetMoviesFn: func(context.Context) ([]models.Movie, error) {
				return nil, fmt.Errorf("offline")
			},
		}
		m, _ := newTestModel(t, api, true)
		step(t, m, m.navigate(router.Movies))
		assert.False(t, m.loading)
		assert.Equal(t, "offline", (<-m.notices).Message)
	})

	t.Run("logout returns to welcome", func(t *testing.T) {
		m, sess := openMovies(t, &tu.MockMovieAPI{}, 1)
		press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
		assert.Equal(t, router.Welcome, m.Path())
		assert.False(t, sess.Authorized())
	})
}

func TestDialogs(t *testing.T) {
	t.Run("movie dialog leads to genre and director", func(t *testing.T) {
		api := &tu.MockMovieAPI{
			GetGenreFn: func(_ context.Context, name string) (*models.Genre, error) {
				return &models.Genre{Name: name, Description: "Serious stories."}, nil
			},
			GetDirectorFn: func(_ context.Context, name string) (*models.Director, error) {
				return &models.Director{Name: name, Bio: "English director.", Birth: "1937-11-30"}, nil
			},
		}
		m, _ := openMovies(t, api, 1)

		press(m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, m.dialog)
		assert.Equal(t, views.MovieDialog, m.dialog.Kind)
		assert.Contains(t, m.View(), "Ridley Scott")

		step(t, m, press(m, runes("g")))
		assert.Equal(t, views.GenreDialog, m.dialog.Kind)
		assert.Contains(t, m.View(), "Serious stories.")

		press(m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Nil(t, m.dialog)

		step(t, m, press(m, runes("d")))
		assert.Equal(t, views.DirectorDialog, m.dialog.Kind)
		assert.Contains(t, m.View(), "born 1937-11-30")
	})

	t.Run("failed lookup keeps the dialog closed", func(t *testing.T) {
		api := &tu.MockMovieAPI{
			GetGenreFn: func(context.Context, string) (*models.Genre, error) {
				return nil, fmt.Errorf("not found")
			},
		}
		m, _ := openMovies(t, api, 1)
		step(t, m, press(m, runes("g")))
		assert.Nil(t, m.dialog)
	})
}

func TestProfile(t *testing.T) {
	user := func(context.Context, string) (*models.User, error) {
		return &models.User{
			Username:   "ana",
			Email:      "ana@example.com",
			Birthday:   "1990-01-02T00:00:00.000Z",
			Favourites: []models.Favourite{{MovieID: "m1"}, {MovieID: "zz"}},
		}, nil
	}

	openProfile := func(t *testing.T, api *tu.MockMovieAPI) *Model {
		t.Helper()
		api.GetUserFn = user
		m, _ := openMovies(t, api, 2)
		step(t, m, press(m, runes("p")))
		require.Equal(t, router.Profile, m.Path())
		return m
	}

	t.Run("loads the form and favourites", func(t *testing.T) {
		m := openProfile(t, &tu.MockMovieAPI{})

		assert.Equal(t, "ana@example.com", m.editor.value(fieldEmail))
		assert.Equal(t, "1990-01-02", m.editor.value(fieldBirthday))
		assert.Empty(t, m.editor.raw(fieldPassword))

		items := m.favourites.Items()
		require.Len(t, items, 2)
		assert.Equal(t, favouriteItem{id: "m1", title: "Movie 1"}, items[0])
		assert.Equal(t, favouriteItem{id: "zz", title: "zz"}, items[1])
	})

	t.Run("saves only changed fields", func(t *testing.T) {
		var got models.UserUpdate
		api := &tu.MockMovieAPI{
			UpdateUserFn: func(_ context.Context, u models.UserUpdate) (*models.User, error) {
				got = u
				return nil, nil
			},
		}
		m := openProfile(t, api)
		m.editor.set(fieldEmail, "new@example.com")

		step(t, m, press(m, tea.KeyMsg{Type: tea.KeyCtrlS}))

		assert.Equal(t, models.UserUpdate{NewEmail: "new@example.com"}, got)
		assert.Equal(t, 2, api.Called("GetUser"), "reloaded after saving")
	})

	t.Run("unchanged form sends nothing", func(t *testing.T) {
		api := &tu.MockMovieAPI{}
		m := openProfile(t, api)
		step(t, m, press(m, tea.KeyMsg{Type: tea.KeyCtrlS}))
		assert.Zero(t, api.Called("UpdateUser"))
		assert.Equal(t, views.Notice{Level: views.LevelInfo, Message: "No changes detected."}, <-m.notices)
	})

	t.Run("removes the selected favourite", func(t *testing.T) {
		api := &tu.MockMovieAPI{}
		m := openProfile(t, api)
		m.editor.setFocus(len(m.editor.inputs))

		step(t, m, press(m, runes("x")))

		assert.Equal(t, 1, api.Called("RemoveFavourite"))
		require.Len(t, m.favourites.Items(), 1)
		assert.Equal(t, "zz", m.favourites.Items()[0].(favouriteItem).id)
	})

	t.Run("delete asks first", func(t *testing.T) {
		api := &tu.MockMovieAPI{}
		m := openProfile(t, api)

		press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
		assert.True(t, m.confirmDelete)
		assert.Contains(t, m.View(), "(y/n)")

		press(m, runes("n"))
		assert.False(t, m.confirmDelete)
		assert.Zero(t, api.Called("DeleteUser"))
	})

	t.Run("confirmed delete clears the session", func(t *testing.T) {
		api := &tu.MockMovieAPI{GetUserFn: user}
		m, sess := openMovies(t, api, 1)
		step(t, m, press(m, runes("p")))

		press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
		step(t, m, press(m, runes("y")))

		assert.Equal(t, 1, api.Called("DeleteUser"))
		assert.Equal(t, router.Welcome, m.Path())
		assert.False(t, sess.Authorized())
		_, ok := sess.Username()
		assert.False(t, ok)
	})

	t.Run("esc returns to movies", func(t *testing.T) {
		m := openProfile(t, &tu.MockMovieAPI{})
		cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.NotNil(t, cmd)
		assert.Equal(t, router.Movies, m.Path())
	})

	t.Run("guarded without a session", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockMovieAPI{}, false)
		m.navigate(router.Profile)
		assert.Equal(t, router.Welcome, m.Path())
	})
}
