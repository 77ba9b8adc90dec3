package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/services"
	"github.com/desertthunder/shadowkick/internal/session"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/desertthunder/shadowkick/internal/views"
)

const noticeBuffer = 16

// Options configure a [Model].
type Options struct {
	API             services.MovieAPI
	Session         *session.Session
	Logger          *log.Logger
	PageSize        int
	DetailCacheSize int
}

// Model is the root bubbletea model. The router decides which screen is drawn.
type Model struct {
	ctx     context.Context
	api     services.MovieAPI
	session *session.Session
	router  *router.Router
	logger  *log.Logger
	notices chan views.Notice

	browser *views.MovieBrowser
	details *views.Details
	profile *views.ProfileEditor
	navbar  *views.Navbar

	path   string
	keys   keyMap
	help   help.Model
	notice *views.Notice
	width  int
	height int

	// welcome
	registering bool
	login       form
	signup      form

	// movies
	cursor  int
	pager   paginator.Model
	loading bool
	dialog  *views.Dialog

	// profile
	editor        form
	favourites    list.Model
	confirmDelete bool
}

var _ tea.Model = (*Model)(nil)

// NewModel wires the views to api and sess.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.API == nil {
		return nil, fmt.Errorf("%w: movie API is required", shared.ErrMissingArgument)
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	sess := opts.Session
	if sess == nil {
		sess = session.NewMemory(logger)
	}

	m := &Model{
		ctx:     ctx,
		api:     opts.API,
		session: sess,
		logger:  logger,
		notices: make(chan views.Notice, noticeBuffer),
		keys:    newKeyMap(),
		help:    help.New(),
		path:    router.Welcome,
	}

	m.router = router.New(sess, logger)
	m.router.Use(router.Logging(logger))

	deps := views.Deps{
		API:     opts.API,
		Session: sess,
		Router:  m.router,
		Notices: m.notices,
		Logger:  logger,
	}

	details, err := views.NewDetails(deps, opts.DetailCacheSize)
	if err != nil {
		return nil, err
	}

	m.details = details
	m.browser = views.NewMovieBrowser(deps, opts.PageSize)
	m.profile = views.NewProfileEditor(deps)
	m.navbar = views.NewNavbar(deps)

	m.pager = paginator.New()
	m.pager.Type = paginator.Dots
	m.pager.PerPage = m.browser.PageSize()
	m.pager.ActiveDot = styles.selected.Render("•")
	m.pager.InactiveDot = styles.dim.Render("•")

	m.login = newLoginForm()
	m.signup = newSignupForm()
	m.editor = newProfileForm()
	m.favourites = newFavouriteList()

	return m, nil
}

// Path is the current screen.
func (m *Model) Path() string {
	return m.path
}

// Init starts listening for notices and opens the catalogue, or the welcome screen when logged out.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForNotice(), m.navigate(router.Movies))
}

// waitForNotice blocks on the notice channel. Each delivered notice re-arms it.
func (m *Model) waitForNotice() tea.Cmd {
	ch := m.notices
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

// navigate asks the router for path and prepares the screen it lands on.
func (m *Model) navigate(path string) tea.Cmd {
	dest := m.router.Navigate(path)
	return m.enter(dest)
}

func (m *Model) enter(dest router.Destination) tea.Cmd {
	m.path = dest.Path
	m.dialog = nil
	m.confirmDelete = false

	switch dest.Path {
	case router.Movies:
		m.loading = true
		return m.activateMovies()
	case router.Profile:
		m.editor.setFocus(0)
		return m.loadProfile()
	default:
		m.registering = false
		m.login.reset()
		return nil
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.favourites.SetSize(max(msg.Width-4, 20), max(msg.Height/3, 6))
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQ) {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	case Msg:
		return m, m.handleMsg(msg)
	}

	return m, m.forward(msg)
}

// forward hands non-key messages such as cursor blinks to the focused inputs.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch m.path {
	case router.Welcome:
		return m.activeForm().update(msg)
	case router.Profile:
		return m.editor.update(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.dialog != nil {
		return m.handleDialogKey(msg)
	}

	switch m.path {
	case router.Movies:
		return m.handleMoviesKey(msg)
	case router.Profile:
		return m.handleProfileKey(msg)
	default:
		return m.handleWelcomeKey(msg)
	}
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgNotice:
		n := msg.data.(views.Notice)
		m.notice = &n
		return m.waitForNotice()
	case MsgLoggedIn:
		if msg.err != nil {
			m.login.set(1, "")
			return nil
		}
		return m.navigate(router.Movies)
	case MsgRegistered:
		if msg.err != nil {
			return nil
		}
		username := m.signup.value(0)
		m.signup.reset()
		m.registering = false
		m.login.reset()
		m.login.set(0, username)
		return m.login.setFocus(1)
	case MsgMoviesLoaded:
		m.loading = false
		m.syncPager()
		return nil
	case MsgFavouriteToggled:
		if t, ok := msg.data.(toggled); ok && msg.err == nil {
			m.logger.Debug("favourite toggled", "movie", t.movieID, "favourite", t.favourite)
		}
		return nil
	case MsgDialogOpened:
		if msg.err != nil {
			return nil
		}
		d := msg.data.(views.Dialog)
		m.dialog = &d
		return nil
	case MsgProfileLoaded:
		if msg.err != nil {
			return nil
		}
		m.fillEditor()
		return m.syncFavourites()
	case MsgProfileSaved:
		if msg.err == nil {
			m.fillEditor()
		}
		return nil
	case MsgFavouriteRemoved:
		return m.syncFavourites()
	case MsgAccountDeleted:
		m.confirmDelete = false
		if msg.err != nil {
			return nil
		}
		return m.enter(msg.data.(router.Destination))
	}
	return nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.dialog = nil
	case key.Matches(msg, m.keys.genre) && m.dialog.Kind == views.MovieDialog:
		return m.openGenre(m.dialog.Movie.Genre.Name)
	case key.Matches(msg, m.keys.director) && m.dialog.Kind == views.MovieDialog:
		return m.openDirector(m.dialog.Movie.Director.Name)
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) openGenre(name string) tea.Cmd {
	ctx, details := m.ctx, m.details
	return func() tea.Msg {
		d, err := details.OpenGenre(ctx, name)
		return dialogOpenedMsg(d, err)
	}
}

func (m *Model) openDirector(name string) tea.Cmd {
	ctx, details := m.ctx, m.details
	return func() tea.Msg {
		d, err := details.OpenDirector(ctx, name)
		return dialogOpenedMsg(d, err)
	}
}

func (m *Model) logout() tea.Cmd {
	return m.enter(m.navbar.Logout())
}

func (m *Model) View() string {
	var b strings.Builder

	if m.navbar.Visible(m.path) {
		b.WriteString(m.navView())
		b.WriteString("\n\n")
	}

	switch {
	case m.dialog != nil:
		b.WriteString(m.dialogView())
	case m.path == router.Movies:
		b.WriteString(m.moviesView())
	case m.path == router.Profile:
		b.WriteString(m.profileView())
	default:
		b.WriteString(m.welcomeView())
	}

	if n := m.notice; n != nil {
		b.WriteString("\n")
		b.WriteString(noticeView(*n))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.bindings()))
	return b.String()
}

func (m *Model) navView() string {
	tabs := []string{"Movies", "Profile"}
	for i, p := range []string{router.Movies, router.Profile} {
		if p == m.path {
			tabs[i] = styles.nav.Underline(true).Render(tabs[i])
		} else {
			tabs[i] = styles.dim.Padding(0, 1).Render(tabs[i])
		}
	}

	status := styles.dim.Render("logged out")
	if m.navbar.LoggedIn() {
		if name, ok := m.session.CurrentUsername(); ok {
			status = styles.help.Render("logged in as " + name)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, styles.title.UnsetMarginBottom().Render("ShadowKick"), "  ", tabs[0], tabs[1], "  ", status)
}

func noticeView(n views.Notice) string {
	switch n.Level {
	case views.LevelSuccess:
		return styles.ok.Render(n.Message)
	case views.LevelError:
		return styles.err.Render(n.Message)
	default:
		return styles.warn.Render(n.Message)
	}
}

// bindings is the help line for the current screen.
func (m *Model) bindings() []key.Binding {
	k := m.keys
	switch {
	case m.dialog != nil && m.dialog.Kind == views.MovieDialog:
		return []key.Binding{k.genre, k.director, k.back}
	case m.dialog != nil:
		return []key.Binding{k.back}
	case m.path == router.Movies:
		return []key.Binding{k.up, k.down, k.left, k.right, k.enter, k.favorite, k.genre, k.director, k.profile, k.logout, k.quit}
	case m.path == router.Profile && m.confirmDelete:
		return []key.Binding{k.yes, k.no}
	case m.path == router.Profile:
		return []key.Binding{k.next, k.save, k.remove, k.delete, k.back, k.logout, k.forceQ}
	default:
		return []key.Binding{k.next, k.enter, k.mode, k.forceQ}
	}
}

// notify is used by commands that report outcomes the views do not.
func notify(ch chan<- views.Notice, n views.Notice) {
	select {
	case ch <- n:
	default:
	}
}

func errorNotice(err error) views.Notice {
	return views.Notice{Level: views.LevelError, Message: services.NormalizeError(err)}
}

func successNotice(message string) views.Notice {
	return views.Notice{Level: views.LevelSuccess, Message: message}
}
