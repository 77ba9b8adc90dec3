package views

import "github.com/desertthunder/shadowkick/internal/router"

// Navbar is the top bar: login state and logout.
type Navbar struct {
	deps Deps
}

func NewNavbar(d Deps) *Navbar {
	return &Navbar{deps: d.withDefaults()}
}

// LoggedIn reports whether a token is stored. It is re-read on every call.
func (n *Navbar) LoggedIn() bool {
	return n.deps.Session.Authorized()
}

// Visible reports whether the bar shows on path. It is hidden on the welcome screen.
func (n *Navbar) Visible(path string) bool {
	return router.Clean(path) != router.Welcome
}

// Logout removes the session keys and returns to the welcome screen.
func (n *Navbar) Logout() router.Destination {
	n.deps.Session.Logout()
	n.deps.Logger.Info("logged out")
	return n.deps.navigate(router.Welcome)
}
