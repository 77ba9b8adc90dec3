// package router resolves screen paths and guards the ones that need a session
package router

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/shared"
)

const (
	Welcome = "/welcome"
	Movies  = "/movies"
	Profile = "/profile"
)

// State is the guard's view of the session at navigation time.
type State int

const (
	Unauthorized State = iota
	Authorized
)

func (s State) String() string {
	if s == Authorized {
		return "authorized"
	}
	return "unauthorized"
}

// AuthSource reports whether a session token is present.
type AuthSource interface {
	Authorized() bool
}

// Request is one navigation attempt.
type Request struct {
	Path  string
	State State
}

// Destination is where a navigation attempt ended up.
type Destination struct {
	Requested  string
	Path       string
	Redirected bool
}

// Handler resolves a [Request] to a [Destination].
type Handler func(Request) Destination

// Middleware wraps a Handler and returns a new Handler with additional behavior.
type Middleware func(Handler) Handler

type route struct {
	handler   Handler
	protected bool
}

// Router maps paths to handlers. Protected routes run behind [Guard].
type Router struct {
	mu          sync.RWMutex
	routes      map[string]route
	middlewares []Middleware
	auth        AuthSource
	current     string
	logger      *log.Logger
}

// New creates a Router with the welcome, movies and profile routes registered.
func New(auth AuthSource, logger *log.Logger) *Router {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	r := &Router{
		routes:  make(map[string]route),
		auth:    auth,
		current: Welcome,
		logger:  logger,
	}

	r.Handle(Welcome, false, nil)
	r.Handle(Movies, true, nil)
	r.Handle(Profile, true, nil)
	return r
}

// Use adds [Middleware] to the stack, applied in the order it's added.
func (r *Router) Use(middleware ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for path. A nil handler resolves to path itself.
func (r *Router) Handle(path string, protected bool, handler Handler) {
	path = Clean(path)
	if handler == nil {
		handler = func(req Request) Destination {
			return Destination{Requested: req.Path, Path: path}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[path] = route{handler: handler, protected: protected}
}

// Protected reports whether path is registered behind the guard.
func (r *Router) Protected(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.routes[Clean(path)]
	return ok && rt.protected
}

// State evaluates the guard state from the auth source.
func (r *Router) State() State {
	if r.auth != nil && r.auth.Authorized() {
		return Authorized
	}
	return Unauthorized
}

// Navigate resolves path and makes the result current.
//
// Empty and unknown paths redirect to [Welcome].
func (r *Router) Navigate(path string) Destination {
	requested := Clean(path)
	req := Request{Path: requested, State: r.State()}

	r.mu.RLock()
	rt, ok := r.routes[requested]
	handler := r.apply(rt, ok)
	r.mu.RUnlock()

	dest := handler(req)
	if dest.Requested == "" {
		dest.Requested = requested
	}

	r.mu.Lock()
	r.current = dest.Path
	r.mu.Unlock()

	return dest
}

// Current returns the path of the last navigation.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// apply wraps a route's handler with the guard (innermost) and the registered middleware.
//
// Middleware is applied in reverse order (last added wraps first). Callers hold r.mu.
func (r *Router) apply(rt route, found bool) Handler {
	var wrapped Handler
	switch {
	case !found:
		wrapped = redirectTo(Welcome)
	case rt.protected:
		wrapped = Guard(rt.handler)
	default:
		wrapped = rt.handler
	}

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}

// Guard sends unauthorized requests to [Welcome] instead of next.
func Guard(next Handler) Handler {
	return func(req Request) Destination {
		if req.State != Authorized {
			return Destination{Requested: req.Path, Path: Welcome, Redirected: true}
		}
		return next(req)
	}
}

// Logging records each navigation and its outcome.
func Logging(logger *log.Logger) Middleware {
	return func(next Handler) Handler {
		return func(req Request) Destination {
			dest := next(req)
			logger.Debug("navigate", "requested", req.Path, "state", req.State, "path", dest.Path, "redirected", dest.Redirected)
			return dest
		}
	}
}

func redirectTo(path string) Handler {
	return func(req Request) Destination {
		return Destination{Requested: req.Path, Path: path, Redirected: true}
	}
}

// Clean normalizes a path to a leading slash without a trailing one. Empty stays empty.
func Clean(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
