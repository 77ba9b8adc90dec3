package session

import (
	"encoding/json"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/shared"
	"golang.org/x/oauth2"
)

// Fixed session keys.
const (
	KeyToken      = "token"
	KeyUsername   = "username"
	KeyUser       = "user"
	KeyRegistered = "isRegistered"
)

// Session is the typed view over a [Store].
type Session struct {
	store  *Store
	logger *log.Logger
	closer io.Closer

	mu sync.Mutex // serializes read-modify-write of KeyUser
}

// New creates a Session over store. A nil logger discards output.
func New(store *Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Session{store: store, logger: logger}
}

// NewMemory creates a Session that lives only as long as the process.
func NewMemory(logger *log.Logger) *Session {
	return New(NewStore(NewMemoryBackend(), logger), logger)
}

// Close releases the backing database, if any.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Token returns the stored bearer token.
func (s *Session) Token() (string, bool) {
	tok, ok := s.store.Get(KeyToken)
	return tok, ok && tok != ""
}

// Authorized reports whether a token is present.
func (s *Session) Authorized() bool {
	_, ok := s.Token()
	return ok
}

// Username returns the name stored at login.
func (s *Session) Username() (string, bool) {
	name, ok := s.store.Get(KeyUsername)
	return name, ok && name != ""
}

// CurrentUsername resolves the account name for user-scoped requests:
// the cached user's name first, then the login name.
func (s *Session) CurrentUsername() (string, bool) {
	if u, ok := s.CachedUser(); ok && u.Username != "" {
		return u.Username, true
	}
	return s.Username()
}

// SetUsername replaces the stored login name.
func (s *Session) SetUsername(name string) {
	s.store.Set(KeyUsername, name)
}

// CachedUser decodes the cached user record.
func (s *Session) CachedUser() (*models.User, bool) {
	raw, ok := s.store.Get(KeyUser)
	if !ok || raw == "" {
		return nil, false
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Error("cached user is not valid JSON", "err", err)
		return nil, false
	}
	return &u, true
}

// SetCachedUser replaces the cached user record.
func (s *Session) SetCachedUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeUser(u)
}

// UpdateUser applies fn to the latest cached user (or an empty one) and stores the result.
func (s *Session) UpdateUser(fn func(u *models.User)) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.CachedUser()
	if !ok {
		u = &models.User{}
	}
	fn(u)
	s.writeUser(u)
	return u
}

func (s *Session) writeUser(u *models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		s.logger.Error("failed to encode cached user", "err", err)
		return
	}
	s.store.Set(KeyUser, string(data))
}

// SetFavourites replaces the cached favourites list.
func (s *Session) SetFavourites(favs []models.Favourite) {
	s.UpdateUser(func(u *models.User) {
		u.Favourites = slices.Clone(favs)
	})
}

// AddFavourite appends movieID to the cached favourites unless it is already present.
func (s *Session) AddFavourite(movieID string) {
	s.UpdateUser(func(u *models.User) {
		if !u.HasFavourite(movieID) {
			u.Favourites = append(u.Favourites, models.Favourite{MovieID: movieID})
		}
	})
}

// RemoveFavourite drops movieID from the cached favourites.
func (s *Session) RemoveFavourite(movieID string) {
	s.UpdateUser(func(u *models.User) {
		u.Favourites = slices.DeleteFunc(u.Favourites, func(f models.Favourite) bool {
			return f.MovieID == movieID
		})
	})
}

// Login stores the token, the login name and, when given, the user record.
func (s *Session) Login(token, username string, user *models.User) {
	s.store.Set(KeyToken, token)
	s.store.Set(KeyUsername, username)
	if user != nil {
		s.SetCachedUser(user)
	}
}

// MarkRegistered records a successful sign-up.
func (s *Session) MarkRegistered() {
	s.store.Set(KeyRegistered, "true")
}

// IsRegistered reports whether sign-up completed in this session.
func (s *Session) IsRegistered() bool {
	v, ok := s.store.Get(KeyRegistered)
	return ok && v == "true"
}

// Logout removes every session key.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{KeyToken, KeyUser, KeyRegistered, KeyUsername} {
		s.store.Remove(key)
	}
}

// Clear wipes the backing store.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear()
}

// TokenSource exposes the stored token as an [oauth2.TokenSource].
//
// Token returns [shared.ErrNotAuthenticated] while no token is stored.
func (s *Session) TokenSource() oauth2.TokenSource {
	return tokenSource{s: s}
}

type tokenSource struct {
	s *Session
}

func (t tokenSource) Token() (*oauth2.Token, error) {
	tok, ok := t.s.Token()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}
