package session

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/shadowkick/internal/models"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend errors on every call.
type failingBackend struct{}

func (failingBackend) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingBackend) Set(string, string) error         { return errors.New("disk gone") }
func (failingBackend) Delete(string) error              { return errors.New("disk gone") }
func (failingBackend) Clear() error                     { return errors.New("disk gone") }

func TestStore(t *testing.T) {
	t.Run("Memory Round Trip", func(t *testing.T) {
		store := NewStore(NewMemoryBackend(), nil)

		_, ok := store.Get("token")
		assert.False(t, ok)

		store.Set("token", "abc")
		v, ok := store.Get("token")
		assert.True(t, ok)
		assert.Equal(t, "abc", v)

		store.Remove("token")
		_, ok = store.Get("token")
		assert.False(t, ok)

		store.Set("a", "1")
		store.Set("b", "2")
		store.Clear()
		_, ok = store.Get("a")
		assert.False(t, ok)
	})

	t.Run("Failures Are Logged Not Raised", func(t *testing.T) {
		var buf bytes.Buffer
		store := NewStore(failingBackend{}, shared.NewLogger(&buf))

		assert.NotPanics(t, func() {
			store.Set("token", "abc")
			store.Remove("token")
			store.Clear()
		})
		_, ok := store.Get("token")
		assert.False(t, ok)
		assert.Contains(t, buf.String(), "session write failed")
		assert.Contains(t, buf.String(), "disk gone")
	})
}

func TestSession(t *testing.T) {
	t.Run("Login Persists Token And Username", func(t *testing.T) {
		s := NewMemory(nil)
		s.Login("abc", "ana", nil)

		tok, ok := s.Token()
		require.True(t, ok)
		assert.Equal(t, "abc", tok)

		name, ok := s.Username()
		require.True(t, ok)
		assert.Equal(t, "ana", name)
		assert.True(t, s.Authorized())
	})

	t.Run("CurrentUsername Prefers Cached User", func(t *testing.T) {
		s := NewMemory(nil)
		s.Login("abc", "ana", nil)

		name, _ := s.CurrentUsername()
		assert.Equal(t, "ana", name)

		s.SetCachedUser(&models.User{Username: "ana2"})
		name, _ = s.CurrentUsername()
		assert.Equal(t, "ana2", name)
	})

	t.Run("Empty Token Is Absent", func(t *testing.T) {
		s := NewMemory(nil)
		s.store.Set(KeyToken, "")
		assert.False(t, s.Authorized())
	})

	t.Run("Corrupt Cached User Is Absent", func(t *testing.T) {
		s := NewMemory(nil)
		s.store.Set(KeyUser, "{not json")
		_, ok := s.CachedUser()
		assert.False(t, ok)
	})

	t.Run("Favourites Stay Unique", func(t *testing.T) {
		s := NewMemory(nil)
		s.SetCachedUser(&models.User{Username: "ana"})

		s.AddFavourite("m1")
		s.AddFavourite("m1")
		s.AddFavourite("m2")
		s.RemoveFavourite("m1")

		u, ok := s.CachedUser()
		require.True(t, ok)
		assert.Equal(t, []string{"m2"}, u.FavouriteIDs())
		assert.Equal(t, "ana", u.Username)
	})

	t.Run("Concurrent Updates Are Not Lost", func(t *testing.T) {
		s := NewMemory(nil)
		s.SetCachedUser(&models.User{Username: "ana"})

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s.AddFavourite(string(rune('A' + i)))
			}(i)
		}
		wg.Wait()

		u, _ := s.CachedUser()
		assert.Len(t, u.Favourites, 50)
	})

	t.Run("Logout Clears Every Key", func(t *testing.T) {
		s := NewMemory(nil)
		s.Login("abc", "ana", &models.User{Username: "ana"})
		s.MarkRegistered()
		require.True(t, s.IsRegistered())

		s.Logout()

		assert.False(t, s.Authorized())
		assert.False(t, s.IsRegistered())
		_, ok := s.CachedUser()
		assert.False(t, ok)
		_, ok = s.Username()
		assert.False(t, ok)
	})

	t.Run("TokenSource", func(t *testing.T) {
		s := NewMemory(nil)
		_, err := s.TokenSource().Token()
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

		s.Login("abc", "ana", nil)
		tok, err := s.TokenSource().Token()
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		tok.SetAuthHeader(req)
		assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	})
}

func fakeJWT(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + "." +
		enc.EncodeToString([]byte("sig"))
}

func TestClaims(t *testing.T) {
	t.Run("Decodes Payload", func(t *testing.T) {
		s := NewMemory(nil)
		s.Login(fakeJWT(`{"sub":"ana","Username":"ana","iat":1700000000,"exp":1700086400}`), "ana", nil)

		c, err := s.Claims()
		require.NoError(t, err)
		assert.Equal(t, "ana", c.Subject)
		assert.Equal(t, "ana", c.Username)
		assert.Equal(t, int64(1700086400), c.ExpiresAt.Unix())
		assert.True(t, c.Expired(time.Unix(1800000000, 0)))
		assert.False(t, c.Expired(time.Unix(1700000001, 0)))
	})

	t.Run("No Token", func(t *testing.T) {
		_, err := NewMemory(nil).Claims()
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})

	t.Run("Opaque Token", func(t *testing.T) {
		s := NewMemory(nil)
		s.Login("abc", "ana", nil)
		_, err := s.Claims()
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestOpen(t *testing.T) {
	t.Run("Memory Path", func(t *testing.T) {
		s, err := Open(shared.SessionConfig{Path: shared.MemoryPath}, shared.DatabaseConfig{}, nil)
		require.NoError(t, err)
		defer s.Close()

		s.Login("abc", "ana", nil)
		assert.True(t, s.Authorized())
	})

	t.Run("SQLite File Survives Reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.db")

		s, err := Open(shared.SessionConfig{Path: path}, shared.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1}, nil)
		require.NoError(t, err)
		s.Login("abc", "ana", &models.User{Username: "ana", Favourites: models.NewFavourites([]string{"m1"})})
		require.NoError(t, s.Close())

		reopened, err := Open(shared.SessionConfig{Path: path}, shared.DatabaseConfig{}, nil)
		require.NoError(t, err)
		defer reopened.Close()

		tok, ok := reopened.Token()
		assert.True(t, ok)
		assert.Equal(t, "abc", tok)

		u, ok := reopened.CachedUser()
		require.True(t, ok)
		assert.Equal(t, []string{"m1"}, u.FavouriteIDs())
	})
}
