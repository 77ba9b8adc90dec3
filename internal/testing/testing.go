// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/shadowkick/internal/models"
)

// MockMovieAPI is a test double for [services.MovieAPI].
//
// Each field overrides one operation; unset fields return a canned success. Calls records the
// operation names in call order.
type MockMovieAPI struct {
	mu    sync.Mutex
	Calls []string

	RegisterFn        func(ctx context.Context, reg models.Registration) (*models.User, error)
	LoginFn           func(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	GetUserFn         func(ctx context.Context, username string) (*models.User, error)
	UpdateUserFn      func(ctx context.Context, update models.UserUpdate) (*models.User, error)
	DeleteUserFn      func(ctx context.Context) error
	GetMoviesFn       func(ctx context.Context) ([]models.Movie, error)
	GetMovieFn        func(ctx context.Context, title string) (*models.Movie, error)
	GetDirectorFn     func(ctx context.Context, name string) (*models.Director, error)
	GetGenreFn        func(ctx context.Context, name string) (*models.Genre, error)
	GetFavouritesFn   func(ctx context.Context) ([]string, error)
	AddFavouriteFn    func(ctx context.Context, movieID string) error
	RemoveFavouriteFn func(ctx context.Context, movieID string) error
}

func (m *MockMovieAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
}

// Called returns how many times the named operation ran.
func (m *MockMovieAPI) Called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *MockMovieAPI) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	m.record("Register")
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, reg)
	}
	return &models.User{Username: reg.Username, Email: reg.Email}, nil
}

func (m *MockMovieAPI) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	m.record("Login")
	if m.LoginFn != nil {
		return m.LoginFn(ctx, creds)
	}
	return &models.LoginResponse{Token: "token", User: models.User{Username: creds.Username}}, nil
}

func (m *MockMovieAPI) GetUser(ctx context.Context, username string) (*models.User, error) {
	m.record("GetUser")
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, username)
	}
	return &models.User{Username: username}, nil
}

func (m *MockMovieAPI) UpdateUser(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	m.record("UpdateUser")
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, update)
	}
	return nil, nil
}

func (m *MockMovieAPI) DeleteUser(ctx context.Context) error {
	m.record("DeleteUser")
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx)
	}
	return nil
}

func (m *MockMovieAPI) GetMovies(ctx context.Context) ([]models.Movie, error) {
	m.record("GetMovies")
	if m.GetMoviesFn != nil {
		return m.GetMoviesFn(ctx)
	}
	return []models.Movie{}, nil
}

func (m *MockMovieAPI) GetMovie(ctx context.Context, title string) (*models.Movie, error) {
	m.record("GetMovie")
	if m.GetMovieFn != nil {
		return m.GetMovieFn(ctx, title)
	}
	return &models.Movie{Title: title}, nil
}

func (m *MockMovieAPI) GetDirector(ctx context.Context, name string) (*models.Director, error) {
	m.record("GetDirector")
	if m.GetDirectorFn != nil {
		return m.GetDirectorFn(ctx, name)
	}
	return &models.Director{Name: name}, nil
}

func (m *MockMovieAPI) GetGenre(ctx context.Context, name string) (*models.Genre, error) {
	m.record("GetGenre")
	if m.GetGenreFn != nil {
		return m.GetGenreFn(ctx, name)
	}
	return &models.Genre{Name: name}, nil
}

func (m *MockMovieAPI) GetFavourites(ctx context.Context) ([]string, error) {
	m.record("GetFavourites")
	if m.GetFavouritesFn != nil {
		return m.GetFavouritesFn(ctx)
	}
	return []string{}, nil
}

func (m *MockMovieAPI) AddFavourite(ctx context.Context, movieID string) error {
	m.record("AddFavourite")
	if m.AddFavouriteFn != nil {
		return m.AddFavouriteFn(ctx, movieID)
	}
	return nil
}

func (m *MockMovieAPI) RemoveFavourite(ctx context.Context, movieID string) error {
	m.record("RemoveFavourite")
	if m.RemoveFavouriteFn != nil {
		return m.RemoveFavouriteFn(ctx, movieID)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
