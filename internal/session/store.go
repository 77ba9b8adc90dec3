package session

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/patrickmn/go-cache"
)

// Backend is a text key/value persistence layer.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}

// Store wraps a [Backend] with the never-fail write contract.
type Store struct {
	backend Backend
	logger  *log.Logger
}

// NewStore creates a Store. A nil logger discards output.
func NewStore(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Store{backend: backend, logger: logger}
}

// Get returns the value for key. Read failures are logged and reported as absent.
func (s *Store) Get(key string) (string, bool) {
	value, ok, err := s.backend.Get(key)
	if err != nil {
		s.logger.Error("session read failed", "key", key, "err", err)
		return "", false
	}
	return value, ok
}

// Set stores value under key.
func (s *Store) Set(key, value string) {
	if err := s.backend.Set(key, value); err != nil {
		s.logger.Error("session write failed", "key", key, "err", err)
	}
}

// Remove deletes key.
func (s *Store) Remove(key string) {
	if err := s.backend.Delete(key); err != nil {
		s.logger.Error("session remove failed", "key", key, "err", err)
	}
}

// Clear deletes every key.
func (s *Store) Clear() {
	if err := s.backend.Clear(); err != nil {
		s.logger.Error("session clear failed", "err", err)
	}
}

// MemoryBackend keeps entries in a go-cache map that never expires.
type MemoryBackend struct {
	items *cache.Cache
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.items.Set(key, value, cache.NoExpiration)
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.items.Delete(key)
	return nil
}

func (m *MemoryBackend) Clear() error {
	m.items.Flush()
	return nil
}
