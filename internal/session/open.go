package session

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/repositories"
	"github.com/desertthunder/shadowkick/internal/shared"
)

// Open initializes the session backend described by cfg.
//
// An empty path or ":memory:" selects the in-process backend; anything else is a SQLite file
// that is migrated on open. Callers must Close the returned Session.
func Open(cfg shared.SessionConfig, db shared.DatabaseConfig, logger *log.Logger) (*Session, error) {
	if cfg.Path == "" || cfg.Path == shared.MemoryPath {
		return NewMemory(logger), nil
	}

	conn, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}
	shared.ConfigureDatabase(conn, cfg.Path, db.MaxOpenConns, db.MaxIdleConns)

	if err := shared.RunMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}

	s := New(NewStore(repositories.NewSessionRepository(conn), logger), logger)
	s.closer = conn
	return s, nil
}
