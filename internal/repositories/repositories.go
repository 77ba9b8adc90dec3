// package repositories provides persistence layer implementations for client state.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRepository stores session values in the session_entries table.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get retrieves the value stored under key.
//
// The boolean is false when no row exists.
func (r *SessionRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM session_entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query session entry %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (r *SessionRepository) Set(key, value string) error {
	query := `
		INSERT INTO session_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write session entry %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SessionRepository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM session_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete session entry %s: %w", key, err)
	}
	return nil
}

// Clear removes every session entry.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM session_entries"); err != nil {
		return fmt.Errorf("failed to clear session entries: %w", err)
	}
	return nil
}

// Keys lists stored keys in alphabetical order.
func (r *SessionRepository) Keys() ([]string, error) {
	rows, err := r.db.Query("SELECT key FROM session_entries ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query session keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan session key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return keys, nil
}
