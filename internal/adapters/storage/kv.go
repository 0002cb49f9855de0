package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mfontan/ironlog/internal/ports"
)

// kvStore implements ports.DurableKV on a single-table SQLite
// key-value store. Writes go through the same connection as the rest
// of the data, so run markers and logs share one durability story.
type kvStore struct {
	db *sql.DB
}

// newKVStore creates a new durable key-value store.
func newKVStore(db *sql.DB) ports.DurableKV {
	return &kvStore{db: db}
}

// Get retrieves a value; the second return reports presence.
func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read state: %w", err)
	}
	return value, true, nil
}

// Set writes a value, overwriting any previous one.
func (s *kvStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Clear removes a key. Clearing an absent key is not an error.
func (s *kvStore) Clear(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
