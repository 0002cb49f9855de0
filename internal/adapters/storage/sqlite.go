// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/mfontan/ironlog/internal/ports"
	_ "modernc.org/sqlite"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db             *sql.DB
	templateRepo   ports.TemplateRepository
	completionRepo ports.CompletionRepository
	checkInRepo    ports.CheckInRepository
	kv             ports.DurableKV
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better performance under concurrent readers
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	storage := &sqliteStorage{
		db:             db,
		templateRepo:   newTemplateRepository(db),
		completionRepo: newCompletionRepository(db),
		checkInRepo:    newCheckInRepository(db),
		kv:             newKVStore(db),
	}

	if err := storage.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// Templates returns the template repository.
func (s *sqliteStorage) Templates() ports.TemplateRepository {
	return s.templateRepo
}

// Completions returns the completion log repository.
func (s *sqliteStorage) Completions() ports.CompletionRepository {
	return s.completionRepo
}

// CheckIns returns the check-in repository.
func (s *sqliteStorage) CheckIns() ports.CheckInRepository {
	return s.checkInRepo
}

// KV returns the durable side-channel.
func (s *sqliteStorage) KV() ports.DurableKV {
	return s.kv
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		rest_period INTEGER NOT NULL DEFAULT 0,
		exercises TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_templates_owner ON templates(owner);
	CREATE INDEX IF NOT EXISTS idx_templates_name ON templates(name);

	CREATE TABLE IF NOT EXISTS logs (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		template_id TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		entries TEXT NOT NULL,
		quality INTEGER NOT NULL DEFAULT 0,
		difficulty INTEGER NOT NULL DEFAULT 0,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_logs_owner ON logs(owner);
	CREATE INDEX IF NOT EXISTS idx_logs_template ON logs(template_id);
	CREATE INDEX IF NOT EXISTS idx_logs_started ON logs(started_at);

	CREATE TABLE IF NOT EXISTS checkins (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		date DATETIME NOT NULL,
		weight REAL NOT NULL DEFAULT 0,
		weekly_win TEXT,
		avg_sleep REAL NOT NULL DEFAULT 0,
		avg_steps INTEGER NOT NULL DEFAULT 0,
		water_intake REAL NOT NULL DEFAULT 0,
		energy_level INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_checkins_owner ON checkins(owner);
	CREATE INDEX IF NOT EXISTS idx_checkins_date ON checkins(date);

	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
