package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// completionRepository implements ports.CompletionRepository using
// SQLite. The completed-set list is stored as a JSON column.
type completionRepository struct {
	db *sql.DB
}

// newCompletionRepository creates a new completion log repository.
func newCompletionRepository(db *sql.DB) ports.CompletionRepository {
	return &completionRepository{db: db}
}

// Append persists a new completion record and returns its id.
func (r *completionRepository) Append(ctx context.Context, record *domain.CompletionRecord) (string, error) {
	entries, err := json.Marshal(record.Entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}

	query := `
		INSERT INTO logs (id, owner, template_id, started_at, ended_at, entries, quality, difficulty, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.Owner,
		record.TemplateID,
		record.StartedAt,
		record.EndedAt,
		string(entries),
		record.Feedback.Quality,
		record.Feedback.Difficulty,
		record.Feedback.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save log: %w", err)
	}

	return record.ID, nil
}

// FindByID retrieves a completion record by its unique identifier.
func (r *completionRepository) FindByID(ctx context.Context, id string) (*domain.CompletionRecord, error) {
	query := `
		SELECT id, owner, template_id, started_at, ended_at, entries, quality, difficulty, notes
		FROM logs
		WHERE id = ?
	`

	record, err := r.scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find log: %w", err)
	}
	return record, nil
}

// FindByTemplate retrieves all records for a template and owner. No
// ordering is applied; callers sort by start instant as needed.
func (r *completionRepository) FindByTemplate(ctx context.Context, templateID, owner string) ([]*domain.CompletionRecord, error) {
	query := `
		SELECT id, owner, template_id, started_at, ended_at, entries, quality, difficulty, notes
		FROM logs
		WHERE template_id = ? AND owner = ?
	`

	rows, err := r.db.QueryContext(ctx, query, templateID, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanRecords(rows)
}

// FindRecent retrieves the owner's records, newest first. A limit of 0
// means no limit.
func (r *completionRepository) FindRecent(ctx context.Context, owner string, limit int) ([]*domain.CompletionRecord, error) {
	query := `
		SELECT id, owner, template_id, started_at, ended_at, entries, quality, difficulty, notes
		FROM logs
		WHERE owner = ?
		ORDER BY started_at DESC
	`
	args := []interface{}{owner}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanRecords(rows)
}

// Update rewrites an existing record.
func (r *completionRepository) Update(ctx context.Context, record *domain.CompletionRecord) error {
	entries, err := json.Marshal(record.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	query := `
		UPDATE logs
		SET started_at = ?, ended_at = ?, entries = ?, quality = ?, difficulty = ?, notes = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		record.StartedAt,
		record.EndedAt,
		string(entries),
		record.Feedback.Quality,
		record.Feedback.Difficulty,
		record.Feedback.Notes,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update log: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

func (r *completionRepository) scanRecords(rows *sql.Rows) ([]*domain.CompletionRecord, error) {
	var records []*domain.CompletionRecord
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *completionRepository) scanRecord(row scanner) (*domain.CompletionRecord, error) {
	var record domain.CompletionRecord
	var entries string
	var notes sql.NullString

	err := row.Scan(
		&record.ID,
		&record.Owner,
		&record.TemplateID,
		&record.StartedAt,
		&record.EndedAt,
		&entries,
		&record.Feedback.Quality,
		&record.Feedback.Difficulty,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		record.Feedback.Notes = notes.String
	}
	if err := json.Unmarshal([]byte(entries), &record.Entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	return &record, nil
}
