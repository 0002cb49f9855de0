package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// templateRepository implements ports.TemplateRepository using SQLite.
// The exercise list is stored as a JSON column; templates are small and
// always read whole.
type templateRepository struct {
	db *sql.DB
}

// newTemplateRepository creates a new template repository.
func newTemplateRepository(db *sql.DB) ports.TemplateRepository {
	return &templateRepository{db: db}
}

// Save persists a template to storage.
func (r *templateRepository) Save(ctx context.Context, t *domain.Template) error {
	exercises, err := json.Marshal(t.Exercises)
	if err != nil {
		return fmt.Errorf("failed to encode exercises: %w", err)
	}

	query := `
		INSERT INTO templates (id, owner, name, rest_period, exercises, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Owner,
		t.Name,
		t.RestPeriod,
		string(exercises),
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	return nil
}

// FindByID retrieves a template by its unique identifier.
func (r *templateRepository) FindByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `
		SELECT id, owner, name, rest_period, exercises, created_at, updated_at
		FROM templates
		WHERE id = ?
	`

	t, err := r.scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return t, nil
}

// FindAll retrieves all templates owned by a user, in name order.
func (r *templateRepository) FindAll(ctx context.Context, owner string) ([]*domain.Template, error) {
	query := `
		SELECT id, owner, name, rest_period, exercises, created_at, updated_at
		FROM templates
		WHERE owner = ?
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []*domain.Template
	for rows.Next() {
		t, err := r.scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Search does a fuzzy search for templates by name.
func (r *templateRepository) Search(ctx context.Context, owner, query string) ([]*domain.Template, error) {
	templates, err := r.FindAll(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get templates for fuzzy search: %w", err)
	}

	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}

	matches := fuzzy.Find(query, names)

	var result []*domain.Template
	for _, match := range matches {
		if match.Score > 0 {
			result = append(result, templates[match.Index])
		}
	}
	return result, nil
}

// Update modifies an existing template.
func (r *templateRepository) Update(ctx context.Context, t *domain.Template) error {
	exercises, err := json.Marshal(t.Exercises)
	if err != nil {
		return fmt.Errorf("failed to encode exercises: %w", err)
	}

	query := `
		UPDATE templates
		SET name = ?, rest_period = ?, exercises = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.RestPeriod,
		string(exercises),
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

// Delete removes a template from storage. Logs referencing it stay.
func (r *templateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *templateRepository) scanTemplate(row scanner) (*domain.Template, error) {
	var t domain.Template
	var exercises string

	err := row.Scan(
		&t.ID,
		&t.Owner,
		&t.Name,
		&t.RestPeriod,
		&exercises,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(exercises), &t.Exercises); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}
	return &t, nil
}
