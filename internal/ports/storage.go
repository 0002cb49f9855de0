// Package ports defines the interfaces (driven and driving ports)
// for ironlog following hexagonal architecture principles. These
// interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/mfontan/ironlog/internal/domain"
)

// TemplateRepository defines the interface for workout template
// persistence. This is a driven port (implemented by adapters).
type TemplateRepository interface {
	// Save persists a template to storage.
	Save(ctx context.Context, t *domain.Template) error

	// FindByID retrieves a template by its unique identifier, returning
	// domain.ErrTemplateNotFound when it does not exist.
	FindByID(ctx context.Context, id string) (*domain.Template, error)

	// FindAll retrieves all templates owned by a user, in name order.
	FindAll(ctx context.Context, owner string) ([]*domain.Template, error)

	// Search returns the owner's templates fuzzy-ranked against the query.
	Search(ctx context.Context, owner, query string) ([]*domain.Template, error)

	// Update modifies an existing template.
	Update(ctx context.Context, t *domain.Template) error

	// Delete removes a template from storage.
	Delete(ctx context.Context, id string) error
}

// CompletionRepository defines the interface for completed-session log
// persistence. Logs are append-only; Update exists solely for the
// log-editing flow, which rewrites fields of one record.
type CompletionRepository interface {
	// Append persists a new completion record and returns its id.
	Append(ctx context.Context, record *domain.CompletionRecord) (string, error)

	// FindByID retrieves a record, returning domain.ErrLogNotFound when
	// it does not exist.
	FindByID(ctx context.Context, id string) (*domain.CompletionRecord, error)

	// FindByTemplate retrieves all records for (template, owner),
	// unsorted; callers order by start instant as needed.
	FindByTemplate(ctx context.Context, templateID, owner string) ([]*domain.CompletionRecord, error)

	// FindRecent retrieves the owner's records, newest first.
	FindRecent(ctx context.Context, owner string, limit int) ([]*domain.CompletionRecord, error)

	// Update rewrites an existing record (log-editing flow only).
	Update(ctx context.Context, record *domain.CompletionRecord) error
}

// CheckInRepository defines the interface for weekly check-in
// persistence.
type CheckInRepository interface {
	// Save persists a check-in to storage.
	Save(ctx context.Context, c *domain.CheckIn) error

	// FindByID retrieves a check-in, returning domain.ErrCheckInNotFound
	// when it does not exist.
	FindByID(ctx context.Context, id string) (*domain.CheckIn, error)

	// FindAll retrieves the owner's check-ins, newest first.
	FindAll(ctx context.Context, owner string) ([]*domain.CheckIn, error)

	// Update modifies an existing check-in.
	Update(ctx context.Context, c *domain.CheckIn) error

	// Delete removes a check-in from storage.
	Delete(ctx context.Context, id string) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Templates provides access to template operations.
	Templates() TemplateRepository

	// Completions provides access to completion log operations.
	Completions() CompletionRepository

	// CheckIns provides access to check-in operations.
	CheckIns() CheckInRepository

	// KV provides access to the durable side-channel.
	KV() DurableKV

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
