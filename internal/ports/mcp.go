package ports

import (
	"context"
	"time"

	"github.com/mfontan/ironlog/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error
}

// MCPStateProvider provides state information to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetActiveRun returns the run in flight, nil when idle.
	GetActiveRun(ctx context.Context) (*domain.ActiveRun, error)

	// ListTemplates returns all workout templates.
	ListTemplates(ctx context.Context) ([]*domain.Template, error)

	// GetTemplate returns one template by id.
	GetTemplate(ctx context.Context, id string) (*domain.Template, error)

	// ListHistory returns recent completion records, newest first.
	ListHistory(ctx context.Context, limit int) ([]*domain.CompletionRecord, error)

	// LogBackdated records a past workout as fully completed.
	LogBackdated(ctx context.Context, templateID string, startedAt time.Time, duration time.Duration, fb domain.Feedback) (*domain.CompletionRecord, error)

	// AddCheckIn records a weekly check-in.
	AddCheckIn(ctx context.Context, c *domain.CheckIn) error

	// ListCheckIns returns all check-ins, newest first.
	ListCheckIns(ctx context.Context) ([]*domain.CheckIn, error)
}
