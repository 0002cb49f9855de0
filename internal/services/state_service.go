package services

import (
	"context"
	"strconv"
	"time"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// StateService implements the MCPStateProvider interface and backs the
// status and cancel commands. It reads the durable run markers without
// owning them; only a live run mutates the slots.
type StateService struct {
	storage    ports.Storage
	owner      string
	historySvc *HistoryService
	checkInSvc *CheckInService
}

// NewStateService creates a new state service.
func NewStateService(storage ports.Storage, owner string) *StateService {
	return &StateService{
		storage:    storage,
		owner:      owner,
		historySvc: NewHistoryService(storage, owner),
		checkInSvc: NewCheckInService(storage, owner),
	}
}

// GetActiveRun implements ports.MCPStateProvider. Returns nil when no
// run is in flight.
func (s *StateService) GetActiveRun(ctx context.Context) (*domain.ActiveRun, error) {
	templateID, ok, err := s.storage.KV().Get(ctx, ports.KVActiveRun)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	run := &domain.ActiveRun{TemplateID: templateID}

	if raw, found, err := s.storage.KV().Get(ctx, ports.KVSessionStart); err == nil && found {
		if ms, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			run.StartedAt = time.UnixMilli(ms)
		}
	}
	if raw, found, err := s.storage.KV().Get(ctx, ports.KVRestTarget); err == nil && found {
		if ms, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			target := time.UnixMilli(ms)
			run.RestTarget = &target
		}
	}
	return run, nil
}

// ClearActiveRun releases every durable run marker. Used by the cancel
// command when no live process owns the run.
func (s *StateService) ClearActiveRun(ctx context.Context) error {
	if err := s.storage.KV().Clear(ctx, ports.KVActiveRun); err != nil {
		return err
	}
	if err := s.storage.KV().Clear(ctx, ports.KVSessionStart); err != nil {
		return err
	}
	return s.storage.KV().Clear(ctx, ports.KVRestTarget)
}

// ListTemplates implements ports.MCPStateProvider.
func (s *StateService) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	return s.storage.Templates().FindAll(ctx, s.owner)
}

// GetTemplate implements ports.MCPStateProvider.
func (s *StateService) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	return s.storage.Templates().FindByID(ctx, id)
}

// ListHistory implements ports.MCPStateProvider.
func (s *StateService) ListHistory(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	return s.historySvc.List(ctx, limit)
}

// LogBackdated implements ports.MCPStateProvider.
func (s *StateService) LogBackdated(ctx context.Context, templateID string, startedAt time.Time, duration time.Duration, fb domain.Feedback) (*domain.CompletionRecord, error) {
	return s.historySvc.BackdateLog(ctx, templateID, startedAt, duration, fb)
}

// AddCheckIn implements ports.MCPStateProvider.
func (s *StateService) AddCheckIn(ctx context.Context, c *domain.CheckIn) error {
	if c.Owner == "" {
		c.Owner = s.owner
	}
	return s.storage.CheckIns().Save(ctx, c)
}

// ListCheckIns implements ports.MCPStateProvider.
func (s *StateService) ListCheckIns(ctx context.Context) ([]*domain.CheckIn, error) {
	return s.checkInSvc.ListCheckIns(ctx)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
