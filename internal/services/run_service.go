package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// RunService drives one live template execution through its phases:
// loading, running, finishing, then submitted or canceled. It owns the
// entry table, the rest timer and the durable active-run markers.
type RunService struct {
	storage ports.Storage
	rest    *RestTimer
	owner   string
	now     func() time.Time

	mu       sync.Mutex
	phase    domain.RunPhase
	template *domain.Template
	state    *domain.RunState
}

// NewRunService creates a run service for the given owner.
func NewRunService(storage ports.Storage, owner string) *RunService {
	return &RunService{
		storage: storage,
		rest:    NewRestTimer(storage.KV()),
		owner:   owner,
		now:     time.Now,
		phase:   domain.RunPhaseLoading,
	}
}

// Rest exposes the rest timer for callback wiring.
func (s *RunService) Rest() *RestTimer {
	return s.rest
}

// Phase implements ports.RunController.
func (s *RunService) Phase() domain.RunPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// State implements ports.RunController.
func (s *RunService) State() *domain.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Template implements ports.RunController.
func (s *RunService) Template() *domain.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// Load fetches the template, builds the entry table prefilled from the
// most recent completion, and claims the durable active-run marker.
// When a marker for the same template already exists the run resumes
// with its original start instant. Any failure moves the run to
// canceled and releases the marker so a broken run never wedges the
// slot.
func (s *RunService) Load(ctx context.Context, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.RunPhaseLoading {
		return fmt.Errorf("run already loaded (phase %s)", s.phase)
	}
	if templateID == "" {
		s.phase = domain.RunPhaseCanceled
		return domain.ErrNoTemplateID
	}

	template, err := s.storage.Templates().FindByID(ctx, templateID)
	if err != nil {
		s.phase = domain.RunPhaseCanceled
		s.releaseMarkers(ctx)
		return fmt.Errorf("failed to load template: %w", err)
	}

	prior, err := s.priorCompletion(ctx, templateID)
	if err != nil {
		s.phase = domain.RunPhaseCanceled
		s.releaseMarkers(ctx)
		return fmt.Errorf("failed to load history: %w", err)
	}

	startedAt, err := s.claimRun(ctx, templateID)
	if err != nil {
		s.phase = domain.RunPhaseCanceled
		return err
	}

	s.template = template
	s.state = domain.NewRunState(templateID, startedAt, domain.BuildEntries(template, prior))
	s.phase = domain.RunPhaseRunning

	if err := s.rest.Resume(ctx); err != nil {
		return fmt.Errorf("failed to resume rest timer: %w", err)
	}
	return nil
}

// priorCompletion picks the most recent record for the template, nil
// when the template has never been run.
func (s *RunService) priorCompletion(ctx context.Context, templateID string) (*domain.CompletionRecord, error) {
	records, err := s.storage.Completions().FindByTemplate(ctx, templateID, s.owner)
	if err != nil {
		return nil, err
	}
	return domain.MostRecentCompletion(records), nil
}

// claimRun writes the active-run markers, or adopts them when they
// already point at the same template. A marker for a different template
// is overwritten: one run at a time, the newest wins.
func (s *RunService) claimRun(ctx context.Context, templateID string) (time.Time, error) {
	active, ok, err := s.storage.KV().Get(ctx, ports.KVActiveRun)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read run marker: %w", err)
	}

	if ok && active == templateID {
		raw, found, err := s.storage.KV().Get(ctx, ports.KVSessionStart)
		if err == nil && found {
			if ms, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
				return time.UnixMilli(ms), nil
			}
		}
	}

	startedAt := s.now()
	if err := s.storage.KV().Set(ctx, ports.KVActiveRun, templateID); err != nil {
		return time.Time{}, fmt.Errorf("failed to claim run marker: %w", err)
	}
	if err := s.storage.KV().Set(ctx, ports.KVSessionStart, strconv.FormatInt(startedAt.UnixMilli(), 10)); err != nil {
		return time.Time{}, fmt.Errorf("failed to record start: %w", err)
	}
	return startedAt, nil
}

// ChangeEntry implements ports.RunController.
func (s *RunService) ChangeEntry(key domain.EntryKey, field domain.EntryField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	s.state.Entries = domain.SetEntryField(s.state.Entries, key, field, value)
	return nil
}

// IncrementEntry implements ports.RunController.
func (s *RunService) IncrementEntry(key domain.EntryKey, field domain.EntryField) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	s.state.Entries = domain.IncrementEntry(s.state.Entries, key, field)
	return nil
}

// DecrementEntry implements ports.RunController.
func (s *RunService) DecrementEntry(key domain.EntryKey, field domain.EntryField) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLive(); err != nil {
		return err
	}
	s.state.Entries = domain.DecrementEntry(s.state.Entries, key, field)
	return nil
}

// CompleteSet implements ports.RunController. Completing a set arms the
// rest countdown when the template carries a rest period, replacing any
// countdown already running.
func (s *RunService) CompleteSet(ctx context.Context, key domain.EntryKey) error {
	s.mu.Lock()
	if err := s.requireLive(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.Entries = domain.CompleteEntry(s.state.Entries, key)
	restPeriod := s.template.RestPeriod
	s.mu.Unlock()

	if restPeriod > 0 {
		if err := s.rest.Start(ctx, restPeriod); err != nil {
			return fmt.Errorf("failed to start rest timer: %w", err)
		}
	}
	return nil
}

// ToggleEditMode implements ports.RunController.
func (s *RunService) ToggleEditMode(exerciseIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		s.state.ToggleEditing(exerciseIndex)
	}
}

// TogglePastSets implements ports.RunController.
func (s *RunService) TogglePastSets(exerciseIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		s.state.TogglePastVisible(exerciseIndex)
	}
}

// BeginFinish implements ports.RunController.
func (s *RunService) BeginFinish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.RunPhaseRunning {
		return domain.ErrNoActiveRun
	}
	s.phase = domain.RunPhaseFinishing
	return nil
}

// CancelFinish implements ports.RunController.
func (s *RunService) CancelFinish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.RunPhaseFinishing {
		return domain.ErrRunNotFinishing
	}
	s.phase = domain.RunPhaseRunning
	return nil
}

// Submit implements ports.RunController. A failed append leaves the run
// in the feedback phase so submission can be retried; the markers are
// only released once the record is durably stored.
func (s *RunService) Submit(ctx context.Context, fb domain.Feedback) error {
	s.mu.Lock()
	if s.phase != domain.RunPhaseFinishing {
		s.mu.Unlock()
		return domain.ErrRunNotFinishing
	}
	record := domain.NewCompletionRecord(s.owner, s.state.TemplateID, s.state.StartedAt, s.now(), s.state.Entries, fb)
	s.mu.Unlock()

	if _, err := s.storage.Completions().Append(ctx, record); err != nil {
		return fmt.Errorf("failed to save workout: %w", err)
	}

	s.mu.Lock()
	s.phase = domain.RunPhaseSubmitted
	s.releaseMarkers(ctx)
	s.mu.Unlock()
	return nil
}

// Cancel implements ports.RunController. Cancellation discards the run
// from any phase and releases every durable marker.
func (s *RunService) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = domain.RunPhaseCanceled
	s.releaseMarkers(ctx)
	return nil
}

// Detach implements ports.RunController. The markers stay so the next
// load of the same template resumes this run.
func (s *RunService) Detach() {
	s.rest.Suspend()
}

// RestSecondsLeft implements ports.RunController.
func (s *RunService) RestSecondsLeft() int {
	return s.rest.SecondsLeft()
}

// RestPeriod implements ports.RunController.
func (s *RunService) RestPeriod() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return 0
	}
	return s.template.RestPeriod
}

func (s *RunService) requireLive() error {
	if s.phase != domain.RunPhaseRunning && s.phase != domain.RunPhaseFinishing {
		return domain.ErrNoActiveRun
	}
	return nil
}

// releaseMarkers clears every durable run slot. Called with the lock
// held where a phase transition needs it.
func (s *RunService) releaseMarkers(ctx context.Context) {
	_ = s.rest.Clear(ctx)
	_ = s.storage.KV().Clear(ctx, ports.KVActiveRun)
	_ = s.storage.KV().Clear(ctx, ports.KVSessionStart)
}

// Ensure RunService implements RunController.
var _ ports.RunController = (*RunService)(nil)
