package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// HistoryService handles completion-log use cases: listing, backdated
// entry and the log-editing flow.
type HistoryService struct {
	storage ports.Storage
	owner   string
	now     func() time.Time
}

// NewHistoryService creates a new history service.
func NewHistoryService(storage ports.Storage, owner string) *HistoryService {
	return &HistoryService{
		storage: storage,
		owner:   owner,
		now:     time.Now,
	}
}

// List returns the owner's completion records, newest first. A limit of
// 0 means no limit.
func (s *HistoryService) List(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	return s.storage.Completions().FindRecent(ctx, s.owner, limit)
}

// Get returns one completion record by id.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.CompletionRecord, error) {
	return s.storage.Completions().FindByID(ctx, id)
}

// PriorCompletion returns the most recent record for a template, nil
// when it has never been run.
func (s *HistoryService) PriorCompletion(ctx context.Context, templateID string) (*domain.CompletionRecord, error) {
	records, err := s.storage.Completions().FindByTemplate(ctx, templateID, s.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return domain.MostRecentCompletion(records), nil
}

// BackdateLog records a past workout after the fact. Every set of the
// template counts as completed, with weights and reps prefilled from
// the most recent completion when one exists.
func (s *HistoryService) BackdateLog(ctx context.Context, templateID string, startedAt time.Time, duration time.Duration, fb domain.Feedback) (*domain.CompletionRecord, error) {
	template, err := s.storage.Templates().FindByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	prior, err := s.PriorCompletion(ctx, templateID)
	if err != nil {
		return nil, err
	}

	entries := domain.BuildEntries(template, prior)
	for _, e := range entries {
		entries = domain.CompleteEntry(entries, e.Key())
	}

	record := domain.NewCompletionRecord(s.owner, templateID, startedAt, startedAt.Add(duration), entries, fb)
	if _, err := s.storage.Completions().Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save workout: %w", err)
	}
	return record, nil
}

// EditLogTimes rewrites the start and end instants of a stored record.
func (s *HistoryService) EditLogTimes(ctx context.Context, id string, startedAt, endedAt time.Time) (*domain.CompletionRecord, error) {
	record, err := s.storage.Completions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record.StartedAt = startedAt
	record.EndedAt = endedAt
	if err := s.storage.Completions().Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update log: %w", err)
	}
	return record, nil
}

// EditLogEntry rewrites the weight and reps of one completed set inside
// a stored record.
func (s *HistoryService) EditLogEntry(ctx context.Context, id string, key domain.EntryKey, weight float64, reps int) (*domain.CompletionRecord, error) {
	record, err := s.storage.Completions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range record.Entries {
		e := &record.Entries[i]
		if e.ExerciseIndex == key.Exercise && e.SetIndex == key.Set {
			e.Weight = weight
			e.Reps = reps
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no completed set at exercise %d, set %d", key.Exercise, key.Set)
	}

	if err := s.storage.Completions().Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update log: %w", err)
	}
	return record, nil
}
