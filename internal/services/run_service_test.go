package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfontan/ironlog/internal/adapters/storage"
	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

func setupTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func saveTestTemplate(t *testing.T, store ports.Storage) *domain.Template {
	t.Helper()
	template := domain.NewTemplate("tester", "Push Day")
	template.RestPeriod = 90
	template.Exercises = []domain.Exercise{
		{Name: "Bench Press", Sets: []domain.SetSpec{
			{MinReps: 5, MaxReps: 8},
			{MinReps: 5, MaxReps: 8},
		}},
		{Name: "Dips", SetCount: 2},
	}
	require.NoError(t, store.Templates().Save(context.Background(), template))
	return template
}

func TestRunService_HappyPath(t *testing.T) {
	store := setupTestStorage(t)
	template := saveTestTemplate(t, store)
	ctx := context.Background()

	svc := NewRunService(store, "tester")
	defer svc.Rest().Suspend()

	require.NoError(t, svc.Load(ctx, template.ID))
	assert.Equal(t, domain.RunPhaseRunning, svc.Phase())
	require.Len(t, svc.State().Entries, 4)

	// Markers claimed.
	active, ok, err := store.KV().Get(ctx, ports.KVActiveRun)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, template.ID, active)

	// Fill in and complete the first two sets.
	key := domain.EntryKey{Exercise: 0, Set: 0}
	require.NoError(t, svc.ChangeEntry(key, domain.FieldWeight, "60"))
	require.NoError(t, svc.ChangeEntry(key, domain.FieldReps, "8"))
	require.NoError(t, svc.CompleteSet(ctx, key))

	key2 := domain.EntryKey{Exercise: 0, Set: 1}
	require.NoError(t, svc.ChangeEntry(key2, domain.FieldWeight, "60"))
	require.NoError(t, svc.ChangeEntry(key2, domain.FieldReps, "6"))
	require.NoError(t, svc.CompleteSet(ctx, key2))

	// Completing a set arms the rest countdown.
	assert.Greater(t, svc.RestSecondsLeft(), 0)

	require.NoError(t, svc.BeginFinish())
	assert.Equal(t, domain.RunPhaseFinishing, svc.Phase())

	fb := domain.Feedback{Quality: 4, Difficulty: 3, Notes: "felt fine"}
	require.NoError(t, svc.Submit(ctx, fb))
	assert.Equal(t, domain.RunPhaseSubmitted, svc.Phase())

	// A partial run persists only the completed sets.
	records, err := store.Completions().FindByTemplate(ctx, template.ID, "tester")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Entries, 2)
	assert.Equal(t, fb, records[0].Feedback)
	assert.Equal(t, 60.0, records[0].Entries[0].Weight)
	assert.Equal(t, 8, records[0].Entries[0].Reps)

	// All markers released.
	for _, slot := range []string{ports.KVActiveRun, ports.KVSessionStart, ports.KVRestTarget} {
		_, ok, err := store.KV().Get(ctx, slot)
		require.NoError(t, err)
		assert.False(t, ok, "slot %s should be cleared", slot)
	}
}

func TestRunService_LoadFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing template id", func(t *testing.T) {
		store := setupTestStorage(t)
		svc := NewRunService(store, "tester")

		err := svc.Load(ctx, "")
		assert.ErrorIs(t, err, domain.ErrNoTemplateID)
		assert.Equal(t, domain.RunPhaseCanceled, svc.Phase())
	})

	t.Run("unknown template releases the marker", func(t *testing.T) {
		store := setupTestStorage(t)
		require.NoError(t, store.KV().Set(ctx, ports.KVActiveRun, "ghost"))

		svc := NewRunService(store, "tester")
		err := svc.Load(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
		assert.Equal(t, domain.RunPhaseCanceled, svc.Phase())

		_, ok, err := store.KV().Get(ctx, ports.KVActiveRun)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("double load rejected", func(t *testing.T) {
		store := setupTestStorage(t)
		template := saveTestTemplate(t, store)

		svc := NewRunService(store, "tester")
		defer svc.Rest().Suspend()
		require.NoError(t, svc.Load(ctx, template.ID))
		assert.Error(t, svc.Load(ctx, template.ID))
	})
}

func TestRunService_ResumeKeepsStart(t *testing.T) {
	store := setupTestStorage(t)
	template := saveTestTemplate(t, store)
	ctx := context.Background()

	first := NewRunService(store, "tester")
	require.NoError(t, first.Load(ctx, template.ID))
	startedAt := first.State().StartedAt
	first.Detach()

	second := NewRunService(store, "tester")
	defer second.Rest().Suspend()
	require.NoError(t, second.Load(ctx, template.ID))

	assert.Equal(t, startedAt.UnixMilli(), second.State().StartedAt.UnixMilli())
}

func TestRunService_PrefillFromHistory(t *testing.T) {
	store := setupTestStorage(t)
	template := saveTestTemplate(t, store)
	ctx := context.Background()

	// First run lifts 60x8 on the opening set.
	first := NewRunService(store, "tester")
	require.NoError(t, first.Load(ctx, template.ID))
	key := domain.EntryKey{Exercise: 0, Set: 0}
	require.NoError(t, first.ChangeEntry(key, domain.FieldWeight, "60"))
	require.NoError(t, first.ChangeEntry(key, domain.FieldReps, "8"))
	require.NoError(t, first.CompleteSet(ctx, key))
	require.NoError(t, first.BeginFinish())
	require.NoError(t, first.Submit(ctx, domain.Feedback{}))

	// Second run starts prefilled but not completed.
	second := NewRunService(store, "tester")
	defer second.Rest().Suspend()
	require.NoError(t, second.Load(ctx, template.ID))

	entry := second.State().Entries[0]
	assert.Equal(t, "60", entry.Weight)
	assert.Equal(t, "8", entry.Reps)
	assert.False(t, entry.Completed)
}

func TestRunService_Cancel(t *testing.T) {
	store := setupTestStorage(t)
	template := saveTestTemplate(t, store)
	ctx := context.Background()

	svc := NewRunService(store, "tester")
	require.NoError(t, svc.Load(ctx, template.ID))
	require.NoError(t, svc.CompleteSet(ctx, domain.EntryKey{Exercise: 0, Set: 0}))

	require.NoError(t, svc.Cancel(ctx))
	assert.Equal(t, domain.RunPhaseCanceled, svc.Phase())

	// Nothing written, markers gone.
	records, err := store.Completions().FindByTemplate(ctx, template.ID, "tester")
	require.NoError(t, err)
	assert.Empty(t, records)

	for _, slot := range []string{ports.KVActiveRun, ports.KVSessionStart, ports.KVRestTarget} {
		_, ok, err := store.KV().Get(ctx, slot)
		require.NoError(t, err)
		assert.False(t, ok, "slot %s should be cleared", slot)
	}
}

// failingCompletions wraps a repository and fails Append on demand.
type failingCompletions struct {
	ports.CompletionRepository
	fail bool
}

func (f *failingCompletions) Append(ctx context.Context, record *domain.CompletionRecord) (string, error) {
	if f.fail {
		return "", errors.New("disk full")
	}
	return f.CompletionRepository.Append(ctx, record)
}

// flakyStorage swaps in the failing completion repository.
type flakyStorage struct {
	ports.Storage
	completions *failingCompletions
}

func (s *flakyStorage) Completions() ports.CompletionRepository {
	return s.completions
}

func TestRunService_SubmitRetryAfterFailure(t *testing.T) {
	inner := setupTestStorage(t)
	template := saveTestTemplate(t, inner)
	ctx := context.Background()

	completions := &failingCompletions{CompletionRepository: inner.Completions(), fail: true}
	store := &flakyStorage{Storage: inner, completions: completions}

	svc := NewRunService(store, "tester")
	defer svc.Rest().Suspend()
	require.NoError(t, svc.Load(ctx, template.ID))
	require.NoError(t, svc.CompleteSet(ctx, domain.EntryKey{Exercise: 0, Set: 0}))
	require.NoError(t, svc.BeginFinish())

	// The failed submission keeps the run in the feedback phase and the
	// markers intact so nothing is lost.
	err := svc.Submit(ctx, domain.Feedback{Quality: 5})
	require.Error(t, err)
	assert.Equal(t, domain.RunPhaseFinishing, svc.Phase())

	_, ok, kvErr := store.KV().Get(ctx, ports.KVActiveRun)
	require.NoError(t, kvErr)
	assert.True(t, ok, "markers must survive a failed submit")

	// Retrying once the store recovers succeeds.
	completions.fail = false
	require.NoError(t, svc.Submit(ctx, domain.Feedback{Quality: 5}))
	assert.Equal(t, domain.RunPhaseSubmitted, svc.Phase())

	records, err := inner.Completions().FindByTemplate(ctx, template.ID, "tester")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunService_PhaseGuards(t *testing.T) {
	store := setupTestStorage(t)
	template := saveTestTemplate(t, store)
	ctx := context.Background()

	svc := NewRunService(store, "tester")
	defer svc.Rest().Suspend()

	// Before load, mutations are rejected.
	key := domain.EntryKey{Exercise: 0, Set: 0}
	assert.ErrorIs(t, svc.ChangeEntry(key, domain.FieldReps, "5"), domain.ErrNoActiveRun)
	assert.ErrorIs(t, svc.BeginFinish(), domain.ErrNoActiveRun)
	assert.ErrorIs(t, svc.Submit(ctx, domain.Feedback{}), domain.ErrRunNotFinishing)

	require.NoError(t, svc.Load(ctx, template.ID))
	assert.ErrorIs(t, svc.CancelFinish(), domain.ErrRunNotFinishing)

	require.NoError(t, svc.BeginFinish())
	require.NoError(t, svc.CancelFinish())
	assert.Equal(t, domain.RunPhaseRunning, svc.Phase())
}

func TestRunService_ElapsedUsesWallClock(t *testing.T) {
	store := setupTestStorage(t)
	template := saveTestTemplate(t, store)
	ctx := context.Background()

	svc := NewRunService(store, "tester")
	defer svc.Rest().Suspend()

	started := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started }
	require.NoError(t, svc.Load(ctx, template.ID))

	// An hour passes before submission, regardless of process uptime.
	svc.now = func() time.Time { return started.Add(time.Hour) }
	require.NoError(t, svc.CompleteSet(ctx, domain.EntryKey{Exercise: 0, Set: 0}))
	require.NoError(t, svc.BeginFinish())
	require.NoError(t, svc.Submit(ctx, domain.Feedback{}))

	records, err := store.Completions().FindByTemplate(ctx, template.ID, "tester")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Hour, records[0].Duration())
}
