package ports

import (
	"context"

	"github.com/mfontan/ironlog/internal/domain"
)

// RunController is the driving port the interactive session screen
// talks to. The controller owns the state machine; the screen only
// renders state and forwards intents.
type RunController interface {
	// State returns the current run state. Nil until Load succeeds.
	State() *domain.RunState

	// Phase returns the state machine position.
	Phase() domain.RunPhase

	// Template returns the template being executed. Nil until Load
	// succeeds.
	Template() *domain.Template

	// ChangeEntry sets the raw text of one entry field.
	ChangeEntry(key domain.EntryKey, field domain.EntryField, value string) error

	// IncrementEntry bumps a numeric entry field by one.
	IncrementEntry(key domain.EntryKey, field domain.EntryField) error

	// DecrementEntry lowers a numeric entry field by one, floored at 0.
	DecrementEntry(key domain.EntryKey, field domain.EntryField) error

	// CompleteSet marks a set done and arms the rest timer when the
	// template carries a rest period.
	CompleteSet(ctx context.Context, key domain.EntryKey) error

	// ToggleEditMode flips the full edit mode for an exercise.
	ToggleEditMode(exerciseIndex int)

	// TogglePastSets flips the past-set editor for an exercise.
	TogglePastSets(exerciseIndex int)

	// BeginFinish moves the run into the feedback phase.
	BeginFinish() error

	// CancelFinish returns from the feedback phase to the live run.
	CancelFinish() error

	// Submit persists the completion record with the given feedback. On
	// failure the run stays in the feedback phase so submission can be
	// retried.
	Submit(ctx context.Context, fb domain.Feedback) error

	// Cancel abandons the run and releases all durable markers.
	Cancel(ctx context.Context) error

	// Detach suspends the run without releasing the durable markers, so
	// a later load resumes it.
	Detach()

	// RestSecondsLeft reports the remaining rest, 0 when idle.
	RestSecondsLeft() int

	// RestPeriod reports the template's configured rest in seconds.
	RestPeriod() int
}
