package domain

import (
	"time"
)

// RunPhase represents the state machine position of a live run.
type RunPhase string

const (
	RunPhaseLoading   RunPhase = "loading"
	RunPhaseRunning   RunPhase = "running"
	RunPhaseFinishing RunPhase = "finishing"
	RunPhaseSubmitted RunPhase = "submitted"
	RunPhaseCanceled  RunPhase = "canceled"
)

// RunState is the in-memory state of one live template execution. The
// entry table is rebuilt from the template and history on every load;
// only the start instant and rest target survive a restart, through the
// durable side-channel.
type RunState struct {
	TemplateID  string
	StartedAt   time.Time
	Entries     []Entry
	RestTarget  *time.Time
	Editing     map[int]bool // per-exercise full edit mode, presentation state only
	PastVisible map[int]bool // per-exercise past-set editor, presentation state only
}

// NewRunState creates the state for a freshly loaded run.
func NewRunState(templateID string, startedAt time.Time, entries []Entry) *RunState {
	return &RunState{
		TemplateID:  templateID,
		StartedAt:   startedAt,
		Entries:     entries,
		Editing:     make(map[int]bool),
		PastVisible: make(map[int]bool),
	}
}

// ToggleEditing flips the full edit mode for an exercise.
func (rs *RunState) ToggleEditing(exerciseIndex int) {
	rs.Editing[exerciseIndex] = !rs.Editing[exerciseIndex]
}

// TogglePastVisible flips the past-set editor for an exercise.
func (rs *RunState) TogglePastVisible(exerciseIndex int) {
	rs.PastVisible[exerciseIndex] = !rs.PastVisible[exerciseIndex]
}

// ActiveRun is the read-only view of the durable active-run markers,
// for status banners and external observers. Observers never mutate
// the underlying slots.
type ActiveRun struct {
	TemplateID string
	StartedAt  time.Time
	RestTarget *time.Time
}

// RestSecondsLeft computes the remaining rest at the given instant,
// never negative.
func (a *ActiveRun) RestSecondsLeft(now time.Time) int {
	return SecondsUntil(a.RestTarget, now)
}

// SecondsUntil returns ceil(target-now) in whole seconds, floored at 0.
// A nil target reads as 0.
func SecondsUntil(target *time.Time, now time.Time) int {
	if target == nil {
		return 0
	}
	ms := target.Sub(now).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int((ms + 999) / 1000)
}

// RunPhaseLabel returns a human-readable label for a run phase.
func RunPhaseLabel(p RunPhase) string {
	switch p {
	case RunPhaseLoading:
		return "Loading"
	case RunPhaseRunning:
		return "In progress"
	case RunPhaseFinishing:
		return "Awaiting feedback"
	case RunPhaseSubmitted:
		return "Submitted"
	case RunPhaseCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}
