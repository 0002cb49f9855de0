package domain

import (
	"sort"
	"time"
)

// CompletedEntry is one finished set inside a completion record, with
// the raw run-time text coerced to numbers.
type CompletedEntry struct {
	ExerciseIndex int       `json:"exerciseIndex"`
	SetIndex      int       `json:"setIndex"`
	Weight        float64   `json:"weight"`
	Reps          int       `json:"repsDone"`
	Timestamp     time.Time `json:"timestamp"`
}

// Feedback is the user's appraisal of a finished run. No field is
// required; zero values are stored as given.
type Feedback struct {
	Quality    int    `json:"quality"`    // 1-5
	Difficulty int    `json:"difficulty"` // 1-5
	Notes      string `json:"notes"`
}

// CompletionRecord is the immutable artifact persisted once a run
// finishes. Every run appends exactly one; records are only rewritten
// through the separate log-editing flow.
type CompletionRecord struct {
	ID         string
	Owner      string
	TemplateID string
	StartedAt  time.Time
	EndedAt    time.Time
	Entries    []CompletedEntry
	Feedback   Feedback
}

// NewCompletionRecord materializes a record from a run's entry table.
// Only completed entries are persisted, each stamped with the
// submission instant. A run may be submitted partially done.
func NewCompletionRecord(owner, templateID string, startedAt, endedAt time.Time, entries []Entry, fb Feedback) *CompletionRecord {
	var done []CompletedEntry
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		done = append(done, CompletedEntry{
			ExerciseIndex: e.ExerciseIndex,
			SetIndex:      e.SetIndex,
			Weight:        e.WeightValue(),
			Reps:          e.RepsValue(),
			Timestamp:     endedAt,
		})
	}
	return &CompletionRecord{
		ID:         generateID(),
		Owner:      owner,
		TemplateID: templateID,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Entries:    done,
		Feedback:   fb,
	}
}

// Duration returns the wall-clock length of the recorded run.
func (r *CompletionRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// EntryAt looks up a completed entry by its template key.
func (r *CompletionRecord) EntryAt(key EntryKey) (CompletedEntry, bool) {
	for _, e := range r.Entries {
		if e.ExerciseIndex == key.Exercise && e.SetIndex == key.Set {
			return e, true
		}
	}
	return CompletedEntry{}, false
}

// MostRecentCompletion picks the record with the latest start instant.
// The store returns records unsorted; selection happens here.
func MostRecentCompletion(records []*CompletionRecord) *CompletionRecord {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]*CompletionRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})
	return sorted[0]
}
