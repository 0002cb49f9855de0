package domain

import (
	"math"
	"strconv"
)

// EntryField selects which numeric field of an entry a mutation targets.
type EntryField string

const (
	FieldWeight EntryField = "weight"
	FieldReps   EntryField = "reps"
)

// EntryKey is the stable composite key addressing one planned set of a
// template. Entries and completed log entries share this key space.
type EntryKey struct {
	Exercise int
	Set      int
}

// Entry is the mutable record of what happened for one planned set
// during a run. Weight and Reps hold the raw text the user typed so a
// half-finished edit is never clobbered; numeric interpretation happens
// at aggregation and persistence time, with unparseable values read as 0.
type Entry struct {
	ExerciseIndex int
	SetIndex      int
	Weight        string
	Reps          string
	Completed     bool
}

// Key returns the entry's composite template key.
func (e Entry) Key() EntryKey {
	return EntryKey{Exercise: e.ExerciseIndex, Set: e.SetIndex}
}

// WeightValue returns the numeric weight, 0 when unparseable.
func (e Entry) WeightValue() float64 {
	return parseNumber(e.Weight)
}

// RepsValue returns the numeric rep count, 0 when unparseable.
func (e Entry) RepsValue() int {
	return int(parseNumber(e.Reps))
}

// BuildEntries flattens a template into its entry table, exercise-major
// and set-minor. When a prior completion record is supplied, weight and
// reps are carried forward for matching keys; the completed flag never
// is, so every run starts fully incomplete.
func BuildEntries(t *Template, prior *CompletionRecord) []Entry {
	entries := make([]Entry, 0, t.TotalSets())
	for exIdx := range t.Exercises {
		for setIdx := range t.Exercises[exIdx].SetSpecs() {
			entries = append(entries, Entry{
				ExerciseIndex: exIdx,
				SetIndex:      setIdx,
				Weight:        "0",
				Reps:          "0",
			})
		}
	}

	if prior == nil {
		return entries
	}

	previous := make(map[EntryKey]CompletedEntry, len(prior.Entries))
	for _, done := range prior.Entries {
		previous[EntryKey{Exercise: done.ExerciseIndex, Set: done.SetIndex}] = done
	}
	for i := range entries {
		if done, ok := previous[entries[i].Key()]; ok {
			entries[i].Weight = formatNumber(done.Weight)
			entries[i].Reps = strconv.Itoa(done.Reps)
		}
	}
	return entries
}

// EntryIndex locates the table position of a key, -1 when absent.
func EntryIndex(entries []Entry, key EntryKey) int {
	for i, e := range entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// SetEntryField stores the raw value into the entry's weight or reps
// field, returning a new table. An unknown key is a no-op.
func SetEntryField(entries []Entry, key EntryKey, field EntryField, value string) []Entry {
	index := EntryIndex(entries, key)
	if index < 0 {
		return entries
	}
	next := cloneEntries(entries)
	switch field {
	case FieldWeight:
		next[index].Weight = value
	case FieldReps:
		next[index].Reps = value
	}
	return next
}

// IncrementEntry adds 1 to the numeric reading of the field.
func IncrementEntry(entries []Entry, key EntryKey, field EntryField) []Entry {
	return adjustEntry(entries, key, field, 1)
}

// DecrementEntry subtracts 1 from the numeric reading of the field,
// flooring at 0.
func DecrementEntry(entries []Entry, key EntryKey, field EntryField) []Entry {
	return adjustEntry(entries, key, field, -1)
}

// CompleteEntry marks the entry done. Idempotent; weight and reps are
// left untouched.
func CompleteEntry(entries []Entry, key EntryKey) []Entry {
	index := EntryIndex(entries, key)
	if index < 0 {
		return entries
	}
	next := cloneEntries(entries)
	next[index].Completed = true
	return next
}

func adjustEntry(entries []Entry, key EntryKey, field EntryField, delta float64) []Entry {
	index := EntryIndex(entries, key)
	if index < 0 {
		return entries
	}
	next := cloneEntries(entries)
	var current float64
	switch field {
	case FieldWeight:
		current = parseNumber(next[index].Weight)
	case FieldReps:
		current = parseNumber(next[index].Reps)
	default:
		return entries
	}
	updated := math.Max(0, current+delta)
	switch field {
	case FieldWeight:
		next[index].Weight = formatNumber(updated)
	case FieldReps:
		next[index].Reps = formatNumber(updated)
	}
	return next
}

func cloneEntries(entries []Entry) []Entry {
	next := make([]Entry, len(entries))
	copy(next, entries)
	return next
}

// parseNumber coerces raw user text to a number, defaulting to 0.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
