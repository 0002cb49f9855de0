package domain

// ExerciseProgress reports how many sets of an exercise are done.
type ExerciseProgress struct {
	Done  int
	Total int
}

// Complete returns true once every set of the exercise is done.
func (p ExerciseProgress) Complete() bool {
	return p.Total > 0 && p.Done >= p.Total
}

// ProgressFor counts total and completed entries for one exercise.
func ProgressFor(entries []Entry, exerciseIndex int) ExerciseProgress {
	var p ExerciseProgress
	for _, e := range entries {
		if e.ExerciseIndex != exerciseIndex {
			continue
		}
		p.Total++
		if e.Completed {
			p.Done++
		}
	}
	return p
}

// CurrentEntryIndex returns the table index of the exercise's next
// incomplete set, or of its last set when the exercise is fully done so
// a completed exercise still has a displayable current entry. Returns
// -1 when the exercise has no entries.
func CurrentEntryIndex(entries []Entry, exerciseIndex int) int {
	p := ProgressFor(entries, exerciseIndex)
	if p.Total == 0 {
		return -1
	}
	target := p.Done
	if p.Done >= p.Total {
		target = p.Total - 1
	}
	seen := 0
	for i, e := range entries {
		if e.ExerciseIndex != exerciseIndex {
			continue
		}
		if seen == target {
			return i
		}
		seen++
	}
	return -1
}

// OverallPercent is the whole-session completion percentage, 0 for an
// empty table.
func OverallPercent(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	done := 0
	for _, e := range entries {
		if e.Completed {
			done++
		}
	}
	return float64(done) / float64(len(entries)) * 100
}
