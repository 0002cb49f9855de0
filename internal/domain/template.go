// Package domain contains the core business entities for ironlog.
// These entities represent the fundamental concepts of the workout
// tracking system and are independent of any external frameworks or
// infrastructure.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Common domain errors.
var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrEmptyTemplateName = errors.New("template name cannot be empty")
	ErrEmptyExerciseName = errors.New("exercise name cannot be empty")
	ErrNoTemplateID      = errors.New("no template id supplied")
	ErrNoActiveRun       = errors.New("no active run")
	ErrRunNotFinishing   = errors.New("run is not awaiting feedback")
	ErrLogNotFound       = errors.New("log not found")
	ErrCheckInNotFound   = errors.New("check-in not found")
)

// SetSpec describes the rep target for a single planned set.
type SetSpec struct {
	MinReps int    `json:"minReps" yaml:"min_reps"`
	MaxReps int    `json:"maxReps" yaml:"max_reps"`
	Note    string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Exercise is one movement within a template, with its planned sets.
// Sets may be given explicitly; when empty, SetCount flat sets with no
// rep target are assumed.
type Exercise struct {
	Name     string    `json:"name" yaml:"name"`
	VideoID  string    `json:"youtubeId,omitempty" yaml:"video_id,omitempty"`
	SetCount int       `json:"setCount,omitempty" yaml:"set_count,omitempty"`
	Sets     []SetSpec `json:"setsDetails,omitempty" yaml:"sets,omitempty"`
}

// SetSpecs returns the explicit per-set specs, falling back to SetCount
// empty specs when none were authored.
func (e *Exercise) SetSpecs() []SetSpec {
	if len(e.Sets) > 0 {
		return e.Sets
	}
	count := e.SetCount
	if count < 1 {
		count = 1
	}
	specs := make([]SetSpec, count)
	return specs
}

// Template is an authored, reusable workout definition.
type Template struct {
	ID         string     `yaml:"id,omitempty"`
	Owner      string     `yaml:"-"`
	Name       string     `yaml:"name"`
	RestPeriod int        `yaml:"rest_period,omitempty"` // seconds between completed sets, 0 = no rest timer
	Exercises  []Exercise `yaml:"exercises"`
	CreatedAt  time.Time  `yaml:"-"`
	UpdatedAt  time.Time  `yaml:"-"`
}

// NewTemplate creates a template owned by the given user.
func NewTemplate(owner, name string) *Template {
	now := time.Now()
	return &Template{
		ID:        generateID(),
		Owner:     owner,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TotalSets returns the flattened set count across all exercises.
func (t *Template) TotalSets() int {
	total := 0
	for i := range t.Exercises {
		total += len(t.Exercises[i].SetSpecs())
	}
	return total
}

// Validate checks authoring-time constraints. Rep ranges are enforced
// here only; a running session never re-validates them.
func (t *Template) Validate() error {
	if t.Name == "" {
		return ErrEmptyTemplateName
	}
	for i := range t.Exercises {
		ex := &t.Exercises[i]
		if ex.Name == "" {
			return fmt.Errorf("exercise %d: %w", i, ErrEmptyExerciseName)
		}
		for j, spec := range ex.Sets {
			if spec.MinReps <= 0 {
				return fmt.Errorf("exercise %d set %d: min reps must be > 0", i, j)
			}
			if spec.MaxReps <= 0 {
				return fmt.Errorf("exercise %d set %d: max reps must be > 0", i, j)
			}
			if spec.MaxReps < spec.MinReps {
				return fmt.Errorf("exercise %d set %d: max reps must be >= min reps", i, j)
			}
		}
	}
	return nil
}
