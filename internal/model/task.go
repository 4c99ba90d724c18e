package model

import (
	"fmt"
	"time"
)

// Status represents the execution state of a task or a step.
type Status string

const (
	// StatusQueued indicates the work is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusRunning indicates a worker is executing the work.
	StatusRunning Status = "running"
	// StatusComplete indicates the work finished. It's a terminal state.
	StatusComplete Status = "complete"
)

// Valid returns true if the status is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusComplete:
		return true
	}
	return false
}

const (
	// MinProgress is the lowest progress value.
	MinProgress = 0
	// MaxProgress is the progress value of finished work.
	MaxProgress = 100
)

// ClampProgress forces a progress value into the [0, 100] range.
func ClampProgress(p int) int {
	return min(max(p, MinProgress), MaxProgress)
}

// Step represents one pipeline stage of a task, executed by a single LLM worker.
type Step struct {
	Name     string
	Status   Status
	LLM      string
	Progress int
	// Duration is the formatted elapsed time, only set once the step is complete.
	Duration string
}

// Task represents a job composed of an ordered pipeline of steps.
//
// Status, Progress and Duration are derived from the steps, they are only
// updated by the simulation engine.
type Task struct {
	ID        string
	Name      string
	User      string
	LLM       string
	StartTime time.Time
	Steps     []Step
	Status    Status
	Progress  int
	Duration  string
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Steps != nil {
		c.Steps = make([]Step, len(t.Steps))
		copy(c.Steps, t.Steps)
	}
	return c
}

// Complete returns true if the task reached its terminal state.
func (t Task) Complete() bool {
	return t.Status == StatusComplete
}

// Validate validates the task.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if t.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if t.User == "" {
		return fmt.Errorf("user is required: %w", ErrNotValid)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", t.Status, ErrNotValid)
	}
	if t.Progress < MinProgress || t.Progress > MaxProgress {
		return fmt.Errorf("progress must be between 0 and 100, got %d: %w", t.Progress, ErrNotValid)
	}
	if t.Status != StatusQueued && len(t.Steps) == 0 {
		return fmt.Errorf("%s task requires steps: %w", t.Status, ErrNotValid)
	}

	allComplete := len(t.Steps) > 0
	for i, s := range t.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if s.Status != StatusComplete {
			allComplete = false
		}
	}

	if t.Status == StatusComplete {
		if !allComplete {
			return fmt.Errorf("complete task has unfinished steps: %w", ErrNotValid)
		}
		if t.Progress != MaxProgress {
			return fmt.Errorf("complete task must have 100 progress, got %d: %w", t.Progress, ErrNotValid)
		}
	}

	return nil
}

// Validate validates the step.
func (s Step) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", s.Status, ErrNotValid)
	}
	if s.Progress < MinProgress || s.Progress > MaxProgress {
		return fmt.Errorf("progress must be between 0 and 100, got %d: %w", s.Progress, ErrNotValid)
	}
	if s.Status == StatusComplete && s.Progress != MaxProgress {
		return fmt.Errorf("complete step must have 100 progress, got %d: %w", s.Progress, ErrNotValid)
	}
	return nil
}
