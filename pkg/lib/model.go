package lib

import (
	"errors"
	"time"

	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/simulation"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when seed tasks share the same ID.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input.
	ErrNotValid = errors.New("not valid")
)

// Status represents the execution state of a task or a step.
//
// The lifecycle only moves forward:
//
//	queued -> running -> complete
type Status string

const (
	// StatusQueued indicates the work is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusRunning indicates the work is being processed.
	StatusRunning Status = "running"
	// StatusComplete indicates the work has finished.
	StatusComplete Status = "complete"
)

// Scope selects which tasks are listed.
type Scope string

const (
	// ScopeTeam lists every task.
	ScopeTeam Scope = "team"
	// ScopeIndividual lists only the tasks of the active user.
	ScopeIndividual Scope = "individual"
)

// Task is a unit of work made of a pipeline of steps.
//
// This is a read-only snapshot of the task state at the time of the API call.
// Use [Simulator.GetTask] to get the latest state.
type Task struct {
	// ID is the unique identifier, generated as a ULID when the seed has none.
	ID string
	// Name is the human-friendly name.
	Name string
	// User is the task owner.
	User string
	// LLM is the primary model label of the task.
	LLM string
	// StartTime is when the task started. Zero means now when seeding.
	StartTime time.Time
	// Steps is the ordered pipeline.
	Steps []Step
	// Status is derived from the steps.
	Status Status
	// Progress is the rounded mean progress of the steps, 0-100.
	Progress int
	// Duration is the display duration of the task.
	Duration string
}

// Step is a single pipeline stage executed by one LLM worker.
type Step struct {
	Name     string
	Status   Status
	LLM      string
	Progress int
	Duration string
}

// Counts is the number of tasks per status.
type Counts struct {
	Total    int
	Running  int
	Queued   int
	Complete int
}

// StepEvent identifies a step that changed on a tick.
type StepEvent struct {
	TaskID   string
	TaskName string
	StepName string
	LLM      string
}

// TickReport summarizes what happened on a tick.
type TickReport struct {
	// Version is the task store version after the tick.
	Version uint64
	// StepsPromoted are the steps that started running.
	StepsPromoted []StepEvent
	// StepsCompleted are the steps that finished.
	StepsCompleted []StepEvent
	// TasksCompleted are the IDs of the tasks that finished.
	TasksCompleted []string
	// AllComplete is true when every task is complete.
	AllComplete bool
}

// ListTasksOpts are the options for [Simulator.ListTasks].
type ListTasksOpts struct {
	// Scope defaults to [ScopeTeam].
	Scope Scope
	// Query filters by name, user or LLM, case insensitive.
	Query string
}

// RunOpts are the options for [Simulator.Run].
type RunOpts struct {
	// Interval between ticks. Default: 1.2s.
	Interval time.Duration
	// UntilComplete stops once every task is complete.
	UntilComplete bool
	// MaxTicks stops after this many ticks. Default: 0, no limit.
	MaxTicks int
	// OnTick is called after every tick.
	OnTick func(TickReport)
}

// --- Internal conversion helpers ---

func toInternalTasks(ts []Task, now time.Time) []model.Task {
	result := make([]model.Task, len(ts))
	for i, t := range ts {
		start := t.StartTime
		if start.IsZero() {
			start = now
		}

		result[i] = model.Task{
			ID:        t.ID,
			Name:      t.Name,
			User:      t.User,
			LLM:       t.LLM,
			StartTime: start,
			Status:    toInternalStatus(t.Status),
			Progress:  t.Progress,
			Duration:  t.Duration,
			Steps:     make([]model.Step, len(t.Steps)),
		}
		for j, s := range t.Steps {
			result[i].Steps[j] = model.Step{
				Name:     s.Name,
				Status:   toInternalStatus(s.Status),
				LLM:      s.LLM,
				Progress: s.Progress,
				Duration: s.Duration,
			}
		}
	}
	return result
}

func toInternalStatus(s Status) model.Status {
	if s == "" {
		return model.StatusQueued
	}
	return model.Status(s)
}

func fromInternalTask(t model.Task) Task {
	task := Task{
		ID:        t.ID,
		Name:      t.Name,
		User:      t.User,
		LLM:       t.LLM,
		StartTime: t.StartTime,
		Status:    Status(t.Status),
		Progress:  t.Progress,
		Duration:  t.Duration,
		Steps:     make([]Step, len(t.Steps)),
	}
	for i, s := range t.Steps {
		task.Steps[i] = Step{
			Name:     s.Name,
			Status:   Status(s.Status),
			LLM:      s.LLM,
			Progress: s.Progress,
			Duration: s.Duration,
		}
	}
	return task
}

func fromInternalTaskList(ts []model.Task) []Task {
	result := make([]Task, len(ts))
	for i, t := range ts {
		result[i] = fromInternalTask(t)
	}
	return result
}

func fromInternalCounts(c model.Counts) Counts {
	return Counts{
		Total:    c.Total,
		Running:  c.Running,
		Queued:   c.Queued,
		Complete: c.Complete,
	}
}

func fromInternalTickReport(r simulation.TickReport, allComplete bool) TickReport {
	return TickReport{
		Version:        r.Version,
		StepsPromoted:  fromInternalStepEvents(r.StepsPromoted),
		StepsCompleted: fromInternalStepEvents(r.StepsCompleted),
		TasksCompleted: append([]string{}, r.TasksCompleted...),
		AllComplete:    allComplete,
	}
}

func fromInternalStepEvents(es []simulation.StepEvent) []StepEvent {
	result := make([]StepEvent, len(es))
	for i, e := range es {
		result[i] = StepEvent{
			TaskID:   e.TaskID,
			TaskName: e.TaskName,
			StepName: e.StepName,
			LLM:      e.LLM,
		}
	}
	return result
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
