package simulation

import (
	"math"
	"time"

	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/timefmt"
)

// Aggregate is the task level state derived from its steps.
type Aggregate struct {
	Status   model.Status
	Progress int
	Duration string
}

// AggregateTask derives the status, progress and duration of a task from its
// steps. prev is the task before the steps changed.
//
// Progress never goes below the previous task progress and is 100 only when
// every step is complete. A task without steps keeps its previous aggregate.
func AggregateTask(prev model.Task, steps []model.Step, now time.Time) Aggregate {
	agg := Aggregate{
		Status:   prev.Status,
		Progress: model.ClampProgress(prev.Progress),
		Duration: prev.Duration,
	}
	if len(steps) == 0 {
		return agg
	}

	sum := 0
	allComplete := true
	anyRunning := false
	for _, s := range steps {
		sum += model.ClampProgress(s.Progress)
		switch s.Status {
		case model.StatusRunning:
			anyRunning = true
			allComplete = false
		case model.StatusComplete:
		default:
			allComplete = false
		}
	}

	mean := int(math.Round(float64(sum) / float64(len(steps))))
	agg.Progress = model.ClampProgress(max(agg.Progress, mean))

	switch {
	case allComplete:
		agg.Status = model.StatusComplete
		agg.Progress = model.MaxProgress
		if prev.Status != model.StatusComplete || agg.Duration == "" {
			agg.Duration = timefmt.Since(prev.StartTime, now)
		}
	case anyRunning:
		agg.Status = model.StatusRunning
	}

	return agg
}
