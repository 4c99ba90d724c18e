package simulation

import (
	"fmt"
	"time"

	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/timefmt"
)

const (
	// maxIncrement is the biggest progress a running step can make on a tick.
	maxIncrement = 5
	// promotedProgress is the progress of a step that has just been promoted to running.
	promotedProgress            = 1
	defaultPromotionProbability = 0.5
)

// EngineConfig is the configuration for the simulation engine.
type EngineConfig struct {
	// Random is the randomness source, defaults to a time seeded PCG.
	Random Random
	// StepDuration is used for steps that complete without a duration.
	StepDuration StepDurationFunc
	// PromotionProbability is the chance of a queued step joining a new wave.
	PromotionProbability float64
	Logger               log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.Random == nil {
		c.Random = NewRandom(0)
	}

	if c.StepDuration == nil {
		c.StepDuration = RandomStepDuration
	}

	if c.PromotionProbability == 0 {
		c.PromotionProbability = defaultPromotionProbability
	}
	if c.PromotionProbability < 0 || c.PromotionProbability > 1 {
		return fmt.Errorf("promotion probability must be between 0 and 1, got %f", c.PromotionProbability)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "simulation.Engine"})

	return nil
}

// Engine advances the state of the task steps on every tick.
//
// The engine is not safe for concurrent use, ticks are expected to run one
// after the other.
type Engine struct {
	rand          Random
	stepDuration  StepDurationFunc
	promotionProb float64
	logger        log.Logger
}

// NewEngine returns a new simulation engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		rand:          cfg.Random,
		stepDuration:  cfg.StepDuration,
		promotionProb: cfg.PromotionProbability,
		logger:        cfg.Logger,
	}, nil
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
	Version        uint64
	StepsPromoted  []StepEvent
	StepsCompleted []StepEvent
	TasksCompleted []string
}

// Tick returns the next snapshot of the tasks.
//
// The received snapshot is never modified, complete tasks are carried over
// unchanged.
func (e *Engine) Tick(snap model.Snapshot, now time.Time) (model.Snapshot, TickReport) {
	next := model.Snapshot{
		Version: snap.Version + 1,
		Tasks:   make([]model.Task, 0, len(snap.Tasks)),
	}
	report := TickReport{Version: next.Version}

	for _, t := range snap.Tasks {
		next.Tasks = append(next.Tasks, e.tickTask(t, now, &report))
	}

	return next, report
}

func (e *Engine) tickTask(t model.Task, now time.Time, report *TickReport) model.Task {
	if t.Complete() {
		return t
	}

	next := t.Clone()
	steps := next.Steps

	// Advance running steps.
	for i, s := range steps {
		if s.Status != model.StatusRunning {
			continue
		}

		s.Progress = model.ClampProgress(s.Progress + 1 + e.rand.IntN(maxIncrement))
		if s.Progress >= model.MaxProgress {
			s.Status = model.StatusComplete
			if s.Duration == "" {
				s.Duration = timefmt.Duration(e.stepDuration(s, e.rand))
			}
			report.StepsCompleted = append(report.StepsCompleted, stepEvent(t, s))
		}
		steps[i] = s
	}

	// A new wave only starts when the previous one fully drained.
	if !hasStatus(steps, model.StatusRunning) && hasStatus(steps, model.StatusQueued) {
		promoted := 0
		for i, s := range steps {
			if s.Status != model.StatusQueued || e.rand.Float64() >= e.promotionProb {
				continue
			}

			s.Status = model.StatusRunning
			s.Progress = max(s.Progress, promotedProgress)
			steps[i] = s
			promoted++
			report.StepsPromoted = append(report.StepsPromoted, stepEvent(t, s))
		}
		if promoted > 0 {
			e.logger.Debugf("Task %s wave started with %d steps", t.ID, promoted)
		}
	}

	agg := AggregateTask(t, steps, now)
	next.Status = agg.Status
	next.Progress = agg.Progress
	next.Duration = agg.Duration
	if next.Complete() {
		report.TasksCompleted = append(report.TasksCompleted, t.ID)
	}

	return next
}

func hasStatus(steps []model.Step, status model.Status) bool {
	for _, s := range steps {
		if s.Status == status {
			return true
		}
	}
	return false
}

func stepEvent(t model.Task, s model.Step) StepEvent {
	return StepEvent{
		TaskID:   t.ID,
		TaskName: t.Name,
		StepName: s.Name,
		LLM:      s.LLM,
	}
}
