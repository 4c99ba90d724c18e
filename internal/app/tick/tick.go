package tick

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/simulation"
	"github.com/slok/opsq/internal/storage"
)

// Engine produces the next snapshot of the tasks.
type Engine interface {
	Tick(snap model.Snapshot, now time.Time) (model.Snapshot, simulation.TickReport)
}

// ServiceConfig is the configuration for the tick service.
type ServiceConfig struct {
	Repository storage.Repository
	Engine     Engine
	Clock      clock.Clock
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Engine == nil {
		return fmt.Errorf("engine is required")
	}

	if c.Clock == nil {
		c.Clock = clock.Real
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Tick"})

	return nil
}

// Service runs a single simulation tick over the task store.
type Service struct {
	repo   storage.Repository
	engine Engine
	clock  clock.Clock
	logger log.Logger
}

// NewService creates a new tick service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		engine: cfg.Engine,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// Request represents the tick request parameters.
type Request struct{}

// Response is the result of a tick.
type Response struct {
	Report simulation.TickReport
	// AllComplete is true when every task is complete after the tick.
	AllComplete bool
}

// Run advances the simulation one tick and replaces the store snapshot.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	snap, err := s.repo.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get snapshot: %w", err)
	}

	next, report := s.engine.Tick(*snap, s.clock.Now())

	if err := s.repo.ReplaceSnapshot(ctx, next); err != nil {
		return nil, fmt.Errorf("could not replace snapshot: %w", err)
	}

	for _, e := range report.StepsPromoted {
		s.logger.Debugf("Step %q of task %s started on %s", e.StepName, e.TaskID, e.LLM)
	}
	for _, e := range report.StepsCompleted {
		s.logger.Infof("Step %q of task %s completed by %s", e.StepName, e.TaskID, e.LLM)
	}
	for _, id := range report.TasksCompleted {
		s.logger.Infof("Task %s completed", id)
	}

	return &Response{
		Report:      report,
		AllComplete: next.AllComplete(),
	}, nil
}
