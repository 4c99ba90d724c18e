package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/slok/opsq/internal/app/list"
	"github.com/slok/opsq/internal/app/status"
	"github.com/slok/opsq/internal/app/tick"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/conventions"
	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/simulation"
	storageio "github.com/slok/opsq/internal/storage/io"
	"github.com/slok/opsq/internal/storage/memory"
)

// Config configures the SDK simulator.
//
// All fields are optional and have sensible defaults. An empty Config{} will
// use the embedded seed tasks and a random seed.
type Config struct {
	// Tasks are the seed tasks. When empty the tasks are loaded from SeedPath.
	Tasks []Task

	// SeedPath is a YAML seed file path. When empty (and no Tasks are set)
	// the embedded seed is used.
	SeedPath string

	// RandomSeed makes the simulation reproducible.
	// Default: 0, a random seed.
	RandomSeed uint64

	// StepDuration is the duration recorded on the steps that complete
	// without one. Default: a random duration between 30s and 2m.
	StepDuration time.Duration

	// PromotionProbability is the chance of a queued step starting on a new
	// wave. Default: 0.5.
	PromotionProbability float64

	// ActiveUser is the identity used by the individual scope.
	// Default: "You".
	ActiveUser string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.ActiveUser == "" {
		c.ActiveUser = conventions.DefaultActiveUser
	}

	if c.StepDuration < 0 {
		return fmt.Errorf("step duration must not be negative: %w", ErrNotValid)
	}

	return nil
}

// Simulator is the main SDK entry point for simulating the task queue.
//
// Create a Simulator with [New]. A Simulator is safe for concurrent use.
type Simulator struct {
	repo       *memory.Repository
	ticker     *lockedTicker
	lister     *list.Service
	status     *status.Service
	activeUser string
	logger     log.Logger
}

// New creates a new SDK simulator backed by an in-memory task store.
func New(ctx context.Context, cfg Config) (*Simulator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, mapError(fmt.Errorf("invalid config: %w", err))
	}

	tasks, err := loadTasks(ctx, cfg)
	if err != nil {
		return nil, mapError(err)
	}

	repo, err := memory.NewRepository(memory.RepositoryConfig{
		Tasks:  tasks,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create repository: %w", err))
	}

	engineCfg := simulation.EngineConfig{
		Random:               simulation.NewRandom(cfg.RandomSeed),
		PromotionProbability: cfg.PromotionProbability,
		Logger:               cfg.Logger,
	}
	if cfg.StepDuration > 0 {
		engineCfg.StepDuration = simulation.FixedStepDuration(cfg.StepDuration)
	}
	engine, err := simulation.NewEngine(engineCfg)
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create engine: %w", err))
	}

	tickSvc, err := tick.NewService(tick.ServiceConfig{
		Repository: repo,
		Engine:     engine,
		Clock:      clock.Real,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create tick service: %w", err)
	}

	listSvc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create list service: %w", err)
	}

	statusSvc, err := status.NewService(status.ServiceConfig{
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create status service: %w", err)
	}

	return &Simulator{
		repo:       repo,
		ticker:     &lockedTicker{svc: tickSvc},
		lister:     listSvc,
		status:     statusSvc,
		activeUser: cfg.ActiveUser,
		logger:     cfg.Logger,
	}, nil
}

func loadTasks(ctx context.Context, cfg Config) ([]model.Task, error) {
	now := clock.Real.Now()

	switch {
	case len(cfg.Tasks) > 0:
		return toInternalTasks(cfg.Tasks, now), nil
	case cfg.SeedPath != "":
		path, err := filepath.Abs(cfg.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("could not resolve seed path: %w", err)
		}
		tasks, err := storageio.NewSeedYAMLRepository(os.DirFS("/")).GetSeed(ctx, path[1:], now)
		if err != nil {
			return nil, fmt.Errorf("could not load seed: %w", err)
		}
		return tasks, nil
	default:
		return storageio.DefaultSeed(now)
	}
}

// lockedTicker serializes the ticks, the engine is not safe for concurrent use.
type lockedTicker struct {
	mu  sync.Mutex
	svc *tick.Service
}

func (l *lockedTicker) Run(ctx context.Context, req tick.Request) (*tick.Response, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.svc.Run(ctx, req)
}
