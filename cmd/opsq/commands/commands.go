package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/opsq/internal/app/list"
	"github.com/slok/opsq/internal/app/simulate"
	"github.com/slok/opsq/internal/app/status"
	"github.com/slok/opsq/internal/app/tick"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/conventions"
	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/printer"
	"github.com/slok/opsq/internal/simulation"
	storageio "github.com/slok/opsq/internal/storage/io"
	"github.com/slok/opsq/internal/storage/memory"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	formatTable = "table"
	formatJSON  = "json"
)

var defaultSeedPath = conventions.SeedPath(homedir.HomeDir())

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	SeedPath   string
	User       string
	RandSeed   uint64

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger and output color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("seed-path", "Path to the YAML seed tasks file, the embedded seed is used when the default file is missing.").Envar("OPSQ_SEED_PATH").Default(defaultSeedPath).StringVar(&c.SeedPath)
	app.Flag("user", "Active user identity used by the individual scope.").Default(conventions.DefaultActiveUser).StringVar(&c.User)
	app.Flag("rand-seed", "Simulation random seed, 0 uses a random one.").Default("0").Uint64Var(&c.RandSeed)

	return c
}

// loadSeed loads the seed tasks from the configured seed path.
func (c *RootCommand) loadSeed(ctx context.Context, now time.Time) ([]model.Task, error) {
	path, err := filepath.Abs(c.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("could not resolve seed path: %w", err)
	}

	repo := storageio.NewSeedYAMLRepository(os.DirFS("/"))
	tasks, err := repo.GetSeed(ctx, path[1:], now)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && c.SeedPath == defaultSeedPath {
			c.Logger.Debugf("Seed file %s missing, using embedded seed", c.SeedPath)
			return storageio.DefaultSeed(now)
		}
		return nil, fmt.Errorf("could not load seed: %w", err)
	}

	c.Logger.Debugf("Loaded %d tasks from %s", len(tasks), c.SeedPath)
	return tasks, nil
}

// simulator is the wired simulation stack shared by the commands.
type simulator struct {
	repo   *memory.Repository
	ticker *tick.Service
	lister *list.Service
	status *status.Service
}

func (c *RootCommand) newSimulator(ctx context.Context, clk clock.Clock) (*simulator, error) {
	logger := c.Logger

	tasks, err := c.loadSeed(ctx, clk.Now())
	if err != nil {
		return nil, err
	}

	repo, err := memory.NewRepository(memory.RepositoryConfig{
		Tasks:  tasks,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	engine, err := simulation.NewEngine(simulation.EngineConfig{
		Random: simulation.NewRandom(c.RandSeed),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create simulation engine: %w", err)
	}

	tickSvc, err := tick.NewService(tick.ServiceConfig{
		Repository: repo,
		Engine:     engine,
		Clock:      clk,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create tick service: %w", err)
	}

	listSvc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create list service: %w", err)
	}

	statusSvc, err := status.NewService(status.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create status service: %w", err)
	}

	return &simulator{
		repo:   repo,
		ticker: tickSvc,
		lister: listSvc,
		status: statusSvc,
	}, nil
}

// fastForward advances the simulation the received ticks on a manual clock.
func (s *simulator) fastForward(ctx context.Context, clk *clock.Manual, ticks int) error {
	for i := range ticks {
		clk.Advance(simulate.DefaultInterval)
		if _, err := s.ticker.Run(ctx, tick.Request{}); err != nil {
			return fmt.Errorf("tick %d failed: %w", i+1, err)
		}
	}

	return nil
}

func (c *RootCommand) newPrinter(format string) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(c.Stdout)
	default: // table
		return printer.NewTablePrinter(c.Stdout, !c.NoColor)
	}
}
