package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/run"

	"github.com/slok/opsq/internal/app/dashboard"
	"github.com/slok/opsq/internal/app/simulate"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/tui"
)

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	interval time.Duration
	scope    string
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Watch the live queue dashboard while the simulation runs.")
	c.Cmd.Flag("interval", "Time between simulation ticks.").Default(simulate.DefaultInterval.String()).DurationVar(&c.interval)
	c.Cmd.Flag("scope", "Initial task scope (team, individual).").Default(string(model.ScopeTeam)).EnumVar(&c.scope, string(model.ScopeTeam), string(model.ScopeIndividual))

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c WatchCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	if c.interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	sim, err := c.rootCmd.newSimulator(ctx, clock.Real)
	if err != nil {
		return err
	}

	simSvc, err := simulate.NewService(simulate.ServiceConfig{
		Ticker: sim.ticker,
		Clock:  clock.Real,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create simulate service: %w", err)
	}

	dash, err := dashboard.NewService(dashboard.ServiceConfig{
		Lister:     sim.lister,
		ActiveUser: c.rootCmd.User,
		Scope:      model.Scope(c.scope),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create dashboard service: %w", err)
	}

	m, err := tui.New(ctx, tui.Config{
		Dashboard: dash,
		Clock:     clock.Real,
		Color:     !c.rootCmd.NoColor,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("could not create dashboard: %w", err)
	}

	var g run.Group

	// Simulation.
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				_, err := simSvc.Run(ctx, simulate.Request{Interval: c.interval})
				return err
			},
			func(_ error) {
				cancel()
			},
		)
	}

	// Dashboard.
	{
		p := tea.NewProgram(m,
			tea.WithContext(ctx),
			tea.WithInput(c.rootCmd.Stdin),
			tea.WithOutput(c.rootCmd.Stdout),
			tea.WithAltScreen(),
		)
		g.Add(
			func() error {
				if _, err := p.Run(); err != nil {
					return fmt.Errorf("dashboard failed: %w", err)
				}
				return nil
			},
			func(_ error) {
				p.Quit()
			},
		)
	}

	return g.Run()
}
