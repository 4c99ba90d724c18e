package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsq/internal/app/status"
	"github.com/slok/opsq/internal/clock"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	idOrName string
	ticks    int
	format   string
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("status", "Get the detailed status of a task and its pipeline.")
	c.Cmd.Arg("id-or-name", "Task ID or name.").Required().StringVar(&c.idOrName)
	c.Cmd.Flag("ticks", "Simulation ticks to advance before getting the status.").Default("0").IntVar(&c.ticks)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	if c.ticks < 0 {
		return fmt.Errorf("ticks must be positive")
	}

	clk := clock.NewManual(clock.Real.Now())
	sim, err := c.rootCmd.newSimulator(ctx, clk)
	if err != nil {
		return err
	}

	if err := sim.fastForward(ctx, clk, c.ticks); err != nil {
		return fmt.Errorf("could not advance simulation: %w", err)
	}

	// Execute status.
	task, err := sim.status.Run(ctx, status.Request{
		IDOrName: c.idOrName,
	})
	if err != nil {
		return fmt.Errorf("could not get task status: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintTask(*task, clk.Now()); err != nil {
		return fmt.Errorf("could not print status: %w", err)
	}

	return nil
}
