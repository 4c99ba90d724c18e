package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsq/internal/app/list"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/model"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	scope  string
	query  string
	ticks  int
	format string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List the queued tasks.")
	c.Cmd.Flag("scope", "Task scope (team, individual).").Default(string(model.ScopeTeam)).EnumVar(&c.scope, string(model.ScopeTeam), string(model.ScopeIndividual))
	c.Cmd.Flag("query", "Search tasks by name, user or LLM.").StringVar(&c.query)
	c.Cmd.Flag("ticks", "Simulation ticks to advance before listing.").Default("0").IntVar(&c.ticks)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
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

	// Execute list.
	resp, err := sim.lister.Run(ctx, list.Request{
		Scope:      model.Scope(c.scope),
		ActiveUser: c.rootCmd.User,
		Query:      c.query,
	})
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintTaskList(resp.Tasks, resp.Counts); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
