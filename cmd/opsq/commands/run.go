package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsq/internal/app/list"
	"github.com/slok/opsq/internal/app/simulate"
	"github.com/slok/opsq/internal/app/tick"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/printer"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	interval      time.Duration
	untilComplete bool
	maxTicks      int
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run the simulation headless, printing a line per tick.")
	c.Cmd.Flag("interval", "Time between simulation ticks.").Default(simulate.DefaultInterval.String()).DurationVar(&c.interval)
	c.Cmd.Flag("until-complete", "Stop when every task is complete.").BoolVar(&c.untilComplete)
	c.Cmd.Flag("max-ticks", "Stop after this many ticks, 0 means no limit.").Default("0").IntVar(&c.maxTicks)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	if c.interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.maxTicks < 0 {
		return fmt.Errorf("max ticks must be positive")
	}

	sim, err := c.rootCmd.newSimulator(ctx, clock.Real)
	if err != nil {
		return err
	}

	svc, err := simulate.NewService(simulate.ServiceConfig{
		Ticker: sim.ticker,
		Clock:  clock.Real,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	p := c.rootCmd.newPrinter(formatTable)
	var printErr error
	resp, err := svc.Run(ctx, simulate.Request{
		Interval:      c.interval,
		UntilComplete: c.untilComplete,
		MaxTicks:      c.maxTicks,
		OnTick: func(tr tick.Response) {
			if printErr != nil {
				return
			}
			printErr = c.printTick(ctx, p, sim.lister, tr)
		},
	})
	if err != nil {
		return fmt.Errorf("could not run simulation: %w", err)
	}
	if printErr != nil {
		return fmt.Errorf("could not print tick: %w", printErr)
	}

	logger.Infof("Simulation finished after %d ticks", resp.Ticks)

	final, err := sim.lister.Run(ctx, list.Request{ActiveUser: c.rootCmd.User})
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	if err := p.PrintTaskList(final.Tasks, final.Counts); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}

func (c RunCommand) printTick(ctx context.Context, p printer.Printer, lister *list.Service, tr tick.Response) error {
	resp, err := lister.Run(ctx, list.Request{ActiveUser: c.rootCmd.User})
	if err != nil {
		return err
	}

	line := fmt.Sprintf("tick %d: running %d, queued %d, complete %d/%d",
		tr.Report.Version, resp.Counts.Running, resp.Counts.Queued, resp.Counts.Complete, resp.Counts.Total)

	events := []string{}
	for _, e := range tr.Report.StepsPromoted {
		events = append(events, fmt.Sprintf("started %q on %s (%s)", e.StepName, e.TaskName, e.LLM))
	}
	for _, e := range tr.Report.StepsCompleted {
		events = append(events, fmt.Sprintf("finished %q on %s", e.StepName, e.TaskName))
	}
	for _, id := range tr.Report.TasksCompleted {
		events = append(events, fmt.Sprintf("task %s complete", id))
	}
	if len(events) > 0 {
		line += "; " + strings.Join(events, ", ")
	}

	return p.PrintMessage(line)
}
