package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsq/internal/clock"
	storageio "github.com/slok/opsq/internal/storage/io"
	"github.com/slok/opsq/internal/view"
)

// SeedCommand is the parent command for seed dataset subcommands.
type SeedCommand struct {
	Cmd *kingpin.CmdClause
}

// NewSeedCommand returns the seed parent command.
func NewSeedCommand(app *kingpin.Application) *SeedCommand {
	return &SeedCommand{
		Cmd: app.Command("seed", "Manage the seed tasks dataset."),
	}
}

// SeedValidateCommand validates a seed file.
type SeedValidateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	file string
}

// NewSeedValidateCommand returns the seed validate command.
func NewSeedValidateCommand(rootCmd *RootCommand, seedCmd *SeedCommand) *SeedValidateCommand {
	c := &SeedValidateCommand{rootCmd: rootCmd}

	c.Cmd = seedCmd.Cmd.Command("validate", "Validate a YAML seed file.")
	c.Cmd.Arg("file", "Seed file path.").Required().StringVar(&c.file)

	return c
}

func (c SeedValidateCommand) Name() string { return c.Cmd.FullCommand() }

func (c SeedValidateCommand) Run(ctx context.Context) error {
	path, err := filepath.Abs(c.file)
	if err != nil {
		return fmt.Errorf("could not resolve seed path: %w", err)
	}

	repo := storageio.NewSeedYAMLRepository(os.DirFS("/"))
	tasks, err := repo.GetSeed(ctx, path[1:], clock.Real.Now())
	if err != nil {
		return fmt.Errorf("invalid seed file %s: %w", c.file, err)
	}

	counts := view.Count(tasks)
	msg := fmt.Sprintf("Seed %s is valid: %d tasks (%d running, %d queued, %d complete)",
		c.file, counts.Total, counts.Running, counts.Queued, counts.Complete)

	return c.rootCmd.newPrinter(formatTable).PrintMessage(msg)
}

// SeedShowCommand shows the configured seed tasks.
type SeedShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewSeedShowCommand returns the seed show command.
func NewSeedShowCommand(rootCmd *RootCommand, seedCmd *SeedCommand) *SeedShowCommand {
	c := &SeedShowCommand{rootCmd: rootCmd}

	c.Cmd = seedCmd.Cmd.Command("show", "Show the seed tasks the simulation starts from.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c SeedShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c SeedShowCommand) Run(ctx context.Context) error {
	tasks, err := c.rootCmd.loadSeed(ctx, clock.Real.Now())
	if err != nil {
		return err
	}

	if err := c.rootCmd.newPrinter(c.format).PrintTaskList(tasks, view.Count(tasks)); err != nil {
		return fmt.Errorf("could not print seed: %w", err)
	}

	return nil
}
