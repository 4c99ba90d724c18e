package lib

import (
	"context"
	"fmt"

	"github.com/slok/opsq/internal/app/list"
	"github.com/slok/opsq/internal/app/simulate"
	"github.com/slok/opsq/internal/app/status"
	"github.com/slok/opsq/internal/app/tick"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/model"
)

// Tick advances the simulation one step.
func (s *Simulator) Tick(ctx context.Context) (*TickReport, error) {
	resp, err := s.ticker.Run(ctx, tick.Request{})
	if err != nil {
		return nil, mapError(err)
	}

	report := fromInternalTickReport(resp.Report, resp.AllComplete)
	return &report, nil
}

// ListTasks lists the tasks on a scope. Pass nil opts to list every task.
func (s *Simulator) ListTasks(ctx context.Context, opts *ListTasksOpts) ([]Task, error) {
	req := list.Request{ActiveUser: s.activeUser}
	if opts != nil {
		req.Scope = model.Scope(opts.Scope)
		req.Query = opts.Query
	}

	resp, err := s.lister.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalTaskList(resp.Tasks), nil
}

// GetTask returns a task by ID or name.
//
// Returns [ErrNotFound] if the task does not exist.
func (s *Simulator) GetTask(ctx context.Context, idOrName string) (*Task, error) {
	t, err := s.status.Run(ctx, status.Request{IDOrName: idOrName})
	if err != nil {
		return nil, mapError(err)
	}

	task := fromInternalTask(*t)
	return &task, nil
}

// Counts returns the number of tasks per status.
func (s *Simulator) Counts(ctx context.Context) (Counts, error) {
	resp, err := s.lister.Run(ctx, list.Request{})
	if err != nil {
		return Counts{}, mapError(err)
	}

	return fromInternalCounts(resp.Counts), nil
}

// Run ticks the simulation on a wall clock interval. It blocks until the
// context is canceled or a stop condition of the opts is met, and returns the
// number of ticks. Pass nil opts to run until cancellation.
func (s *Simulator) Run(ctx context.Context, opts *RunOpts) (int, error) {
	svc, err := simulate.NewService(simulate.ServiceConfig{
		Ticker: s.ticker,
		Clock:  clock.Real,
		Logger: s.logger,
	})
	if err != nil {
		return 0, fmt.Errorf("could not create service: %w", err)
	}

	req := simulate.Request{}
	if opts != nil {
		if opts.Interval < 0 || opts.MaxTicks < 0 {
			return 0, fmt.Errorf("interval and max ticks must not be negative: %w", ErrNotValid)
		}

		req.Interval = opts.Interval
		req.UntilComplete = opts.UntilComplete
		req.MaxTicks = opts.MaxTicks
		if opts.OnTick != nil {
			req.OnTick = func(r tick.Response) {
				opts.OnTick(fromInternalTickReport(r.Report, r.AllComplete))
			}
		}
	}

	resp, err := svc.Run(ctx, req)
	if err != nil {
		return resp.Ticks, mapError(err)
	}

	return resp.Ticks, nil
}
