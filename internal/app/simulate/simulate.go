package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/opsq/internal/app/tick"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/log"
)

// DefaultInterval is the simulation tick cadence.
const DefaultInterval = 1200 * time.Millisecond

// Ticker runs a single simulation tick.
type Ticker interface {
	Run(ctx context.Context, req tick.Request) (*tick.Response, error)
}

// ServiceConfig is the configuration for the simulate service.
type ServiceConfig struct {
	Ticker Ticker
	Clock  clock.Clock
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Ticker == nil {
		return fmt.Errorf("ticker is required")
	}

	if c.Clock == nil {
		c.Clock = clock.Real
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Simulate"})

	return nil
}

// Service drives the simulation on a fixed cadence.
type Service struct {
	ticker Ticker
	clock  clock.Clock
	logger log.Logger
}

// NewService creates a new simulate service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		ticker: cfg.Ticker,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// Request represents the simulate request parameters.
type Request struct {
	// Interval is the time between ticks, defaults to DefaultInterval.
	Interval time.Duration
	// UntilComplete stops the simulation once every task is complete.
	UntilComplete bool
	// MaxTicks stops the simulation after this many ticks, 0 means no limit.
	MaxTicks int
	// OnTick is called after every tick, on the same goroutine.
	OnTick func(tick.Response)
}

// Response is the result of a simulation run.
type Response struct {
	Ticks int
}

// Run ticks the simulation until the context is done or a stop condition is met.
//
// Ticks run one after the other on the caller goroutine, a tick in progress
// always finishes before the cancellation is observed.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	interval := req.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	tk := s.clock.NewTicker(interval)
	defer tk.Stop()

	s.logger.Infof("Simulation started with %s interval", interval)

	res := &Response{}
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Simulation stopped after %d ticks", res.Ticks)
			return res, nil
		case <-tk.C():
		}

		tr, err := s.ticker.Run(ctx, tick.Request{})
		if err != nil {
			return res, fmt.Errorf("tick %d failed: %w", res.Ticks+1, err)
		}
		res.Ticks++

		if req.OnTick != nil {
			req.OnTick(*tr)
		}

		if req.UntilComplete && tr.AllComplete {
			s.logger.Infof("Every task is complete after %d ticks", res.Ticks)
			return res, nil
		}

		if req.MaxTicks > 0 && res.Ticks >= req.MaxTicks {
			s.logger.Debugf("Reached max ticks %d", req.MaxTicks)
			return res, nil
		}
	}
}
