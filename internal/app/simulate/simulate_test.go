package simulate_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsq/internal/app/simulate"
	"github.com/slok/opsq/internal/app/tick"
	"github.com/slok/opsq/internal/clock"
)

// fakeTicker completes the simulation on the configured tick.
type fakeTicker struct {
	mu         sync.Mutex
	calls      int
	completeOn int
	failOn     int
}

func (f *fakeTicker) Run(ctx context.Context, req tick.Request) (*tick.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return nil, fmt.Errorf("something")
	}

	return &tick.Response{AllComplete: f.completeOn > 0 && f.calls >= f.completeOn}, nil
}

// runAdvancing runs the service while the manual clock advances, until it returns.
func runAdvancing(ctx context.Context, t *testing.T, c *clock.Manual, svc *simulate.Service, req simulate.Request) (*simulate.Response, error) {
	t.Helper()

	type result struct {
		res *simulate.Response
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := svc.Run(ctx, req)
		done <- result{res: res, err: err}
	}()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-done:
			return r.res, r.err
		case <-timeout:
			t.Fatal("simulation did not stop")
			return nil, nil
		default:
			c.Advance(req.Interval)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestNewService(t *testing.T) {
	_, err := simulate.NewService(simulate.ServiceConfig{})
	assert.Error(t, err)

	svc, err := simulate.NewService(simulate.ServiceConfig{Ticker: &fakeTicker{}})
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestService_Run(t *testing.T) {
	t0 := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		ticker   *fakeTicker
		req      simulate.Request
		expTicks int
		expErr   bool
	}{
		"Max ticks should stop the simulation.": {
			ticker:   &fakeTicker{},
			req:      simulate.Request{Interval: time.Second, MaxTicks: 3},
			expTicks: 3,
		},

		"Until complete should stop once every task is complete.": {
			ticker:   &fakeTicker{completeOn: 2},
			req:      simulate.Request{Interval: time.Second, UntilComplete: true, MaxTicks: 10},
			expTicks: 2,
		},

		"Without until complete the simulation should keep ticking.": {
			ticker:   &fakeTicker{completeOn: 1},
			req:      simulate.Request{Interval: time.Second, MaxTicks: 4},
			expTicks: 4,
		},

		"A failing tick should stop the simulation with an error.": {
			ticker:   &fakeTicker{failOn: 2},
			req:      simulate.Request{Interval: time.Second},
			expTicks: 1,
			expErr:   true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			c := clock.NewManual(t0)
			svc, err := simulate.NewService(simulate.ServiceConfig{Ticker: test.ticker, Clock: c})
			require.NoError(err)

			observed := 0
			test.req.OnTick = func(tick.Response) { observed++ }

			res, err := runAdvancing(context.Background(), t, c, svc, test.req)

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
			require.NotNil(res)
			assert.Equal(test.expTicks, res.Ticks)
			assert.Equal(test.expTicks, observed)
		})
	}
}

func TestService_RunCanceled(t *testing.T) {
	ticker := &fakeTicker{}
	svc, err := simulate.NewService(simulate.ServiceConfig{Ticker: ticker, Clock: clock.NewManual(time.Now())})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Run(ctx, simulate.Request{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Ticks)
	assert.Equal(t, 0, ticker.calls)
}
