package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsq/internal/clock"
)

var t0 = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

func receive(tk clock.Ticker) (time.Time, bool) {
	select {
	case t := <-tk.C():
		return t, true
	default:
		return time.Time{}, false
	}
}

func TestManualClock(t *testing.T) {
	tests := map[string]struct {
		advances []time.Duration
		expTicks []bool
	}{
		"Advancing less than the period should not tick.": {
			advances: []time.Duration{time.Second},
			expTicks: []bool{false},
		},

		"Advancing a full period should tick.": {
			advances: []time.Duration{1200 * time.Millisecond},
			expTicks: []bool{true},
		},

		"Partial advances should add up to a tick.": {
			advances: []time.Duration{600 * time.Millisecond, 600 * time.Millisecond, 600 * time.Millisecond},
			expTicks: []bool{false, true, false},
		},

		"Advancing several periods at once should deliver a single tick.": {
			advances: []time.Duration{5 * time.Second, 0},
			expTicks: []bool{true, false},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			c := clock.NewManual(t0)
			tk := c.NewTicker(1200 * time.Millisecond)
			defer tk.Stop()

			var total time.Duration
			for i, d := range test.advances {
				total += d
				c.Advance(d)
				got, ok := receive(tk)
				assert.Equal(test.expTicks[i], ok, "advance %d", i)
				if ok {
					assert.Equal(t0.Add(total), got)
				}
			}
			assert.Equal(t0.Add(total), c.Now())
		})
	}
}

func TestManualClockStoppedTicker(t *testing.T) {
	c := clock.NewManual(t0)
	tk := c.NewTicker(time.Second)
	tk.Stop()

	c.Advance(time.Minute)
	_, ok := receive(tk)
	assert.False(t, ok)
}

func TestManualClockInvalidPeriod(t *testing.T) {
	c := clock.NewManual(t0)
	require.Panics(t, func() { c.NewTicker(0) })
}

func TestRealClock(t *testing.T) {
	tk := clock.Real.NewTicker(time.Millisecond)
	defer tk.Stop()

	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("real ticker did not tick")
	}
	assert.WithinDuration(t, time.Now(), clock.Real.Now(), time.Second)
}
