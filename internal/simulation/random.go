package simulation

import (
	"math/rand/v2"
	"time"

	"github.com/slok/opsq/internal/model"
)

// Random is the source of randomness used by the engine.
//
// It's satisfied by *rand.Rand from math/rand/v2, tests can provide
// scripted implementations to assert exact transitions.
type Random interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}

// NewRandom returns a PCG backed Random. A zero seed uses the current time.
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// StepDurationFunc returns the elapsed time recorded on a step that just completed
// without a duration.
type StepDurationFunc func(step model.Step, r Random) time.Duration

const (
	minStepDuration = 30 * time.Second
	maxStepDuration = 120 * time.Second
)

// RandomStepDuration draws a placeholder elapsed time in [30s, 120s).
func RandomStepDuration(_ model.Step, r Random) time.Duration {
	spread := int((maxStepDuration - minStepDuration) / time.Second)
	return minStepDuration + time.Duration(r.IntN(spread))*time.Second
}

// FixedStepDuration always records the same elapsed time.
func FixedStepDuration(d time.Duration) StepDurationFunc {
	return func(model.Step, Random) time.Duration { return d }
}
