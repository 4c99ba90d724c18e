// Package timefmt formats elapsed times in the compact form shown on task
// and step rows ("45s", "3m 12s", "1h 4m").
package timefmt

import (
	"fmt"
	"math"
	"time"
)

// Millis formats an elapsed time expressed in milliseconds.
//
// Non-positive and non-finite values are formatted as "0s".
func Millis(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return "0s"
	}

	s := int64(math.Floor(ms / 1000))
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}

	m := s / 60
	if m < 60 {
		return fmt.Sprintf("%dm %ds", m, s%60)
	}

	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

// Duration formats a time.Duration the same way as Millis.
func Duration(d time.Duration) string {
	return Millis(float64(d.Milliseconds()))
}

// Since formats the elapsed time between start and now.
func Since(start, now time.Time) string {
	return Duration(now.Sub(start))
}
