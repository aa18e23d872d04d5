package tboxtiming

import "time"

// WallClock is the monotonic wall clock the Threshold Calibrator uses to
// measure the whole calibration pass. It is deliberately a
// different capability from CycleTimer: the cycle timer measures individual
// encryptions, the wall clock measures the pass as a whole.
type WallClock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// SystemWallClock is the production WallClock, backed by time.Now.
type SystemWallClock struct{}

// Now implements WallClock.
func (SystemWallClock) Now() time.Time { return time.Now() }

// Since implements WallClock.
func (SystemWallClock) Since(t time.Time) time.Duration { return time.Since(t) }
