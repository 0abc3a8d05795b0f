// Package throttle provides the fixed-delay politeness limiter used between
// calls to third-party APIs. It is a courtesy contract with those services,
// not a correctness mechanism; swapping in a token bucket would not change
// calling code.
package throttle

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Throttle enforces a minimum interval between successive calls. The zero
// interval disables waiting. Throttle is not safe for concurrent use; every
// pipeline stage runs sequentially and owns its throttle.
type Throttle struct {
	clock    clockwork.Clock
	interval time.Duration
	last     time.Time
}

// New creates a Throttle ticking on the given clock. Pass a fake clock in
// tests to keep them instant.
func New(interval time.Duration, clock clockwork.Clock) *Throttle {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Throttle{clock: clock, interval: interval}
}

// Wait blocks until at least the configured interval has passed since the
// previous call, or the context is cancelled. The first call never waits.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return ctx.Err()
	}

	if !t.last.IsZero() {
		remaining := t.interval - t.clock.Since(t.last)
		if remaining > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.clock.After(remaining):
			}
		}
	}
	t.last = t.clock.Now()
	return nil
}
