package timer

import (
	"context"
	"time"
)

// Runner drives a Countdown from a wall-clock ticker. The TUI does not use
// it; it ticks the countdown from its own event loop.
type Runner struct {
	Countdown *Countdown
	Interval  time.Duration
}

// NewRunner returns a Runner ticking c once per second.
func NewRunner(c *Countdown) *Runner {
	return &Runner{Countdown: c, Interval: time.Second}
}

// Run blocks until time runs out or ctx is cancelled. It returns ctx.Err()
// on cancellation and nil once time-up has fired.
func (r *Runner) Run(ctx context.Context) error {
	if r.Countdown.Start() || r.Countdown.Fired() {
		return nil
	}

	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if r.Countdown.Tick() || r.Countdown.Fired() {
				return nil
			}
		}
	}
}
