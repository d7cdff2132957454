// Package timer implements the exam countdown.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Warning thresholds in seconds.
const (
	LowSeconds      = 300
	CriticalSeconds = 60
)

// Level is the urgency band of the remaining time.
type Level int

const (
	LevelNormal Level = iota
	LevelLow
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Countdown counts whole seconds down to zero and fires its time-up
// callback exactly once. It does not own a clock; callers invoke Tick once
// per elapsed second.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	paused    bool
	fired     bool
	onTimeUp  func()
}

// New returns a countdown of the given number of minutes. A non-positive
// duration fires on the first Tick (or Start) instead of underflowing.
func New(minutes int, onTimeUp func()) *Countdown {
	secs := minutes * 60
	if secs < 0 {
		secs = 0
	}
	return &Countdown{remaining: secs, onTimeUp: onTimeUp}
}

// Start fires time-up immediately for a zero-length countdown. It reports
// whether time-up fired.
func (c *Countdown) Start() bool {
	c.mu.Lock()
	if c.fired || c.remaining > 0 {
		c.mu.Unlock()
		return false
	}
	return c.fireLocked()
}

// Tick advances the countdown by one second. It reports whether time-up
// fired on this tick.
func (c *Countdown) Tick() bool {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return false
	}
	if c.remaining <= 0 {
		return c.fireLocked()
	}
	if c.paused {
		c.mu.Unlock()
		return false
	}
	c.remaining--
	if c.remaining == 0 {
		return c.fireLocked()
	}
	c.mu.Unlock()
	return false
}

// fireLocked marks the countdown fired, releases the lock and runs the
// callback outside it.
func (c *Countdown) fireLocked() bool {
	c.fired = true
	cb := c.onTimeUp
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
	return true
}

func (c *Countdown) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

func (c *Countdown) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

func (c *Countdown) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Seconds returns the remaining whole seconds.
func (c *Countdown) Seconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) Remaining() time.Duration {
	return time.Duration(c.Seconds()) * time.Second
}

// Expired reports whether no time remains.
func (c *Countdown) Expired() bool {
	return c.Seconds() == 0
}

// Fired reports whether the time-up callback has run.
func (c *Countdown) Fired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}

// Level returns the urgency band for the remaining time.
func (c *Countdown) Level() Level {
	return LevelFor(c.Seconds())
}

// Format renders the remaining time.
func (c *Countdown) Format() string {
	return Format(c.Seconds())
}

// LevelFor returns the urgency band for secs remaining.
func LevelFor(secs int) Level {
	switch {
	case secs <= CriticalSeconds:
		return LevelCritical
	case secs <= LowSeconds:
		return LevelLow
	default:
		return LevelNormal
	}
}

// Format renders secs as MM:SS, or HH:MM:SS when an hour or more remains.
func Format(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
