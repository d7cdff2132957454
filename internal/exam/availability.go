package exam

import (
	"fmt"
	"time"
)

// Availability is the display state of an exam relative to the clock.
type Availability string

const (
	Locked    Availability = "LOCKED"
	Available Availability = "AVAILABLE"
	Expired   Availability = "EXPIRED"
	Completed Availability = "COMPLETED"
)

// AvailabilityAt maps an exam to its availability at now. A COMPLETED
// status wins over the clock. Otherwise the exam is LOCKED before its
// scheduled start, EXPIRED strictly after start + duration, and AVAILABLE
// in between (both bounds inclusive).
func AvailabilityAt(now time.Time, e Exam) Availability {
	if e.Status == StatusCompleted {
		return Completed
	}
	start := e.ScheduledAt.Time
	if now.Before(start) {
		return Locked
	}
	if now.After(e.EndsAt()) {
		return Expired
	}
	return Available
}

// CanStart reports whether a new attempt may begin.
func (a Availability) CanStart() bool {
	return a == Available
}

// Countdown formats the time left until target as HH:MM:SS. The value is
// floor-truncated to whole seconds and clamps to 00:00:00 once target has
// passed. Hours are not wrapped at 24.
func Countdown(now, target time.Time) string {
	diff := target.Sub(now)
	if diff <= 0 {
		return "00:00:00"
	}
	total := int64(diff / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
