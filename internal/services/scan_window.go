package services

import "time"

// ScanWindow is the policy deciding when a ticket scan is accepted relative
// to the event schedule. Both offsets are non-negative durations.
type ScanWindow struct {
	Before time.Duration
	After  time.Duration
}

// Contains reports whether now falls inside
// [start - Before, end + After], endpoints inclusive.
// A zero start or end means the event has no usable schedule; no scan is
// accepted for it.
func (w ScanWindow) Contains(now, start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	windowStart := start.Add(-w.Before)
	windowEnd := end.Add(w.After)
	return !now.Before(windowStart) && !now.After(windowEnd)
}
