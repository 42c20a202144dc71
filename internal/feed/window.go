package feed

import "time"

// DefaultWindowDays is the trailing range used when none is configured.
const DefaultWindowDays = 2

// Window is a trailing time range ending at "now".
type Window struct {
	Days int
}

// Start returns the oldest instant inside the window.
func (w Window) Start(now time.Time) time.Time {
	return now.Add(-time.Duration(w.Days) * 24 * time.Hour)
}

// Contains reports whether t lies in [now - Days, now]. A zero t is never contained.
func (w Window) Contains(now, t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(w.Start(now)) && !t.After(now)
}

// Duration is the length of the window.
func (w Window) Duration() time.Duration {
	return time.Duration(w.Days) * 24 * time.Hour
}
