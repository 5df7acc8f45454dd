// Package clock supplies "now" in the gym's business time zone.
package clock

import "time"

// Func returns the current time.
type Func func() time.Time

// In returns a clock reporting wall time in loc, so calendar days follow the
// business zone rather than the server's.
func In(loc *time.Location) Func {
	return func() time.Time { return time.Now().In(loc) }
}

// Fixed always returns t.
func Fixed(t time.Time) Func {
	return func() time.Time { return t }
}
