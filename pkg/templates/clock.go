package templates

import "time"

// Clock supplies the generation date. Templates never read wall-clock time
// themselves, so identical fields and an identical clock give identical text.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// FixedClock always reports the same instant.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// SystemClock reads the local wall clock. Callers pass it explicitly at the
// edge of the program.
var SystemClock Clock = ClockFunc(time.Now)
