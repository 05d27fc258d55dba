package game

import "time"

// Clock supplies the current time. Escape windows and hint cooldowns are
// evaluated purely by comparing timestamps taken from it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time {
	return time.Now()
}
