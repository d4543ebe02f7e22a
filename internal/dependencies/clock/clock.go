package clock

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the clock's current calendar date in the league time zone.
// A nil location means UTC.
func Today(c Clock, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(c.Now().In(loc))
}
