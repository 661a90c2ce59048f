package adapters

import (
	"time"

	"netprofile-agent/internal/domain/interfaces"
)

// RealClock is a Clock implementation backed by the system clock
type RealClock struct{}

// NewRealClock creates a new RealClock
func NewRealClock() interfaces.Clock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
