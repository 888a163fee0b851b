package dispatch

import "time"

// Clock abstracts wall-clock time so dispatch ticks can be simulated in
// tests without real time passing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now
func SystemClock() Clock {
	return systemClock{}
}
