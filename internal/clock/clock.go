package clock

import "time"

// Clock abstracts wall-clock time and timer scheduling so timer-driven
// logic can be tested without real delays.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellation token for a scheduled callback. Stop reports
// whether the call was prevented from firing.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// New returns a Clock backed by the runtime timers
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
