package services

import "time"

// Clock supplies the current time. Services take it as a dependency so
// dormancy windows and hold expiries can be tested against a fixed time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// NewRealClock returns a Clock backed by the system time
func NewRealClock() Clock {
	return realClock{}
}
