package domain

import "time"

// Clock abstracts "now" so the scheduling engine can be pinned to a
// fixed day in tests.
type Clock interface {
	Now() time.Time
	Today() Date
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) Today() Date {
	return Canonicalize(time.Now())
}

// SystemClock returns the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock always reports the given instant; test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant.UTC()
}

func (c FixedClock) Today() Date {
	return Canonicalize(c.Instant)
}
