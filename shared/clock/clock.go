package clock

import "time"

// Clock supplies the current time. Expiry checks in the service go through
// this interface so tests can pin or advance time without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }
