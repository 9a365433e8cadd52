package ticketing

import "time"

// Scheduler runs a function once after a delay. It exists so tests can
// advance virtual time instead of sleeping through the close grace period.
type Scheduler interface {
	// Schedule runs fn after d and returns a cancel function. Cancelling
	// after fn has started is a no-op.
	Schedule(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

// NewScheduler returns a Scheduler backed by real timers.
func NewScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() {
		t.Stop()
	}
}
