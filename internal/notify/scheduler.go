package notify

import "time"

// Handle cancels a scheduled callback. Cancel after the callback has fired
// is a no-op.
type Handle interface {
	Cancel()
}

// Scheduler abstracts timer scheduling and the clock so tests can drive
// the engine with a virtual clock and assert exact dismissal timing
// without real waits.
type Scheduler interface {
	// Schedule runs fn once after d elapses.
	Schedule(d time.Duration, fn func()) Handle
	Now() time.Time
}

// NewWallScheduler returns the production Scheduler backed by the runtime
// timers and wall clock.
func NewWallScheduler() Scheduler {
	return wallScheduler{}
}

type wallScheduler struct{}

func (wallScheduler) Schedule(d time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

func (wallScheduler) Now() time.Time {
	return time.Now()
}

type timerHandle struct{ t *time.Timer }

func (h timerHandle) Cancel() {
	h.t.Stop()
}
