package notify

import "time"

// tickInterval is how often a running lifecycle timer re-evaluates its
// remaining time. Dismissal precision is bounded by this interval.
const tickInterval = 50 * time.Millisecond

type timerState int

const (
	timerRunning timerState = iota
	timerPaused
)

// timer is the countdown attached to one active notification. The engine
// mutex guards all fields. Removing the timer from the engine's map is the
// absorbing "dismissed" transition: cancellation happens exactly once,
// whether by expiry, explicit removal, or capacity eviction.
type timer struct {
	duration  time.Duration
	startedAt time.Time
	pausedAt  time.Time
	paused    time.Duration // accumulated time spent paused
	state     timerState
	handle    Handle
}

// elapsed returns active (non-paused) time since the countdown started.
// It is invariant across any number of pause/resume cycles.
func (t *timer) elapsed(now time.Time) time.Duration {
	e := now.Sub(t.startedAt) - t.paused
	if t.state == timerPaused {
		e -= now.Sub(t.pausedAt)
	}
	if e < 0 {
		e = 0
	}
	return e
}

func (t *timer) remaining(now time.Time) time.Duration {
	r := t.duration - t.elapsed(now)
	if r < 0 {
		r = 0
	}
	return r
}

// startTimerLocked begins the auto-dismiss countdown for id.
func (e *Engine) startTimerLocked(id string, d time.Duration, now time.Time) {
	if old, ok := e.timers[id]; ok && old.handle != nil {
		old.handle.Cancel()
	}
	t := &timer{duration: d, startedAt: now, state: timerRunning}
	t.handle = e.sched.Schedule(tickInterval, func() { e.tick(id) })
	e.timers[id] = t
}

func (e *Engine) cancelTimerLocked(id string) {
	t, ok := e.timers[id]
	if !ok {
		return
	}
	if t.handle != nil {
		t.handle.Cancel()
	}
	delete(e.timers, id)
}

// tick re-evaluates one countdown. When it reaches zero the entry moves to
// history through the same path as an explicit removal.
func (e *Engine) tick(id string) {
	e.mu.Lock()
	t, ok := e.timers[id]
	if !ok || t.state != timerRunning || e.closed {
		e.mu.Unlock()
		return
	}

	now := e.sched.Now()
	if t.elapsed(now) >= t.duration {
		e.mu.Unlock()
		e.expire(id)
		return
	}

	t.handle = e.sched.Schedule(tickInterval, func() { e.tick(id) })
	e.mu.Unlock()
}

// Pause suspends the auto-dismiss countdown for id, typically while the
// pointer hovers over the toast. Pausing anything but a running timer is a
// no-op.
func (e *Engine) Pause(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok || t.state != timerRunning {
		return
	}
	if t.handle != nil {
		t.handle.Cancel()
		t.handle = nil
	}
	t.pausedAt = e.sched.Now()
	t.state = timerPaused
}

// Resume restarts a paused countdown from where it left off. Resuming
// anything but a paused timer is a no-op.
func (e *Engine) Resume(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok || t.state != timerPaused {
		return
	}
	t.paused += e.sched.Now().Sub(t.pausedAt)
	t.state = timerRunning
	t.handle = e.sched.Schedule(tickInterval, func() { e.tick(id) })
}

// Remaining reports the active time left before auto-dismissal, for
// renderers drawing countdown progress. The second return is false for
// persistent or unknown notifications.
func (e *Engine) Remaining(id string) (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return 0, false
	}
	return t.remaining(e.sched.Now()), true
}
