package notify

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeScheduler is a virtual clock for tests. Advance moves time forward
// and fires due callbacks in deadline order, outside the scheduler lock so
// callbacks may schedule or cancel further timers.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	seq    int
}

type fakeTimer struct {
	sched     *fakeScheduler
	at        time.Time
	seq       int
	fn        func()
	cancelled bool
	fired     bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{sched: s, at: s.now.Add(d), seq: s.seq, fn: fn}
	s.seq++
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (t *fakeTimer) Cancel() {
	t.sched.mu.Lock()
	t.cancelled = true
	t.sched.mu.Unlock()
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	deadline := s.now.Add(d)
	for {
		next := s.nextDueLocked(deadline)
		if next == nil {
			break
		}
		if s.now.Before(next.at) {
			s.now = next.at
		}
		next.fired = true
		fn := next.fn
		s.mu.Unlock()
		fn()
		s.mu.Lock()
	}
	s.now = deadline
	s.pruneLocked()
	s.mu.Unlock()
}

func (s *fakeScheduler) nextDueLocked(deadline time.Time) *fakeTimer {
	var best *fakeTimer
	for _, t := range s.timers {
		if t.cancelled || t.fired || t.at.After(deadline) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *fakeScheduler) pruneLocked() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live
}

const testDebounce = 100 * time.Millisecond

func newTestEngine(t *testing.T, sched *fakeScheduler) *Engine {
	t.Helper()
	e := New(nil, nil, Config{Scheduler: sched, PromoteDebounce: testDebounce}, zap.NewNop())
	t.Cleanup(e.Close)
	return e
}

func intPtr(v int) *int                     { return &v }
func boolPtr(v bool) *bool                  { return &v }
func strPtr(v string) *string               { return &v }
func durPtr(v time.Duration) *time.Duration { return &v }
func prioPtr(v Priority) *Priority          { return &v }
