package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Farhaan96/CollisionOS-sub003/internal/feedback"
	"github.com/Farhaan96/CollisionOS-sub003/internal/metrics"
	"github.com/Farhaan96/CollisionOS-sub003/internal/store"
)

// defaultPromoteDebounce is the wait before promoting the head of the
// pending queue, preventing promotion storms when do-not-disturb is
// toggled off with many queued items.
const defaultPromoteDebounce = 500 * time.Millisecond

// Config tunes engine behavior. Zero values fall back to defaults.
type Config struct {
	// Scheduler drives timers and the clock; nil selects the wall clock.
	Scheduler Scheduler
	// Settings are overrides applied over whatever the store holds.
	Settings SettingsPatch
	// PromoteDebounce overrides the pending queue debounce window.
	PromoteDebounce time.Duration
}

// Snapshot is the read-only view delivered to subscribers after every
// state change.
type Snapshot struct {
	Active       []Notification
	Pending      []Notification
	History      []Notification
	Settings     Settings
	DoNotDisturb DoNotDisturb
	UnreadCount  int
}

// Engine is the notification delivery engine. It is the single owner of
// the active list, pending queue, and history; every mutation passes
// through one serialized state transition, so callers never coordinate.
// Construct exactly one per process and hand references to consumers.
type Engine struct {
	mu       sync.Mutex
	st       state
	timers   map[string]*timer
	sched    Scheduler
	persist  *persister
	feedback feedback.Dispatcher
	logger   *zap.Logger

	promoteDebounce time.Duration
	promoteInFlight bool
	promoteHandle   Handle
	dndHandle       Handle

	subs    map[int]func(Snapshot)
	nextSub int
	closed  bool
}

// New creates the engine, loading settings, history, and do-not-disturb
// state from kv (nil disables persistence) and merging cfg.Settings over
// whatever was stored. New never fails: unreadable documents fall back to
// defaults.
func New(kv store.KeyValueStore, fb feedback.Dispatcher, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = NewWallScheduler()
	}
	debounce := cfg.PromoteDebounce
	if debounce <= 0 {
		debounce = defaultPromoteDebounce
	}

	e := &Engine{
		timers:          make(map[string]*timer),
		sched:           sched,
		feedback:        fb,
		logger:          logger,
		promoteDebounce: debounce,
		subs:            make(map[int]func(Snapshot)),
	}

	e.st.settings = DefaultSettings()
	if kv != nil {
		e.persist = newPersister(kv, logger)
		if stored, ok := e.persist.loadSettings(); ok {
			e.st.settings = stored
		}
		e.st.history = e.persist.loadHistory()
		if dnd, ok := e.persist.loadDND(); ok {
			e.st.dnd = dnd
		}
	}
	e.st.settings = e.st.settings.merge(cfg.Settings)
	if len(e.st.history) > maxHistory {
		e.st.history = e.st.history[:maxHistory]
	}

	// Re-arm the auto-disable for a do-not-disturb window restored from
	// the store; drop it entirely when the window already lapsed.
	now := sched.Now()
	if e.st.dnd.Enabled && e.st.dnd.Until != nil {
		if now.Before(*e.st.dnd.Until) {
			e.watchDNDLocked(*e.st.dnd.Until, now)
		} else {
			e.st.dnd = DoNotDisturb{}
		}
	}

	metrics.SetActive(0)
	metrics.SetPending(0)

	logger.Info("notification engine ready",
		zap.Int("max_active", e.st.settings.MaxNotifications),
		zap.Int("history", len(e.st.history)),
		zap.Bool("do_not_disturb", e.st.dnd.Enabled),
	)
	return e
}

// Add admits a notification and returns the id that now represents it:
// a fresh id, or the id of the active entry it was grouped into. Add
// never fails to produce an id.
func (e *Engine) Add(typ Type, title, message string, opts ...Option) string {
	req := request{priority: PriorityNormal}
	for _, opt := range opts {
		opt(&req)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return uuid.NewString()
	}
	now := e.sched.Now()

	duration := e.st.settings.DefaultDuration
	if req.durationSet {
		duration = req.duration
	}
	n := Notification{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Type:      typ,
		Priority:  req.priority,
		Title:     title,
		Message:   message,
		Duration:  duration,
		Count:     1,
		Actions:   req.actions,
	}

	prev := e.st
	next, effs, id := admit(e.st, n, now)
	e.st = next

	switch {
	case id != n.ID:
		metrics.RecordGrouped(string(typ))
	case len(next.pending) > len(prev.pending):
		metrics.RecordQueued(string(typ), n.Priority.String())
	default:
		metrics.RecordAdmitted(string(typ), n.Priority.String())
	}
	if evicted := len(next.history) - len(prev.history); evicted > 0 {
		metrics.RecordEvicted(evicted)
	}

	e.runEffectsLocked(effs, now)
	snap, subs := e.commitLocked()
	e.mu.Unlock()

	publish(snap, subs)
	return id
}

// Success delivers a success notification.
func (e *Engine) Success(message string, opts ...Option) string {
	return e.Add(TypeSuccess, "Success", message, opts...)
}

// Error delivers an error notification.
func (e *Engine) Error(message string, opts ...Option) string {
	return e.Add(TypeError, "Error", message, opts...)
}

// Warning delivers a warning notification.
func (e *Engine) Warning(message string, opts ...Option) string {
	return e.Add(TypeWarning, "Warning", message, opts...)
}

// Info delivers an informational notification.
func (e *Engine) Info(message string, opts ...Option) string {
	return e.Add(TypeInfo, "Info", message, opts...)
}

// Critical delivers an error notification that defaults to critical
// priority and no auto-dismissal; explicit options still win.
func (e *Engine) Critical(message string, opts ...Option) string {
	defaults := []Option{WithPriority(PriorityCritical), WithDuration(0)}
	return e.Add(TypeError, "Critical", message, append(defaults, opts...)...)
}

// Remove dismisses an active notification, archiving it to history.
// Unknown ids are a no-op.
func (e *Engine) Remove(id string) {
	e.dispatch(removeAction{id: id})
}

// expire is the timer-driven removal path.
func (e *Engine) expire(id string) {
	e.dispatch(removeAction{id: id, expired: true})
}

// Update applies a partial update to an active notification. Changing the
// duration restarts its countdown. Unknown ids are a no-op.
func (e *Engine) Update(id string, patch Update) {
	e.dispatch(updateAction{id: id, patch: patch})
}

// ClearAll archives every active and pending notification.
func (e *Engine) ClearAll() {
	e.dispatch(clearAllAction{})
}

// MarkRead marks one notification read, in the active list or in history.
func (e *Engine) MarkRead(id string) {
	e.dispatch(markReadAction{id: id})
}

// MarkAllRead marks every active notification read. History is untouched.
func (e *Engine) MarkAllRead() {
	e.dispatch(markAllReadAction{})
}

// SetDoNotDisturb toggles suppression of non-critical delivery. A positive
// duration bounds the window, after which it auto-disables and the pending
// queue drains.
func (e *Engine) SetDoNotDisturb(enabled bool, duration time.Duration, allowCritical bool) {
	dnd := DoNotDisturb{Enabled: enabled, AllowCritical: allowCritical}
	if enabled && duration > 0 {
		until := e.sched.Now().Add(duration)
		dnd.Until = &until
	}
	e.dispatch(setDNDAction{dnd: dnd})
}

// UpdateSettings merges a partial settings update and persists the result.
// Lowering MaxNotifications evicts overflow immediately.
func (e *Engine) UpdateSettings(patch SettingsPatch) {
	e.dispatch(updateSettingsAction{patch: patch})
}

// ClearHistory discards the archive and removes its persisted document.
func (e *Engine) ClearHistory() {
	e.dispatch(clearHistoryAction{})
}

// Notifications returns a copy of the active list, in arrival order.
func (e *Engine) Notifications() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneList(e.st.active)
}

// Pending returns a copy of the pending queue, in promotion order.
func (e *Engine) Pending() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneList(e.st.pending)
}

// History returns a copy of the archive, newest first.
func (e *Engine) History() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneList(e.st.history)
}

func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.settings
}

func (e *Engine) DoNotDisturb() DoNotDisturb {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.dnd
}

// UnreadCount counts unread notifications in the active list.
func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for i := range e.st.active {
		if !e.st.active[i].Read {
			count++
		}
	}
	return count
}

// TotalCount counts every notification the engine currently tracks across
// the active list, pending queue, and history.
func (e *Engine) TotalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.st.active) + len(e.st.pending) + len(e.st.history)
}

func (e *Engine) HistoryCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.st.history)
}

// Subscribe registers fn to receive a snapshot after every state change
// and returns the matching unsubscribe. Callbacks run outside the engine
// lock, in dispatch order; they may call back into the engine.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Close stops all timers and drains pending persistence writes. The engine
// must not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true

	for id, t := range e.timers {
		if t.handle != nil {
			t.handle.Cancel()
		}
		delete(e.timers, id)
	}
	if e.promoteHandle != nil {
		e.promoteHandle.Cancel()
	}
	if e.dndHandle != nil {
		e.dndHandle.Cancel()
	}
	p := e.persist
	e.mu.Unlock()

	if p != nil {
		p.close()
	}
	e.logger.Info("notification engine stopped")
}

// dispatch runs one action through the state transition and executes its
// effects. It is the engine's only mutation path.
func (e *Engine) dispatch(a action) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	now := e.sched.Now()
	prev := e.st
	next, effs := reduce(e.st, a, now)
	e.st = next

	e.recordLocked(a, prev, next)
	e.runEffectsLocked(effs, now)
	snap, subs := e.commitLocked()
	e.mu.Unlock()

	publish(snap, subs)
}

func (e *Engine) recordLocked(a action, prev, next state) {
	switch a := a.(type) {
	case removeAction:
		if len(next.active) < len(prev.active) {
			if a.expired {
				metrics.RecordExpired()
			} else {
				metrics.RecordDismissed()
			}
		}
	case promoteAction:
		if len(next.pending) < len(prev.pending) {
			metrics.RecordPromoted()
		}
		if evicted := len(next.history) - len(prev.history); evicted > 0 {
			metrics.RecordEvicted(evicted)
		}
	case updateSettingsAction:
		if evicted := len(next.history) - len(prev.history); evicted > 0 {
			metrics.RecordEvicted(evicted)
		}
	}
}

func (e *Engine) runEffectsLocked(effs []effect, now time.Time) {
	for _, eff := range effs {
		switch eff := eff.(type) {
		case startTimerEffect:
			e.startTimerLocked(eff.id, eff.duration, now)
		case cancelTimerEffect:
			e.cancelTimerLocked(eff.id)
		case feedbackEffect:
			e.dispatchFeedback(eff.n)
		case persistSettingsEffect:
			if e.persist != nil {
				e.persist.enqueue(settingsKey, e.st.settings)
			}
		case persistHistoryEffect:
			e.persistHistoryLocked()
		case persistDNDEffect:
			if e.persist != nil {
				e.persist.enqueue(dndKey, e.st.dnd)
			}
		case promoteLaterEffect:
			e.schedulePromotionLocked()
		case watchDNDEffect:
			e.watchDNDLocked(eff.until, now)
		case cancelDNDWatchEffect:
			if e.dndHandle != nil {
				e.dndHandle.Cancel()
				e.dndHandle = nil
			}
		}
	}
}

func (e *Engine) persistHistoryLocked() {
	if e.persist == nil {
		return
	}
	if len(e.st.history) == 0 {
		e.persist.enqueueRemove(historyKey)
		return
	}
	if !e.st.settings.PersistHistory {
		return
	}
	e.persist.enqueue(historyKey, cloneList(e.st.history))
}

// dispatchFeedback fires the sound/vibration side channel without
// observing the result beyond a log line and a counter. Failures can never
// affect delivery.
func (e *Engine) dispatchFeedback(n Notification) {
	if e.feedback == nil {
		return
	}
	ev := feedback.Event{
		ID:      n.ID,
		Type:    string(n.Type),
		Title:   n.Title,
		Sound:   e.st.settings.SoundEnabled,
		Vibrate: e.st.settings.VibrationEnabled,
	}
	if !ev.Sound && !ev.Vibrate {
		return
	}
	go func() {
		if err := e.feedback.Dispatch(ev); err != nil {
			e.logger.Debug("feedback dispatch failed",
				zap.String("id", ev.ID),
				zap.Error(err),
			)
			metrics.RecordFeedbackFailure()
		}
	}()
}

// schedulePromotionLocked arms the single-flight debounce for the pending
// queue processor.
func (e *Engine) schedulePromotionLocked() {
	if e.promoteInFlight || e.closed || len(e.st.pending) == 0 {
		return
	}
	e.promoteInFlight = true
	e.promoteHandle = e.sched.Schedule(e.promoteDebounce, func() {
		e.mu.Lock()
		e.promoteInFlight = false
		e.mu.Unlock()
		e.dispatch(promoteAction{})
	})
}

func (e *Engine) watchDNDLocked(until time.Time, now time.Time) {
	if e.dndHandle != nil {
		e.dndHandle.Cancel()
	}
	wait := until.Sub(now)
	if wait < 0 {
		wait = 0
	}
	e.dndHandle = e.sched.Schedule(wait, func() {
		e.dispatch(dndExpiredAction{})
	})
}

func (e *Engine) commitLocked() (Snapshot, []func(Snapshot)) {
	metrics.SetActive(len(e.st.active))
	metrics.SetPending(len(e.st.pending))

	if len(e.subs) == 0 {
		return Snapshot{}, nil
	}
	snap := Snapshot{
		Active:       cloneList(e.st.active),
		Pending:      cloneList(e.st.pending),
		History:      cloneList(e.st.history),
		Settings:     e.st.settings,
		DoNotDisturb: e.st.dnd,
	}
	for i := range snap.Active {
		if !snap.Active[i].Read {
			snap.UnreadCount++
		}
	}
	subs := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

func publish(snap Snapshot, subs []func(Snapshot)) {
	for _, fn := range subs {
		fn(snap)
	}
}
