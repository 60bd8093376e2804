// Package notify implements the in-app notification delivery engine for
// the CollisionOS dashboard: admission control, deduplication, a
// capacity-bounded active set, a priority-aware pending queue,
// do-not-disturb gating, and a timed auto-dismiss lifecycle with
// pause/resume.
//
// The engine is purely in-process. Renderers and panels consume it through
// the Engine API and Subscribe; they hold no notification state of their
// own.
package notify

import "time"

// Type classifies a notification for display and grouping.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
	TypeCustom  Type = "custom"
)

// Priority orders the pending queue and controls do-not-disturb gating.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Action is a caller-supplied call-to-action descriptor. The engine carries
// actions opaquely; the renderer interprets them.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
	Style string `json:"style,omitempty"`
}

// Notification is the unit of delivery. Every notification lives in exactly
// one of the active list, the pending queue, or history.
type Notification struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	Type        Type          `json:"type"`
	Priority    Priority      `json:"priority"`
	Title       string        `json:"title"`
	Message     string        `json:"message"`
	Duration    time.Duration `json:"duration"` // 0 keeps the notification until explicitly removed
	Count       int           `json:"count"`
	Read        bool          `json:"read"`
	Dismissed   bool          `json:"dismissed"`
	DismissedAt *time.Time    `json:"dismissed_at,omitempty"`
	Actions     []Action      `json:"actions,omitempty"`
}

// Settings control admission, grouping, capacity, and the side channels.
// They are loaded once at startup, merged with caller overrides, and
// persisted on every mutation.
type Settings struct {
	MaxNotifications int           `json:"max_notifications"`
	DefaultDuration  time.Duration `json:"default_duration"`
	GroupSimilar     bool          `json:"group_similar"`
	PersistHistory   bool          `json:"persist_history"`
	SoundEnabled     bool          `json:"sound_enabled"`
	VibrationEnabled bool          `json:"vibration_enabled"`
}

// DefaultSettings returns the engine defaults applied before stored
// settings and caller overrides are merged in.
func DefaultSettings() Settings {
	return Settings{
		MaxNotifications: 5,
		DefaultDuration:  5 * time.Second,
		GroupSimilar:     true,
		PersistHistory:   true,
		SoundEnabled:     true,
		VibrationEnabled: false,
	}
}

// SettingsPatch is a partial settings update; nil fields keep the current
// value.
type SettingsPatch struct {
	MaxNotifications *int
	DefaultDuration  *time.Duration
	GroupSimilar     *bool
	PersistHistory   *bool
	SoundEnabled     *bool
	VibrationEnabled *bool
}

func (s Settings) merge(p SettingsPatch) Settings {
	if p.MaxNotifications != nil {
		s.MaxNotifications = *p.MaxNotifications
	}
	if p.DefaultDuration != nil {
		s.DefaultDuration = *p.DefaultDuration
	}
	if p.GroupSimilar != nil {
		s.GroupSimilar = *p.GroupSimilar
	}
	if p.PersistHistory != nil {
		s.PersistHistory = *p.PersistHistory
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.VibrationEnabled != nil {
		s.VibrationEnabled = *p.VibrationEnabled
	}
	return s
}

// DoNotDisturb suppresses non-critical delivery until disabled or expired.
type DoNotDisturb struct {
	Enabled       bool       `json:"enabled"`
	Until         *time.Time `json:"until,omitempty"`
	AllowCritical bool       `json:"allow_critical"`
}

// inEffect reports whether the window is still active at now.
func (d DoNotDisturb) inEffect(now time.Time) bool {
	if !d.Enabled {
		return false
	}
	if d.Until != nil && !now.Before(*d.Until) {
		return false
	}
	return true
}

// suppresses reports whether a notification of priority p must be parked
// in the pending queue. Critical notifications are never parked.
func (d DoNotDisturb) suppresses(p Priority, now time.Time) bool {
	return d.inEffect(now) && p != PriorityCritical && !d.AllowCritical
}

// Update is a partial update applied to an active notification. Nil fields
// are left unchanged.
type Update struct {
	Title    *string
	Message  *string
	Priority *Priority
	Duration *time.Duration
	Read     *bool
	Actions  []Action
}

// Option customizes a notification before admission.
type Option func(*request)

type request struct {
	priority    Priority
	duration    time.Duration
	durationSet bool
	actions     []Action
}

// WithPriority overrides the default PriorityNormal.
func WithPriority(p Priority) Option {
	return func(r *request) { r.priority = p }
}

// WithDuration overrides the settings default. WithDuration(0) keeps the
// notification until it is explicitly removed.
func WithDuration(d time.Duration) Option {
	return func(r *request) {
		r.duration = d
		r.durationSet = true
	}
}

// WithActions attaches call-to-action descriptors.
func WithActions(actions ...Action) Option {
	return func(r *request) { r.actions = actions }
}
