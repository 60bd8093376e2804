package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	notificationsAdmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collisionos_notifications_admitted_total",
			Help: "Notifications delivered into the active list by type and priority",
		},
		[]string{"type", "priority"},
	)

	notificationsGrouped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collisionos_notifications_grouped_total",
			Help: "Notifications merged into an existing active entry instead of creating a new one",
		},
		[]string{"type"},
	)

	notificationsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collisionos_notifications_queued_total",
			Help: "Notifications parked in the pending queue by the do-not-disturb gate",
		},
		[]string{"type", "priority"},
	)

	notificationsPromoted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collisionos_notifications_promoted_total",
			Help: "Notifications promoted from the pending queue into the active list",
		},
	)

	notificationsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collisionos_notifications_evicted_total",
			Help: "Notifications evicted into history by capacity enforcement",
		},
	)

	notificationsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collisionos_notifications_expired_total",
			Help: "Notifications auto-dismissed by their lifecycle timer",
		},
	)

	notificationsDismissed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collisionos_notifications_dismissed_total",
			Help: "Notifications removed explicitly by a caller",
		},
	)

	activeNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collisionos_notifications_active",
			Help: "Current size of the active notification list",
		},
	)

	pendingNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collisionos_notifications_pending",
			Help: "Current depth of the do-not-disturb pending queue",
		},
	)

	persistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collisionos_notify_persist_failures_total",
			Help: "Durable store read/write failures by document key",
		},
		[]string{"key"},
	)

	feedbackFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collisionos_notify_feedback_failures_total",
			Help: "Sound/vibration dispatch failures (best effort, swallowed)",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAdmitted records a notification delivered into the active list
func RecordAdmitted(typ, priority string) {
	notificationsAdmitted.WithLabelValues(typ, priority).Inc()
}

// RecordGrouped records a deduplication merge
func RecordGrouped(typ string) {
	notificationsGrouped.WithLabelValues(typ).Inc()
}

// RecordQueued records a notification parked by do-not-disturb
func RecordQueued(typ, priority string) {
	notificationsQueued.WithLabelValues(typ, priority).Inc()
}

// RecordPromoted records a pending queue promotion
func RecordPromoted() {
	notificationsPromoted.Inc()
}

// RecordEvicted records n capacity evictions
func RecordEvicted(n int) {
	notificationsEvicted.Add(float64(n))
}

// RecordExpired records a timer-driven auto-dismissal
func RecordExpired() {
	notificationsExpired.Inc()
}

// RecordDismissed records an explicit removal
func RecordDismissed() {
	notificationsDismissed.Inc()
}

// SetActive sets the current active list size
func SetActive(n int) {
	activeNotifications.Set(float64(n))
}

// SetPending sets the current pending queue depth
func SetPending(n int) {
	pendingNotifications.Set(float64(n))
}

// RecordPersistFailure records a durable store failure for a document key
func RecordPersistFailure(key string) {
	persistFailures.WithLabelValues(key).Inc()
}

// RecordFeedbackFailure records a swallowed feedback dispatch error
func RecordFeedbackFailure() {
	feedbackFailures.Inc()
}
