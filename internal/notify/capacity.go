package notify

import "time"

// enforceCapacity evicts the oldest active entries into history until the
// list fits settings.MaxNotifications. Evicted entries are archived, never
// dropped; their timers are cancelled.
func enforceCapacity(s state, now time.Time, effs []effect) (state, []effect) {
	limit := s.settings.MaxNotifications
	if limit <= 0 || len(s.active) <= limit {
		return s, effs
	}

	for len(s.active) > limit {
		oldest := s.active[0]
		s.active = cloneList(s.active[1:])
		s.history = archive(s.history, oldest, now)
		effs = append(effs, cancelTimerEffect{id: oldest.ID})
	}
	effs = append(effs, persistHistoryEffect{})
	return s, effs
}

// archive marks n dismissed and prepends it to history (newest first),
// enforcing the history cap.
func archive(h []Notification, n Notification, now time.Time) []Notification {
	at := now
	n.Dismissed = true
	n.DismissedAt = &at

	out := make([]Notification, 0, len(h)+1)
	out = append(out, n)
	out = append(out, h...)
	if len(out) > maxHistory {
		out = out[:maxHistory]
	}
	return out
}
