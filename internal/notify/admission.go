package notify

import "time"

// admit runs the admission pipeline for a freshly constructed notification:
// the do-not-disturb gate, then grouping and delivery into the active list.
// It returns the id that now represents the notification: the existing
// entry's id when the notification was merged, n.ID otherwise.
func admit(s state, n Notification, now time.Time) (state, []effect, string) {
	var effs []effect

	// Expire a lapsed do-not-disturb window before gating against it.
	s, effs = expireDND(s, now, effs)

	if s.dnd.suppresses(n.Priority, now) {
		s.pending = enqueuePending(s.pending, n)
		return s, effs, n.ID
	}

	return deliver(s, n, now, effs)
}

// deliver performs the admission steps shared by direct adds and pending
// queue promotions: grouping, append, feedback, capacity enforcement.
func deliver(s state, n Notification, now time.Time, effs []effect) (state, []effect, string) {
	if s.settings.GroupSimilar {
		if i := indexSimilar(s.active, n); i >= 0 {
			merged := cloneList(s.active)
			merged[i].Count++
			merged[i].CreatedAt = now
			s.active = merged
			// The existing timer keeps running; merging never extends it.
			return s, effs, s.active[i].ID
		}
	}

	s.active = append(cloneList(s.active), n)
	effs = append(effs, feedbackEffect{n: n})
	if n.Duration > 0 {
		effs = append(effs, startTimerEffect{id: n.ID, duration: n.Duration})
	}

	s, effs = enforceCapacity(s, now, effs)
	return s, effs, n.ID
}

// indexSimilar finds an active entry n would be grouped into. Similarity is
// exact (type, title) equality; differing messages still merge.
func indexSimilar(active []Notification, n Notification) int {
	for i := range active {
		if active[i].Type == n.Type && active[i].Title == n.Title {
			return i
		}
	}
	return -1
}

// enqueuePending inserts n keeping priority rank as the primary order and
// arrival as the tie break.
func enqueuePending(q []Notification, n Notification) []Notification {
	out := append(cloneList(q), n)
	i := len(out) - 1
	for i > 0 && out[i-1].Priority < n.Priority {
		out[i] = out[i-1]
		i--
	}
	out[i] = n
	return out
}

// expireDND lazily disables a do-not-disturb window whose deadline passed.
func expireDND(s state, now time.Time, effs []effect) (state, []effect) {
	if s.dnd.Enabled && !s.dnd.inEffect(now) {
		s.dnd = DoNotDisturb{}
		effs = append(effs, persistDNDEffect{}, cancelDNDWatchEffect{})
		if len(s.pending) > 0 {
			effs = append(effs, promoteLaterEffect{})
		}
	}
	return s, effs
}
