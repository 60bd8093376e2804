package notify

import "time"

// reduce is the single state transition function: given the current state
// and one action it returns the next state plus the side effects the
// engine must run. It never touches the clock, timers, or storage itself.
// Unknown ids and invalid transitions are no-ops, not errors.
func reduce(s state, a action, now time.Time) (state, []effect) {
	switch a := a.(type) {
	case promoteAction:
		return promote(s, now)
	case removeAction:
		return dismiss(s, a.id, now)
	case updateAction:
		return applyUpdate(s, a.id, a.patch)
	case clearAllAction:
		return clearAll(s, now)
	case markReadAction:
		return markRead(s, a.id)
	case markAllReadAction:
		return markAllRead(s)
	case setDNDAction:
		return setDND(s, a.dnd)
	case dndExpiredAction:
		s, effs := expireDND(s, now, nil)
		return s, effs
	case updateSettingsAction:
		s.settings = s.settings.merge(a.patch)
		effs := []effect{persistSettingsEffect{}}
		// The cap may have been lowered; re-enforce it immediately.
		return enforceCapacity(s, now, effs)
	case clearHistoryAction:
		if len(s.history) == 0 {
			return s, nil
		}
		s.history = nil
		return s, []effect{persistHistoryEffect{}}
	}
	return s, nil
}

// promote moves the head of the pending queue through the delivery path.
// Exactly one entry is promoted per cycle; the engine reschedules while
// the queue keeps draining.
func promote(s state, now time.Time) (state, []effect) {
	if len(s.pending) == 0 {
		return s, nil
	}

	var effs []effect
	s, effs = expireDND(s, now, effs)

	head := s.pending[0]
	// Do-not-disturb re-engaged while queued: keep the entry parked until
	// the gate opens again.
	if s.dnd.suppresses(head.Priority, now) {
		return s, effs
	}

	s.pending = cloneList(s.pending[1:])
	s, effs, _ = deliver(s, head, now, effs)
	if len(s.pending) > 0 {
		effs = append(effs, promoteLaterEffect{})
	}
	return s, effs
}

// dismiss moves an active entry to history. Timer expiry and explicit
// removal share this path, so a notification's timer is cancelled exactly
// once whichever comes first.
func dismiss(s state, id string, now time.Time) (state, []effect) {
	idx := indexByID(s.active, id)
	if idx < 0 {
		return s, nil
	}

	n := s.active[idx]
	remaining := cloneList(s.active)
	s.active = append(remaining[:idx], remaining[idx+1:]...)
	s.history = archive(s.history, n, now)

	return s, []effect{cancelTimerEffect{id: id}, persistHistoryEffect{}}
}

func applyUpdate(s state, id string, u Update) (state, []effect) {
	idx := indexByID(s.active, id)
	if idx < 0 {
		return s, nil
	}

	updated := cloneList(s.active)
	n := &updated[idx]
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Message != nil {
		n.Message = *u.Message
	}
	if u.Priority != nil {
		n.Priority = *u.Priority
	}
	if u.Read != nil {
		n.Read = *u.Read
	}
	if u.Actions != nil {
		n.Actions = u.Actions
	}

	var effs []effect
	if u.Duration != nil {
		n.Duration = *u.Duration
		effs = append(effs, cancelTimerEffect{id: id})
		if *u.Duration > 0 {
			effs = append(effs, startTimerEffect{id: id, duration: *u.Duration})
		}
	}

	s.active = updated
	return s, effs
}

// clearAll archives every active and pending notification. Nothing is ever
// silently dropped: cleared entries land in history like any dismissal.
func clearAll(s state, now time.Time) (state, []effect) {
	if len(s.active) == 0 && len(s.pending) == 0 {
		return s, nil
	}

	var effs []effect
	for _, n := range s.active {
		effs = append(effs, cancelTimerEffect{id: n.ID})
		s.history = archive(s.history, n, now)
	}
	for _, n := range s.pending {
		s.history = archive(s.history, n, now)
	}
	s.active = nil
	s.pending = nil

	effs = append(effs, persistHistoryEffect{})
	return s, effs
}

func markRead(s state, id string) (state, []effect) {
	if idx := indexByID(s.active, id); idx >= 0 {
		updated := cloneList(s.active)
		updated[idx].Read = true
		s.active = updated
		return s, nil
	}
	if idx := indexByID(s.history, id); idx >= 0 {
		updated := cloneList(s.history)
		updated[idx].Read = true
		s.history = updated
		return s, []effect{persistHistoryEffect{}}
	}
	return s, nil
}

func markAllRead(s state) (state, []effect) {
	if len(s.active) == 0 {
		return s, nil
	}
	updated := cloneList(s.active)
	for i := range updated {
		updated[i].Read = true
	}
	s.active = updated
	return s, nil
}

func setDND(s state, d DoNotDisturb) (state, []effect) {
	s.dnd = d

	effs := []effect{persistDNDEffect{}}
	if d.Enabled && d.Until != nil {
		effs = append(effs, watchDNDEffect{until: *d.Until})
	} else {
		effs = append(effs, cancelDNDWatchEffect{})
	}
	// The gate may have opened; the promotion cycle re-checks it either way.
	if len(s.pending) > 0 {
		effs = append(effs, promoteLaterEffect{})
	}
	return s, effs
}
