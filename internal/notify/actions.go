package notify

import "time"

// action is the tagged input to the state transition function. Each public
// API call maps to exactly one action.
type action interface{ isAction() }

type promoteAction struct{}

type removeAction struct {
	id      string
	expired bool // set when the lifecycle timer fired rather than a caller
}

type updateAction struct {
	id    string
	patch Update
}

type clearAllAction struct{}

type markReadAction struct{ id string }

type markAllReadAction struct{}

type setDNDAction struct{ dnd DoNotDisturb }

type dndExpiredAction struct{}

type updateSettingsAction struct{ patch SettingsPatch }

type clearHistoryAction struct{}

func (promoteAction) isAction()        {}
func (removeAction) isAction()         {}
func (updateAction) isAction()         {}
func (clearAllAction) isAction()       {}
func (markReadAction) isAction()       {}
func (markAllReadAction) isAction()    {}
func (setDNDAction) isAction()         {}
func (dndExpiredAction) isAction()     {}
func (updateSettingsAction) isAction() {}
func (clearHistoryAction) isAction()   {}

// effect is a side effect requested by the reducer and executed by the
// Engine after the state transition commits. Keeping timers, storage, and
// the feedback channel out of the reducer keeps every transition
// deterministic and directly testable.
type effect interface{ isEffect() }

type startTimerEffect struct {
	id       string
	duration time.Duration
}

type cancelTimerEffect struct{ id string }

type feedbackEffect struct{ n Notification }

type persistSettingsEffect struct{}

type persistHistoryEffect struct{}

type persistDNDEffect struct{}

// promoteLaterEffect arms the pending queue processor's debounce.
type promoteLaterEffect struct{}

// watchDNDEffect schedules the do-not-disturb auto-disable at until.
type watchDNDEffect struct{ until time.Time }

type cancelDNDWatchEffect struct{}

func (startTimerEffect) isEffect()      {}
func (cancelTimerEffect) isEffect()     {}
func (feedbackEffect) isEffect()        {}
func (persistSettingsEffect) isEffect() {}
func (persistHistoryEffect) isEffect()  {}
func (persistDNDEffect) isEffect()      {}
func (promoteLaterEffect) isEffect()    {}
func (watchDNDEffect) isEffect()        {}
func (cancelDNDWatchEffect) isEffect()  {}
