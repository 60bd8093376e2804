package notify

// maxHistory caps the archive; entries beyond it are discarded permanently.
const maxHistory = 100

// state holds everything the reducer operates on. The Engine owns the only
// live instance; all mutation passes through reduce or admit.
type state struct {
	active   []Notification
	pending  []Notification
	history  []Notification
	settings Settings
	dnd      DoNotDisturb
}

func cloneList(ns []Notification) []Notification {
	if len(ns) == 0 {
		return nil
	}
	out := make([]Notification, len(ns))
	copy(out, ns)
	return out
}

func indexByID(ns []Notification, id string) int {
	for i := range ns {
		if ns[i].ID == id {
			return i
		}
	}
	return -1
}
