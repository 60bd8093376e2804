// Package feedback is the best-effort audio/haptic side channel triggered
// when a notification is admitted. It is deliberately isolated from the
// delivery path: the engine swallows and logs every error a Dispatcher
// returns, so feedback failures can never affect delivery guarantees.
package feedback

import (
	"fmt"
	"io"
	"os"
)

// Event describes one admission the side channel may react to.
type Event struct {
	ID      string
	Type    string
	Title   string
	Sound   bool
	Vibrate bool
}

// Dispatcher plays feedback for an admitted notification. Implementations
// must be safe for concurrent use.
type Dispatcher interface {
	Dispatch(Event) error
}

// Noop discards all events.
type Noop struct{}

func (Noop) Dispatch(Event) error { return nil }

// Console rings the terminal bell for audible feedback. There is no
// console equivalent for vibration, so that flag is ignored.
type Console struct {
	w io.Writer
}

// NewConsole creates a Console dispatcher writing to w, defaulting to
// stdout when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

func (c *Console) Dispatch(ev Event) error {
	if !ev.Sound {
		return nil
	}
	if _, err := c.w.Write([]byte("\a")); err != nil {
		return fmt.Errorf("console feedback: %w", err)
	}
	return nil
}

var (
	_ Dispatcher = Noop{}
	_ Dispatcher = (*Console)(nil)
)
