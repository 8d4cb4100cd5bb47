package app

import (
	"time"

	"github.com/llehouerou/swell/internal/connect"
)

// EventMsg carries a session event from the mailbox.
type EventMsg struct {
	Event connect.Event
}

// EventsClosedMsg is sent once the event mailbox is closed.
type EventsClosedMsg struct{}

// TickMsg refreshes the position and token expiry once per second.
type TickMsg time.Time

// StartedMsg reports the result of Service.Start.
type StartedMsg struct {
	Err error
}

// StoppedMsg is sent when Stop or Logout returns.
type StoppedMsg struct {
	Err error
	// Logout is set when the stop came from a logout.
	Logout bool
}
