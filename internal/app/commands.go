package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/swell/internal/connect"
	"github.com/llehouerou/swell/internal/mailbox"
)

// TickCmd returns a command that sends TickMsg after 1 second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEvents waits for the next event in the mailbox. Update re-arms it after
// every EventMsg.
func WatchEvents(events *mailbox.Mailbox[connect.Event]) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := events.Receive(context.Background())
		if !ok {
			return EventsClosedMsg{}
		}
		return EventMsg{Event: e}
	}
}

// StartCmd starts the player.
func StartCmd(p Player) tea.Cmd {
	return func() tea.Msg {
		return StartedMsg{Err: p.Start()}
	}
}

// StopCmd stops the player off the update loop, since Stop waits for the
// runtime to exit.
func StopCmd(p Player) tea.Cmd {
	return func() tea.Msg {
		p.Stop()
		return StoppedMsg{}
	}
}

// LogoutCmd stops the player and forgets the stored credentials.
func LogoutCmd(p Player) tea.Cmd {
	return func() tea.Msg {
		return StoppedMsg{Err: p.Logout(), Logout: true}
	}
}
