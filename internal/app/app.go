// Package app is the bubbletea front end: it drives the connect.Service from
// key presses and renders the status tracker.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/swell/internal/connect"
	"github.com/llehouerou/swell/internal/keymap"
	"github.com/llehouerou/swell/internal/mailbox"
	"github.com/llehouerou/swell/internal/status"
)

// Player is the part of connect.Service the UI drives.
type Player interface {
	Start() error
	Stop()
	Logout() error
	IsActive() bool
	Play()
	Pause()
	Next()
	Previous()
	RefreshAccessToken()
	Username() string
	DeviceName() string
	SetUsername(string)
	SetPassword(string)
}

var _ Player = (*connect.Service)(nil)

// Model is the root bubbletea model.
type Model struct {
	Player  Player
	Tracker *status.Tracker
	Events  *mailbox.Mailbox[connect.Event]

	// Observers see every event after the tracker, on the update loop.
	Observers connect.Fanout

	Keys *keymap.Resolver
	Help help.Model

	Width  int
	Height int

	// Busy is set while a Stop or Logout runs off the update loop.
	Busy bool
	// Message is the last UI-level error, shown until the next action.
	Message string
	// Login is the open login form, or nil.
	Login *LoginForm

	now func() time.Time
}

// New builds the model. Events is the mailbox the service's listener sends
// into. The model drains it and feeds the tracker and observers.
func New(p Player, tracker *status.Tracker, events *mailbox.Mailbox[connect.Event], observers ...connect.Listener) Model {
	return Model{
		Player:    p,
		Tracker:   tracker,
		Events:    events,
		Observers: observers,
		Keys:      keymap.NewResolver(keymap.Bindings),
		Help:      help.New(),
		now:       time.Now,
	}
}

// Init starts the player, the event pump and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(StartCmd(m.Player), WatchEvents(m.Events), TickCmd())
}
