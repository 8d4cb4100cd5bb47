package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/connect"
	"github.com/llehouerou/swell/internal/errmsg"
	"github.com/llehouerou/swell/internal/keymap"
	"github.com/llehouerou/swell/internal/status"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.Login != nil {
			return m.handleLoginKey(msg)
		}
		return m.handleKey(msg)

	case EventMsg:
		log.Debug().Type("event", msg.Event).Msg("session event")
		m.Tracker.Notify(msg.Event)
		m.Observers.Notify(msg.Event)
		if _, ok := msg.Event.(connect.ConnectionError); ok {
			m.promptIfMissingCredentials()
		}
		return m, WatchEvents(m.Events)

	case LoginSubmittedMsg:
		m.Login = nil
		m.Player.SetUsername(msg.Username)
		m.Player.SetPassword(msg.Password)
		return m, StartCmd(m.Player)

	case LoginCanceledMsg:
		m.Login = nil
		return m, nil

	case EventsClosedMsg:
		return m, nil

	case TickMsg:
		return m, TickCmd()

	case StartedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg(errmsg.Format(errmsg.OpPlayerStart, msg.Err))
			m.Tracker.Fail(msg.Err)
			m.promptIfMissingCredentials()
		}
		return m, nil

	case StoppedMsg:
		m.Busy = false
		if msg.Err != nil {
			m.Message = errmsg.Format(errmsg.OpLogout, msg.Err)
		}
		return m, nil
	}
	return m, nil
}

// promptIfMissingCredentials opens the login form when the last error says
// there is nothing to log in with.
func (m *Model) promptIfMissingCredentials() {
	if m.Login != nil {
		return
	}
	s := m.Tracker.Snapshot()
	if s.Error == nil || s.Error.Kind != connect.KindMissingCredentials {
		return
	}
	form := NewLoginForm(m.Player.Username())
	m.Login = &form
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	form, cmd := m.Login.Update(msg)
	m.Login = &form
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.Keys.Resolve(msg.String())
	if action == "" {
		return m, nil
	}

	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.Help.ShowAll = !m.Help.ShowAll
		return m, nil
	}

	if m.Busy {
		return m, nil
	}
	m.Message = ""

	switch action {
	case keymap.ActionPlayPause:
		if m.Tracker.Snapshot().Playback == status.Playing {
			m.Player.Pause()
		} else {
			m.Player.Play()
		}
	case keymap.ActionNextTrack:
		m.Player.Next()
	case keymap.ActionPrevTrack:
		m.Player.Previous()
	case keymap.ActionRefreshToken:
		m.Player.RefreshAccessToken()
	case keymap.ActionStartStop:
		if m.Player.IsActive() {
			m.Busy = true
			return m, StopCmd(m.Player)
		}
		return m, StartCmd(m.Player)
	case keymap.ActionLogin:
		if m.Player.IsActive() {
			return m, nil
		}
		form := NewLoginForm(m.Player.Username())
		m.Login = &form
	case keymap.ActionLogout:
		m.Busy = true
		return m, LogoutCmd(m.Player)
	case keymap.ActionQuit, keymap.ActionHelp:
	}
	return m, nil
}
