package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/swell/internal/errmsg"
	"github.com/llehouerou/swell/internal/status"
	"github.com/llehouerou/swell/internal/ui/playerbar"
	"github.com/llehouerou/swell/internal/ui/render"
	"github.com/llehouerou/swell/internal/ui/styles"
)

const minWidth = 40

// View renders the UI.
func (m Model) View() string {
	width := max(m.Width, minWidth)
	s := m.Tracker.Snapshot()
	now := m.now()
	st := styles.T().S()

	var b strings.Builder
	b.WriteString(render.Row(
		styles.BoldGradient("swell", styles.T().Primary, styles.T().Secondary),
		m.sessionLine(),
		width,
	))
	b.WriteString("\n")
	b.WriteString(connectionLine(s))
	b.WriteString("\n")
	b.WriteString(playerbar.Render(s, width))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render(TokenLine(s, now)))
	b.WriteString("\n")
	if line := errorLine(s, m.Message); line != "" {
		b.WriteString(st.Error.Render(render.Truncate(line, width)))
		b.WriteString("\n")
	}
	if m.Login != nil {
		b.WriteString(m.Login.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) sessionLine() string {
	st := styles.T().S()
	user := m.Player.Username()
	if user == "" {
		user = "not logged in"
	}
	return st.Muted.Render(fmt.Sprintf("%s · %s", m.Player.DeviceName(), user))
}

func (m Model) helpView() string {
	bindings := m.Keys.Help()
	if m.Help.ShowAll {
		return m.Help.FullHelpView([][]key.Binding{bindings})
	}
	return m.Help.ShortHelpView(bindings)
}

func connectionLine(s status.Snapshot) string {
	st := styles.T().S()
	switch s.Connection {
	case status.Connected:
		return st.Success.Render("● connected")
	case status.Connecting:
		return st.Warning.Render("◌ connecting…")
	case status.Crashed:
		return st.Error.Render("✖ crashed")
	default:
		return st.Subtle.Render("○ disconnected")
	}
}

// TokenLine describes the access token state.
func TokenLine(s status.Snapshot, now time.Time) string {
	switch {
	case s.TokenError != "":
		return "token: " + render.Sanitize(s.TokenError)
	case s.AccessToken == "":
		return "token: none"
	case !s.TokenValid(now):
		return "token: expired " + humanize.RelTime(s.TokenExpiresAt, now, "ago", "from now")
	default:
		return "token: expires " + humanize.RelTime(s.TokenExpiresAt, now, "ago", "from now")
	}
}

func errorLine(s status.Snapshot, message string) string {
	if message != "" {
		return message
	}
	if s.Error == nil {
		return ""
	}
	return errmsg.FormatMessage(errmsg.OpConnect,
		fmt.Sprintf("%s error: %s", s.Error.Kind, render.Sanitize(s.Error.Message)))
}
