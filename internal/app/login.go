package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/swell/internal/ui/styles"
)

const (
	fieldUsername = iota
	fieldPassword
)

// LoginSubmittedMsg carries the credentials entered in the login form.
type LoginSubmittedMsg struct {
	Username string
	Password string
}

// LoginCanceledMsg is sent when the login form is closed with esc.
type LoginCanceledMsg struct{}

// LoginForm asks for a username and password.
type LoginForm struct {
	inputs [2]textinput.Model
	focus  int
}

// NewLoginForm returns a form prefilled with username. Focus starts on the
// first empty field.
func NewLoginForm(username string) LoginForm {
	user := textinput.New()
	user.Prompt = "username: "
	user.CharLimit = 256
	user.SetValue(username)

	pass := textinput.New()
	pass.Prompt = "password: "
	pass.CharLimit = 256
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	f := LoginForm{inputs: [2]textinput.Model{user, pass}}
	if username != "" {
		f.focus = fieldPassword
	}
	f.inputs[f.focus].Focus()
	return f
}

// Focused returns the index of the focused field.
func (f LoginForm) Focused() int {
	return f.focus
}

func (f LoginForm) setFocus(i int) (LoginForm, tea.Cmd) {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f, f.inputs[i].Focus()
}

// Update handles a key press. Enter moves to the next empty field and
// submits once both are filled.
func (f LoginForm) Update(msg tea.KeyMsg) (LoginForm, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return f, func() tea.Msg { return LoginCanceledMsg{} }
	case "tab", "shift+tab", "up", "down":
		return f.setFocus(1 - f.focus)
	case "enter":
		user := strings.TrimSpace(f.inputs[fieldUsername].Value())
		pass := f.inputs[fieldPassword].Value()
		switch {
		case user == "":
			return f.setFocus(fieldUsername)
		case pass == "":
			return f.setFocus(fieldPassword)
		}
		return f, func() tea.Msg {
			return LoginSubmittedMsg{Username: user, Password: pass}
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form in a panel.
func (f LoginForm) View() string {
	st := styles.T().S()
	var b strings.Builder
	b.WriteString(st.Title.Render("Log in"))
	b.WriteString("\n")
	b.WriteString(f.inputs[fieldUsername].View())
	b.WriteString("\n")
	b.WriteString(f.inputs[fieldPassword].View())
	b.WriteString("\n")
	b.WriteString(st.Muted.Render("enter submit · tab switch · esc cancel"))
	return st.Panel.Render(b.String())
}
