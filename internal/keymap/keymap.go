// Package keymap defines key bindings and action dispatch for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback
	ActionPlayPause Action = "play_pause"
	ActionNextTrack Action = "next_track"
	ActionPrevTrack Action = "prev_track"

	// Session
	ActionRefreshToken Action = "refresh_token"
	ActionStartStop    Action = "start_stop"
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
)

// Binding maps keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback" or "session"
}

// Bindings contains every key binding, in help order.
var Bindings = []Binding{
	{ActionPlayPause, []string{" "}, "play/pause", "playback"},
	{ActionNextTrack, []string{"n"}, "next", "playback"},
	{ActionPrevTrack, []string{"b"}, "previous", "playback"},

	{ActionRefreshToken, []string{"r"}, "refresh token", "session"},
	{ActionStartStop, []string{"s"}, "start/stop", "session"},
	{ActionLogin, []string{"l"}, "log in", "session"},
	{ActionLogout, []string{"L"}, "logout", "session"},

	{ActionHelp, []string{"?"}, "help", "global"},
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", "global"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Resolver maps key strings to actions.
type Resolver struct {
	bindings map[string]Action
	byAction map[Action][]string
	order    []Action
	desc     map[Action]string
}

// NewResolver creates a resolver from bindings. A key bound twice resolves
// to its last binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
		desc:     make(map[Action]string),
	}
	for _, b := range bindings {
		if _, seen := r.byAction[b.Action]; !seen {
			r.order = append(r.order, b.Action)
			r.desc[b.Action] = b.Description
		}
		for _, k := range b.Keys {
			r.bindings[k] = b.Action
		}
		r.byAction[b.Action] = dedupe(append(r.byAction[b.Action], b.Keys...))
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(k string) Action {
	return r.bindings[k]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// Help returns one bubbles key.Binding per action for the help view.
func (r *Resolver) Help() []key.Binding {
	out := make([]key.Binding, 0, len(r.order))
	for _, a := range r.order {
		keys := r.byAction[a]
		out = append(out, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(displayKey(keys[0]), r.desc[a]),
		))
	}
	return out
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func dedupe(s []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
