//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(Bindings)

	tests := []struct {
		key      string
		expected Action
	}{
		{" ", ActionPlayPause},
		{"n", ActionNextTrack},
		{"b", ActionPrevTrack},
		{"r", ActionRefreshToken},
		{"s", ActionStartStop},
		{"L", ActionLogout},
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{"l", ActionLogin},
		{"x", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if result := r.Resolve(tt.key); result != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver(Bindings)

	quitKeys := r.KeysFor(ActionQuit)
	if !slices.Contains(quitKeys, "q") || !slices.Contains(quitKeys, "ctrl+c") {
		t.Errorf("KeysFor(ActionQuit) = %v, expected to contain 'q' and 'ctrl+c'", quitKeys)
	}
	if keys := r.KeysFor(Action("unknown")); keys != nil {
		t.Errorf("KeysFor(unknown) = %v, want nil", keys)
	}
}

func TestResolver_DeduplicatesKeys(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "quit", "global"},
		{ActionQuit, []string{"q"}, "quit", "session"},
	})

	keys := r.KeysFor(ActionQuit)
	if len(keys) != 2 {
		t.Errorf("KeysFor(ActionQuit) = %v, want 2 distinct keys", keys)
	}
}

func TestResolver_Help(t *testing.T) {
	r := NewResolver(Bindings)
	help := r.Help()

	if len(help) != len(Bindings) {
		t.Fatalf("Help() returned %d bindings, want %d", len(help), len(Bindings))
	}
	if got := help[0].Help().Key; got != "space" {
		t.Errorf("first help key = %q, want %q", got, "space")
	}
	if got := help[0].Help().Desc; got != "play/pause" {
		t.Errorf("first help desc = %q, want %q", got, "play/pause")
	}
}

func TestBindingsHaveRequiredFields(t *testing.T) {
	valid := map[string]bool{"global": true, "playback": true, "session": true}
	for i, b := range Bindings {
		if b.Action == "" {
			t.Errorf("binding[%d] has empty Action", i)
		}
		if len(b.Keys) == 0 {
			t.Errorf("binding[%d] (%s) has no Keys", i, b.Action)
		}
		if b.Description == "" {
			t.Errorf("binding[%d] (%s) has empty Description", i, b.Action)
		}
		if !valid[b.Context] {
			t.Errorf("binding[%d] (%s) has invalid context: %q", i, b.Action, b.Context)
		}
	}
}

func TestByContext(t *testing.T) {
	got := ByContext("session")
	want := []Action{ActionRefreshToken, ActionStartStop, ActionLogout}
	if len(got) != len(want) {
		t.Fatalf("ByContext(session) = %v, want %d bindings", got, len(want))
	}
	for i, a := range want {
		if got[i].Action != a {
			t.Errorf("ByContext(session)[%d] = %q, want %q", i, got[i].Action, a)
		}
	}
}
