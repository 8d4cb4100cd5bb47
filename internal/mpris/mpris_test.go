//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/swell/internal/status"
)

type fixedState struct {
	s status.Snapshot
}

func (f fixedState) Snapshot() status.Snapshot { return f.s }

func TestPlayerAdapterReadsSnapshot(t *testing.T) {
	p := &playerAdapter{
		controls: &recordingControls{},
		state: fixedState{status.Snapshot{
			Connection: status.Connected,
			Playback:   status.Paused,
			TrackURI:   "spotify:track:abc",
			Position:   1500 * time.Millisecond,
			Duration:   3 * time.Second,
			Volume:     0xFFFF,
		}},
	}

	st, _ := p.PlaybackStatus()
	if st != types.PlaybackStatusPaused {
		t.Errorf("PlaybackStatus() = %v, want Paused", st)
	}
	meta, _ := p.Metadata()
	if meta.Title != "spotify:track:abc" {
		t.Errorf("Metadata().Title = %q", meta.Title)
	}
	if meta.Length != types.Microseconds(3_000_000) {
		t.Errorf("Metadata().Length = %d, want 3000000", meta.Length)
	}
	pos, _ := p.Position()
	if pos != 1_500_000 {
		t.Errorf("Position() = %d, want 1500000", pos)
	}
	can, _ := p.CanGoNext()
	if !can {
		t.Error("CanGoNext() = false while connected")
	}
}

func TestPlayerAdapterDisconnected(t *testing.T) {
	p := &playerAdapter{
		controls: &recordingControls{},
		state:    fixedState{status.Snapshot{Position: -1, Duration: -1}},
	}

	meta, _ := p.Metadata()
	if meta.TrackId != "" {
		t.Errorf("Metadata() = %+v, want empty", meta)
	}
	pos, _ := p.Position()
	if pos != 0 {
		t.Errorf("Position() = %d, want 0 when unknown", pos)
	}
	can, _ := p.CanPlay()
	if can {
		t.Error("CanPlay() = true while disconnected")
	}
}

func TestPlayerAdapterDelegates(t *testing.T) {
	c := &recordingControls{}
	p := &playerAdapter{controls: c, state: fixedState{status.Snapshot{Playback: status.Playing}}}

	_ = p.PlayPause()
	_ = p.Next()
	_ = p.Stop()

	want := []string{"pause", "next", "stop"}
	if len(c.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", c.calls, want)
	}
	for i := range want {
		if c.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, c.calls[i], want[i])
		}
	}
}
