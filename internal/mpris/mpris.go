//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/swell/internal/status"
)

// Adapter exposes the player on the session bus as
// org.mpris.MediaPlayer2.swell.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(controls Controls, state StateSource) (*Adapter, error) {
	if controls == nil || state == nil {
		return nil, fmt.Errorf("mpris: controls and state are required")
	}
	a := &Adapter{
		server: server.NewServer("swell", &rootAdapter{}, &playerAdapter{controls: controls, state: state}),
	}

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil // the TUI owns the process lifetime
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Swell", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	controls Controls
	state    StateSource
}

func (p *playerAdapter) Next() error {
	p.controls.Next()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.controls.Previous()
	return nil
}

func (p *playerAdapter) Pause() error {
	p.controls.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	Toggle(p.controls, p.state.Snapshot())
	return nil
}

func (p *playerAdapter) Stop() error {
	p.controls.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	p.controls.Play()
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // the remote side owns the position
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.state.Snapshot().Playback {
	case status.Playing:
		return types.PlaybackStatusPlaying, nil
	case status.Paused:
		return types.PlaybackStatusPaused, nil
	case status.Stopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	s := p.state.Snapshot()
	if s.TrackURI == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.TrackURI)),
		Title:   s.TrackURI,
	}
	if s.Duration >= 0 {
		meta.Length = types.Microseconds(s.Duration.Microseconds())
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return VolumeFraction(p.state.Snapshot().Volume), nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // volume is set from the remote side
}

func (p *playerAdapter) Position() (int64, error) {
	pos := p.state.Snapshot().Position
	if pos < 0 {
		return 0, nil
	}
	return pos.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.connected(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.connected(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.connected(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.connected(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func (p *playerAdapter) connected() bool {
	return p.state.Snapshot().Connection == status.Connected
}

func formatTrackID(uri string) string {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
