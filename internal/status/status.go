// Package status folds connect events into a snapshot of what the UI shows.
package status

import (
	"sync"
	"time"

	"github.com/llehouerou/swell/internal/connect"
)

// Connection is the session state as seen by the user.
type Connection int

const (
	Disconnected Connection = iota
	Connecting
	Connected
	Crashed
)

func (c Connection) String() string {
	switch c {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Crashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Media describes the current track's availability.
type Media int

const (
	NoMedia Media = iota
	Loading
	Loaded
	InvalidMedia
)

func (m Media) String() string {
	switch m {
	case NoMedia:
		return "NoMedia"
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case InvalidMedia:
		return "InvalidMedia"
	default:
		return "Unknown"
	}
}

// Playback is the transport state.
type Playback int

const (
	Stopped Playback = iota
	Playing
	Paused
)

func (p Playback) String() string {
	switch p {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Error is the last error reported by the session.
type Error struct {
	Kind    connect.ErrorKind
	Message string
}

// Snapshot is a point-in-time copy of the tracked state.
type Snapshot struct {
	Connection Connection
	Media      Media
	Playback   Playback

	TrackURI      string
	PlayRequestID uint64
	// Position and Duration are negative when unknown.
	Position time.Duration
	Duration time.Duration

	AccessToken    string
	TokenExpiresAt time.Time
	TokenError     string

	Volume uint16
	Error  *Error
}

// Tracker implements connect.Listener. It is safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	now        func() time.Time
	s          Snapshot
	positionAt time.Time
}

var _ connect.Listener = (*Tracker)(nil)

func NewTracker() *Tracker {
	return &Tracker{
		now: time.Now,
		s:   Snapshot{Position: -1, Duration: -1, Volume: 0xFFFF},
	}
}

// Notify applies e.
func (t *Tracker) Notify(e connect.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := e.(type) {
	case connect.Connecting:
		t.s.Connection = Connecting
	case connect.Connected:
		t.s.Connection = Connected
		t.s.Error = nil
	case connect.StartReconnect:
		t.s.Connection = Connecting
	case connect.Shutdown:
		t.s.Connection = Disconnected
	case connect.ConnectionError:
		t.s.Connection = Disconnected
		kind := connect.KindConnection
		if e.Message == connect.ErrMissingCredentials.Error() {
			kind = connect.KindMissingCredentials
		}
		t.s.Error = &Error{Kind: kind, Message: e.Message}
	case connect.Panic:
		t.s.Connection = Crashed
		t.s.Error = &Error{Kind: connect.KindPanic, Message: e.Message}
	case connect.TokenChanged:
		if e.Err != nil {
			t.s.TokenError = e.Err.Error()
			return
		}
		t.s.AccessToken = e.Token.AccessToken
		t.s.TokenExpiresAt = t.now().Add(e.Token.ExpiresIn)
		t.s.TokenError = ""
	case connect.TrackStopped:
		t.setPlayer(e.PlayRequestID, e.TrackID, -1, -1, NoMedia, Stopped)
	case connect.TrackChanged:
		t.s.TrackURI = e.NewTrackID
	case connect.TrackLoading:
		t.setPlayer(e.PlayRequestID, e.TrackID, ms(e.PositionMs), -1, Loading, Stopped)
	case connect.TrackPlaying:
		t.setPlayer(e.PlayRequestID, e.TrackID, ms(e.PositionMs), ms(e.DurationMs), Loaded, Playing)
	case connect.TrackPaused:
		t.setPlayer(e.PlayRequestID, e.TrackID, ms(e.PositionMs), ms(e.DurationMs), Loaded, Paused)
	case connect.TrackUnavailable:
		t.setPlayer(e.PlayRequestID, e.TrackID, -1, -1, InvalidMedia, Stopped)
	case connect.VolumeSet:
		t.s.Volume = e.Volume
	}
}

// Fail records an error returned by Service.Start. Nothing was spawned, so
// the connection is left disconnected.
func (t *Tracker) Fail(err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.Connection = Disconnected
	t.s.Error = &Error{Kind: connect.Classify(err), Message: err.Error()}
}

func (t *Tracker) setPlayer(reqID uint64, trackID string, pos, dur time.Duration, media Media, playback Playback) {
	t.s.PlayRequestID = reqID
	t.s.TrackURI = trackID
	t.s.Position = pos
	t.s.Duration = dur
	t.s.Media = media
	t.s.Playback = playback
	t.positionAt = t.now()
}

// Snapshot returns the current state. While playing, the position is
// extrapolated from the last report and capped at the duration.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.s
	if s.Error != nil {
		e := *s.Error
		s.Error = &e
	}
	if s.Playback == Playing && s.Position >= 0 {
		s.Position += t.now().Sub(t.positionAt)
		if s.Duration >= 0 && s.Position > s.Duration {
			s.Position = s.Duration
		}
	}
	return s
}

// TokenValid reports whether an access token is held and not yet expired.
func (s Snapshot) TokenValid(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.TokenExpiresAt)
}

func ms(v uint32) time.Duration {
	return time.Duration(v) * time.Millisecond
}
