package connect

import "time"

// Event is published to the Listener. The set of implementations is closed.
type Event interface {
	event()
}

// Token is an access token for the remote web API.
type Token struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// Connecting is emitted before every login attempt.
type Connecting struct{}

// Connected is emitted once a session and its control surface are up.
type Connected struct{}

// ConnectionError reports a failed login or a refused reconnect.
type ConnectionError struct {
	Message string
}

// Shutdown is emitted when a live session is shut down on request.
type Shutdown struct{}

// StartReconnect is emitted when the session ended unexpectedly.
type StartReconnect struct{}

// TokenChanged carries the result of a token request. Err is set on failure.
type TokenChanged struct {
	Token Token
	Err   error
}

// Panic is emitted once when the runtime goroutine panics.
type Panic struct {
	Message string
}

// TrackStopped is emitted when playback stops.
type TrackStopped struct {
	PlayRequestID uint64
	TrackID       string
}

// TrackChanged is emitted when the current track changes.
type TrackChanged struct {
	NewTrackID string
}

// TrackLoading is emitted while a track is being fetched.
type TrackLoading struct {
	PlayRequestID uint64
	TrackID       string
	PositionMs    uint32
}

// TrackPlaying is emitted when playback starts or resumes.
type TrackPlaying struct {
	PlayRequestID uint64
	TrackID       string
	PositionMs    uint32
	DurationMs    uint32
}

// TrackPaused is emitted when playback pauses.
type TrackPaused struct {
	PlayRequestID uint64
	TrackID       string
	PositionMs    uint32
	DurationMs    uint32
}

// TrackUnavailable is emitted when a track cannot be played.
type TrackUnavailable struct {
	PlayRequestID uint64
	TrackID       string
}

// VolumeSet is emitted when the remote side changes the volume.
type VolumeSet struct {
	Volume uint16
}

func (Connecting) event()       {}
func (Connected) event()        {}
func (ConnectionError) event()  {}
func (Shutdown) event()         {}
func (StartReconnect) event()   {}
func (TokenChanged) event()     {}
func (Panic) event()            {}
func (TrackStopped) event()     {}
func (TrackChanged) event()     {}
func (TrackLoading) event()     {}
func (TrackPlaying) event()     {}
func (TrackPaused) event()      {}
func (TrackUnavailable) event() {}
func (VolumeSet) event()        {}

// Listener receives events. Notify is called from the runtime goroutine,
// one call at a time, and must not panic.
type Listener interface {
	Notify(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Notify calls f(e).
func (f ListenerFunc) Notify(e Event) { f(e) }

// Fanout notifies each listener in order.
type Fanout []Listener

// Notify implements Listener.
func (f Fanout) Notify(e Event) {
	for _, l := range f {
		l.Notify(e)
	}
}
