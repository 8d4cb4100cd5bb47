package connect

import (
	"context"
	"net/url"

	"github.com/llehouerou/swell/internal/audio"
)

// AuthType identifies the kind of authentication payload.
type AuthType int

const (
	AuthPassword AuthType = iota
	AuthStored
)

func (a AuthType) String() string {
	switch a {
	case AuthPassword:
		return "password"
	case AuthStored:
		return "stored"
	default:
		return "unknown"
	}
}

// Credentials authenticate a session.
type Credentials struct {
	Username string
	AuthType AuthType
	AuthData []byte
}

// Empty reports whether the credentials carry no authentication payload.
func (c Credentials) Empty() bool {
	return len(c.AuthData) == 0
}

// SessionConfig configures the session handshake.
type SessionConfig struct {
	UserAgent string
	DeviceID  string
	Proxy     *url.URL
	APPort    int
}

// Bitrate is the requested stream bitrate in kbps.
type Bitrate int

const (
	Bitrate96  Bitrate = 96
	Bitrate160 Bitrate = 160
	Bitrate320 Bitrate = 320
)

// PlayerConfig configures the playback engine.
type PlayerConfig struct {
	Bitrate              Bitrate
	Gapless              bool
	Normalisation        bool
	NormalisationPregain float64
}

// DeviceType is advertised to remote controllers.
type DeviceType string

const DeviceSmartphone DeviceType = "smartphone"

// ConnectConfig configures how the device is advertised.
type ConnectConfig struct {
	Name          string
	DeviceType    DeviceType
	InitialVolume *uint16
	HasVolumeCtrl bool
	Autoplay      bool
}

// CredentialCache stores reusable credentials and the last volume.
type CredentialCache interface {
	Credentials() (*Credentials, error)
	SaveCredentials(Credentials) error
	RemoveCredentials() error
	Volume() (uint16, bool, error)
}

// Session is an authenticated connection to the remote service.
type Session interface {
	Close() error
}

// SessionClient establishes sessions.
type SessionClient interface {
	Connect(ctx context.Context, cfg SessionConfig, creds Credentials, cache CredentialCache) (Session, error)
}

// TokenService fetches web API access tokens for a session.
type TokenService interface {
	Token(ctx context.Context, s Session, clientID string, scopes []string) (Token, error)
}

// PlayerEventKind identifies a playback engine event.
type PlayerEventKind int

const (
	PlayerStopped PlayerEventKind = iota
	PlayerStarted
	PlayerChanged
	PlayerLoading
	PlayerPreloading
	PlayerPlaying
	PlayerPaused
	PlayerEndOfTrack
	PlayerUnavailable
	PlayerVolumeSet
)

// PlayerEvent is emitted by the playback engine. Only the fields relevant to
// Kind are set.
type PlayerEvent struct {
	Kind          PlayerEventKind
	PlayRequestID uint64
	TrackID       string
	NewTrackID    string
	PositionMs    uint32
	DurationMs    uint32
	Volume        uint16
}

// Player is a running playback engine instance.
type Player interface {
	Stop()
}

// PlayerEngine creates players.
type PlayerEngine interface {
	NewPlayer(cfg PlayerConfig, s Session, filter audio.Filter, newSink func() (audio.Sink, error)) (Player, <-chan PlayerEvent)
}

// ControlSurface issues playback commands on the remote session.
type ControlSurface interface {
	Play()
	Pause()
	Next()
	Prev()
	Shutdown()
}

// Task completes when the remote session ends.
type Task interface {
	Done() <-chan struct{}
}

// RemoteControl binds a control surface to a session and player.
type RemoteControl interface {
	NewRemote(cfg ConnectConfig, s Session, p Player, m audio.Mixer) (ControlSurface, Task)
}

// Backend bundles the external collaborators used by the controller.
type Backend struct {
	Sessions SessionClient
	Tokens   TokenService
	Players  PlayerEngine
	Remotes  RemoteControl
}
