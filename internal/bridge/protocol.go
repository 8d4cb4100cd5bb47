// Package bridge talks to a local protocol daemon over a websocket. The
// daemon performs the streaming-service handshake and remote-control
// protocol; this package exposes it as the collaborators the connect
// controller needs.
//
// Text frames carry JSON messages. Binary frames carry interleaved s16le
// stereo PCM at 44.1 kHz.
package bridge

import "github.com/llehouerou/swell/internal/connect"

// Message types.
const (
	typeHello        = "hello"
	typeWelcome      = "welcome"
	typeError        = "error"
	typePlayerConfig = "player_config"
	typeAnnounce     = "announce"
	typeCommand      = "command"
	typeTokenRequest = "token_request"
	typeToken        = "token"
	typeTokenError   = "token_error"
	typePlayerEvent  = "player_event"
	typeSessionEnd   = "session_end"
	typeGoodbye      = "goodbye"
)

type message struct {
	Type      string `json:"type"`
	RequestID uint64 `json:"request_id,omitempty"`
	Message   string `json:"message,omitempty"`

	// hello
	DeviceID    string           `json:"device_id,omitempty"`
	UserAgent   string           `json:"user_agent,omitempty"`
	APPort      int              `json:"ap_port,omitempty"`
	Credentials *wireCredentials `json:"credentials,omitempty"`

	// welcome
	Username            string           `json:"username,omitempty"`
	ReusableCredentials *wireCredentials `json:"reusable_credentials,omitempty"`

	// token_request / token
	ClientID    string   `json:"client_id,omitempty"`
	Scopes      []string `json:"scopes,omitempty"`
	AccessToken string   `json:"access_token,omitempty"`
	ExpiresIn   int      `json:"expires_in,omitempty"`

	Command  string            `json:"command,omitempty"`
	Player   *wirePlayerConfig `json:"player,omitempty"`
	Announce *wireAnnounce     `json:"announce,omitempty"`
	Event    *wirePlayerEvent  `json:"event,omitempty"`
}

type wireCredentials struct {
	Username string `json:"username"`
	AuthType string `json:"auth_type"`
	AuthData []byte `json:"auth_data"`
}

func toWireCredentials(c connect.Credentials) *wireCredentials {
	return &wireCredentials{
		Username: c.Username,
		AuthType: c.AuthType.String(),
		AuthData: c.AuthData,
	}
}

// credentials converts reusable credentials from the daemon. They are always
// stored credentials.
func (w *wireCredentials) credentials() connect.Credentials {
	return connect.Credentials{
		Username: w.Username,
		AuthType: connect.AuthStored,
		AuthData: w.AuthData,
	}
}

type wirePlayerConfig struct {
	Bitrate              int     `json:"bitrate"`
	Gapless              bool    `json:"gapless"`
	Normalisation        bool    `json:"normalisation"`
	NormalisationPregain float64 `json:"normalisation_pregain"`
}

type wireAnnounce struct {
	Name          string  `json:"name"`
	DeviceType    string  `json:"device_type"`
	InitialVolume *uint16 `json:"initial_volume,omitempty"`
	HasVolumeCtrl bool    `json:"has_volume_ctrl"`
	Autoplay      bool    `json:"autoplay"`
}

type wirePlayerEvent struct {
	Kind          string `json:"kind"`
	PlayRequestID uint64 `json:"play_request_id,omitempty"`
	TrackID       string `json:"track_id,omitempty"`
	NewTrackID    string `json:"new_track_id,omitempty"`
	PositionMs    uint32 `json:"position_ms,omitempty"`
	DurationMs    uint32 `json:"duration_ms,omitempty"`
	Volume        uint16 `json:"volume,omitempty"`
}

var playerEventKinds = map[string]connect.PlayerEventKind{
	"stopped":      connect.PlayerStopped,
	"started":      connect.PlayerStarted,
	"changed":      connect.PlayerChanged,
	"loading":      connect.PlayerLoading,
	"preloading":   connect.PlayerPreloading,
	"playing":      connect.PlayerPlaying,
	"paused":       connect.PlayerPaused,
	"end_of_track": connect.PlayerEndOfTrack,
	"unavailable":  connect.PlayerUnavailable,
	"volume_set":   connect.PlayerVolumeSet,
}

func (w *wirePlayerEvent) playerEvent() (connect.PlayerEvent, bool) {
	kind, ok := playerEventKinds[w.Kind]
	if !ok {
		return connect.PlayerEvent{}, false
	}
	return connect.PlayerEvent{
		Kind:          kind,
		PlayRequestID: w.PlayRequestID,
		TrackID:       w.TrackID,
		NewTrackID:    w.NewTrackID,
		PositionMs:    w.PositionMs,
		DurationMs:    w.DurationMs,
		Volume:        w.Volume,
	}, true
}
