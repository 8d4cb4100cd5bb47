package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/audio"
	"github.com/llehouerou/swell/internal/connect"
)

// DefaultURL is where the daemon listens unless configured otherwise.
const DefaultURL = "ws://127.0.0.1:4070/session"

var (
	_ connect.SessionClient = (*Client)(nil)
	_ connect.TokenService  = (*Client)(nil)
	_ connect.PlayerEngine  = (*Client)(nil)
	_ connect.RemoteControl = (*Client)(nil)
)

// Client connects to the daemon. The zero value dials DefaultURL.
type Client struct {
	URL          string
	Dialer       *websocket.Dialer
	PingInterval time.Duration
}

// Backend returns the client wired into every collaborator slot.
func (c *Client) Backend() connect.Backend {
	return connect.Backend{
		Sessions: c,
		Tokens:   c,
		Players:  c,
		Remotes:  c,
	}
}

// Connect dials the daemon and authenticates. Reusable credentials returned
// by the daemon are saved to cache.
func (c *Client) Connect(ctx context.Context, cfg connect.SessionConfig, creds connect.Credentials, cache connect.CredentialCache) (connect.Session, error) {
	url := c.URL
	if url == "" {
		url = DefaultURL
	}

	dialer := *websocket.DefaultDialer
	if c.Dialer != nil {
		dialer = *c.Dialer
	}
	if cfg.Proxy != nil {
		dialer.Proxy = http.ProxyURL(cfg.Proxy)
	}

	header := http.Header{}
	header.Set("User-Agent", cfg.UserAgent)

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial bridge: %w", err)
	}

	// Unblock the handshake read if ctx ends first.
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	welcome, err := handshake(conn, cfg, creds)
	if !stop() {
		conn.Close()
		return nil, ctx.Err()
	}
	if err != nil {
		conn.Close()
		return nil, err
	}

	if welcome.ReusableCredentials != nil && cache != nil {
		if err := cache.SaveCredentials(welcome.ReusableCredentials.credentials()); err != nil {
			log.Warn().Err(err).Msg("saving reusable credentials")
		}
	}

	username := welcome.Username
	if username == "" {
		username = creds.Username
	}
	log.Info().Str("user", username).Str("url", url).Msg("bridge session established")

	interval := c.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return newSession(conn, username, cache, interval), nil
}

func handshake(conn *websocket.Conn, cfg connect.SessionConfig, creds connect.Credentials) (*message, error) {
	hello := message{
		Type:        typeHello,
		DeviceID:    cfg.DeviceID,
		UserAgent:   cfg.UserAgent,
		APPort:      cfg.APPort,
		Credentials: toWireCredentials(creds),
	}
	if err := conn.WriteJSON(hello); err != nil {
		return nil, fmt.Errorf("send hello: %w", err)
	}

	var reply message
	if err := conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	switch reply.Type {
	case typeWelcome:
		return &reply, nil
	case typeError:
		return nil, errors.New(reply.Message)
	default:
		return nil, fmt.Errorf("unexpected handshake reply %q", reply.Type)
	}
}

// Token requests an access token over the session.
func (c *Client) Token(ctx context.Context, s connect.Session, clientID string, scopes []string) (connect.Token, error) {
	return sessionOf(s).requestToken(ctx, clientID, scopes)
}

// NewPlayer configures playback on the daemon. Audio frames received on the
// session are filtered and written to a sink opened on first use.
func (c *Client) NewPlayer(cfg connect.PlayerConfig, s connect.Session, filter audio.Filter, newSink func() (audio.Sink, error)) (connect.Player, <-chan connect.PlayerEvent) {
	sess := sessionOf(s)
	sess.setAudio(filter, newSink)
	err := sess.write(message{
		Type: typePlayerConfig,
		Player: &wirePlayerConfig{
			Bitrate:              int(cfg.Bitrate),
			Gapless:              cfg.Gapless,
			Normalisation:        cfg.Normalisation,
			NormalisationPregain: cfg.NormalisationPregain,
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("sending player config")
	}
	return &player{session: sess}, sess.events
}

// NewRemote announces the device. The returned task completes when the
// daemon ends the session or the connection drops.
func (c *Client) NewRemote(cfg connect.ConnectConfig, s connect.Session, _ connect.Player, mixer audio.Mixer) (connect.ControlSurface, connect.Task) {
	sess := sessionOf(s)
	sess.setMixer(mixer)
	err := sess.write(message{
		Type: typeAnnounce,
		Announce: &wireAnnounce{
			Name:          cfg.Name,
			DeviceType:    string(cfg.DeviceType),
			InitialVolume: cfg.InitialVolume,
			HasVolumeCtrl: cfg.HasVolumeCtrl,
			Autoplay:      cfg.Autoplay,
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("sending announce")
	}
	return &surface{session: sess}, sess
}

func sessionOf(s connect.Session) *Session {
	sess, ok := s.(*Session)
	if !ok {
		panic(fmt.Sprintf("bridge: foreign session type %T", s))
	}
	return sess
}

type player struct {
	session *Session
}

func (p *player) Stop() {
	p.session.stopSink()
}

type surface struct {
	session *Session
}

func (s *surface) Play()     { s.send("play") }
func (s *surface) Pause()    { s.send("pause") }
func (s *surface) Next()     { s.send("next") }
func (s *surface) Prev()     { s.send("prev") }
func (s *surface) Shutdown() { s.send("shutdown") }

func (s *surface) send(cmd string) {
	if err := s.session.write(message{Type: typeCommand, Command: cmd}); err != nil {
		log.Debug().Err(err).Str("command", cmd).Msg("command not sent")
	}
}
