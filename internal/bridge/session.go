package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/audio"
	"github.com/llehouerou/swell/internal/connect"
)

// ErrSessionClosed is returned for requests on a finished session.
var ErrSessionClosed = errors.New("bridge session closed")

const eventBufferSize = 64

type tokenResult struct {
	token connect.Token
	err   error
}

type volumeSaver interface {
	SaveVolume(uint16) error
}

// Session is one authenticated daemon connection. It also serves as the
// remote task: Done closes when the connection ends.
type Session struct {
	conn     *websocket.Conn
	username string
	cache    connect.CredentialCache
	logger   zerolog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint64]chan tokenResult
	closed  bool
	nextID  atomic.Uint64

	audioMu sync.Mutex
	filter  audio.Filter
	newSink func() (audio.Sink, error)
	sink    audio.Sink
	mixer   audio.Mixer

	events    chan connect.PlayerEvent
	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ connect.Session = (*Session)(nil)
	_ connect.Task    = (*Session)(nil)
)

func newSession(conn *websocket.Conn, username string, cache connect.CredentialCache, pingInterval time.Duration) *Session {
	s := &Session{
		conn:     conn,
		username: username,
		cache:    cache,
		logger:   log.With().Str("component", "bridge").Logger(),
		pending:  make(map[uint64]chan tokenResult),
		filter:   audio.NopFilter{},
		events:   make(chan connect.PlayerEvent, eventBufferSize),
		done:     make(chan struct{}),
	}
	go s.readLoop()
	go s.pingLoop(pingInterval)
	return s
}

// Username is the account the daemon authenticated.
func (s *Session) Username() string {
	return s.username
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close says goodbye to the daemon and tears the session down.
func (s *Session) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	_ = s.write(message{Type: typeGoodbye})
	s.finish()
	return nil
}

func (s *Session) write(m message) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(m)
}

func (s *Session) readLoop() {
	defer close(s.events)
	defer s.finish()

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warn().Err(err).Msg("connection lost")
			}
			return
		}

		if kind == websocket.BinaryMessage {
			s.handleAudio(data)
			continue
		}
		if !s.handleMessage(data) {
			return
		}
	}
}

// handleMessage dispatches one text frame. It returns false when the session
// has ended.
func (s *Session) handleMessage(data []byte) bool {
	var m message
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn().Err(err).Msg("invalid message")
		return true
	}

	switch m.Type {
	case typePlayerEvent:
		if m.Event == nil {
			return true
		}
		pe, ok := m.Event.playerEvent()
		if !ok {
			s.logger.Debug().Str("kind", m.Event.Kind).Msg("ignoring player event")
			return true
		}
		if pe.Kind == connect.PlayerVolumeSet {
			s.applyVolume(pe.Volume)
		}
		select {
		case s.events <- pe:
		case <-s.done:
			return false
		}
	case typeToken:
		s.resolve(m.RequestID, tokenResult{token: connect.Token{
			AccessToken: m.AccessToken,
			ExpiresIn:   time.Duration(m.ExpiresIn) * time.Second,
		}})
	case typeTokenError:
		s.resolve(m.RequestID, tokenResult{err: errors.New(m.Message)})
	case typeSessionEnd:
		s.logger.Info().Str("reason", m.Message).Msg("session ended by daemon")
		return false
	case typeError:
		s.logger.Warn().Str("message", m.Message).Msg("daemon error")
	default:
		s.logger.Debug().Str("type", m.Type).Msg("unknown message type")
	}
	return true
}

func (s *Session) requestToken(ctx context.Context, clientID string, scopes []string) (connect.Token, error) {
	id := s.nextID.Add(1)
	ch := make(chan tokenResult, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return connect.Token{}, ErrSessionClosed
	}
	s.pending[id] = ch
	s.mu.Unlock()

	err := s.write(message{
		Type:      typeTokenRequest,
		RequestID: id,
		ClientID:  clientID,
		Scopes:    scopes,
	})
	if err != nil {
		s.forget(id)
		return connect.Token{}, err
	}

	select {
	case r := <-ch:
		return r.token, r.err
	case <-ctx.Done():
		s.forget(id)
		return connect.Token{}, ctx.Err()
	}
}

func (s *Session) resolve(id uint64, r tokenResult) {
	s.mu.Lock()
	ch, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if !ok {
		s.logger.Debug().Uint64("request_id", id).Msg("token for unknown request")
		return
	}
	ch <- r
}

func (s *Session) forget(id uint64) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// finish ends the session once: pending requests fail and audio stops.
func (s *Session) finish() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		pending := s.pending
		s.pending = make(map[uint64]chan tokenResult)
		s.mu.Unlock()

		close(s.done)
		s.conn.Close()

		for _, ch := range pending {
			ch <- tokenResult{err: ErrSessionClosed}
		}
		s.stopSink()
	})
}

func (s *Session) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(interval/2))
			s.writeMu.Unlock()
			if err != nil {
				s.logger.Debug().Err(err).Msg("ping failed")
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) setAudio(filter audio.Filter, newSink func() (audio.Sink, error)) {
	s.audioMu.Lock()
	defer s.audioMu.Unlock()
	if filter != nil {
		s.filter = filter
	}
	s.newSink = newSink
}

func (s *Session) setMixer(m audio.Mixer) {
	s.audioMu.Lock()
	s.mixer = m
	s.audioMu.Unlock()
}

func (s *Session) applyVolume(v uint16) {
	s.audioMu.Lock()
	m := s.mixer
	s.audioMu.Unlock()
	if m != nil {
		m.SetVolume(v)
	}
	if vs, ok := s.cache.(volumeSaver); ok {
		if err := vs.SaveVolume(v); err != nil {
			s.logger.Warn().Err(err).Msg("saving volume")
		}
	}
}

func (s *Session) handleAudio(data []byte) {
	s.audioMu.Lock()
	defer s.audioMu.Unlock()

	if s.sink == nil {
		if s.newSink == nil {
			return
		}
		sink, err := s.newSink()
		if err != nil {
			s.logger.Error().Err(err).Msg("opening audio sink")
			s.newSink = nil
			return
		}
		if err := sink.Start(); err != nil {
			s.logger.Error().Err(err).Msg("starting audio sink")
			s.newSink = nil
			return
		}
		s.sink = sink
	}

	samples := audio.DecodeS16(data)
	s.filter.Apply(samples)
	if err := s.sink.Write(samples); err != nil {
		s.logger.Warn().Err(err).Msg("writing audio")
	}
}

func (s *Session) stopSink() {
	s.audioMu.Lock()
	defer s.audioMu.Unlock()
	if s.sink == nil {
		return
	}
	if err := s.sink.Stop(); err != nil {
		s.logger.Debug().Err(err).Msg("stopping audio sink")
	}
	s.sink = nil
}
