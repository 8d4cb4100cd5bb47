package connect

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/audio"
	"github.com/llehouerou/swell/internal/mailbox"
)

// Controller owns one session lifecycle: login, supervision, command
// dispatch and automatic reconnection. It runs on the runtime goroutine.
type Controller struct {
	cfg     Config
	backend Backend
	inbox   *mailbox.Mailbox[Message]
	events  *emitter
	ledger  *Ledger
	logger  zerolog.Logger

	creds Credentials

	// session and surface are both set or both nil.
	session       Session
	surface       ControlSurface
	player        Player
	cancelSession context.CancelFunc

	wg    sync.WaitGroup
	crash chan any
}

func newController(cfg Config, backend Backend, inbox *mailbox.Mailbox[Message], events *emitter) *Controller {
	return &Controller{
		cfg:     cfg,
		backend: backend,
		inbox:   inbox,
		events:  events,
		ledger:  NewLedger(cfg.ReconnectWindow, cfg.ReconnectLimit),
		logger:  log.With().Str("component", "controller").Logger(),
		creds:   cfg.Credentials,
		crash:   make(chan any, 1),
	}
}

func (c *Controller) emit(e Event) {
	c.events.emit(e)
}

// run logs in and processes commands until shutdown. A failed initial login
// ends the run.
func (c *Controller) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.login(ctx) {
		c.loop(ctx)
	}

	c.dropSession()
	cancel()
	c.wg.Wait()

	// A task may have panicked after the loop stopped reading crash.
	select {
	case v := <-c.crash:
		panic(v)
	default:
	}
}

func (c *Controller) loop(ctx context.Context) {
	for {
		msg, ok := c.next(ctx)
		if !ok {
			return
		}
		c.logger.Debug().Stringer("command", msg).Int("queued", c.inbox.Len()).Msg("dispatch")

		switch msg {
		case MsgPlay:
			if c.surface != nil {
				c.surface.Play()
			}
		case MsgPause:
			if c.surface != nil {
				c.surface.Pause()
			}
		case MsgNext:
			if c.surface != nil {
				c.surface.Next()
			}
		case MsgPrevious:
			if c.surface != nil {
				c.surface.Prev()
			}
		case MsgRefreshToken:
			if c.session != nil {
				c.requestToken(ctx, c.session)
			}
		case MsgShutdown:
			if c.session == nil {
				return
			}
			c.emit(Shutdown{})
			c.surface.Shutdown()
			return
		case msgAutoReconnect:
			c.autoReconnect(ctx)
		}
	}
}

// next waits for the next command. A panic recovered in a task is re-raised
// here so it reaches the runtime boundary.
func (c *Controller) next(ctx context.Context) (Message, bool) {
	for {
		if msg, ok := c.inbox.TryReceive(); ok {
			return msg, true
		}
		select {
		case <-c.inbox.Ready():
		case v := <-c.crash:
			panic(v)
		case <-ctx.Done():
			return 0, false
		}
	}
}

func (c *Controller) login(ctx context.Context) bool {
	c.dropSession()
	c.emit(Connecting{})

	if c.creds.Empty() {
		c.emit(ConnectionError{Message: ErrMissingCredentials.Error()})
		return false
	}

	session, err := c.backend.Sessions.Connect(ctx, c.cfg.Session, c.creds, c.cfg.Cache)
	if err != nil {
		c.logger.Warn().Err(err).Msg("connect failed")
		c.emit(ConnectionError{Message: err.Error()})
		return false
	}

	mixer, err := c.cfg.Mixer(c.cfg.MixerConfig)
	if err != nil {
		_ = session.Close()
		c.emit(ConnectionError{Message: err.Error()})
		return false
	}
	if v := c.cfg.Connect.InitialVolume; v != nil {
		mixer.SetVolume(*v)
	}

	newSink := func() (audio.Sink, error) {
		return c.cfg.Backend(c.cfg.Device, c.cfg.Format)
	}
	player, playerEvents := c.backend.Players.NewPlayer(c.cfg.Player, session, mixer.Filter(), newSink)
	surface, task := c.backend.Remotes.NewRemote(c.cfg.Connect, session, player, mixer)

	sessCtx, cancel := context.WithCancel(ctx)
	c.session = session
	c.surface = surface
	c.player = player
	c.cancelSession = cancel

	c.supervise(sessCtx, task)
	c.translate(sessCtx, playerEvents)
	c.requestToken(ctx, session)

	c.logger.Info().Str("user", c.creds.Username).Msg("connected")
	c.emit(Connected{})
	return true
}

// dropSession releases the current session, surface and session tasks.
func (c *Controller) dropSession() {
	if c.cancelSession != nil {
		c.cancelSession()
		c.cancelSession = nil
	}
	if c.player != nil {
		c.player.Stop()
		c.player = nil
	}
	if c.session != nil {
		if err := c.session.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("closing session")
		}
	}
	c.session = nil
	c.surface = nil
}

func (c *Controller) autoReconnect(ctx context.Context) {
	c.dropSession()
	c.emit(StartReconnect{})

	if !c.ledger.Allow(time.Now()) {
		c.logger.Error().Int("limit", c.ledger.limit).Dur("window", c.ledger.window).Msg("session shut down too often")
		c.emit(ConnectionError{Message: ErrTooManyReconnects})
		return
	}

	c.logger.Info().Int("recent", c.ledger.Len()).Msg("reconnecting")
	if !c.login(ctx) {
		c.logger.Warn().Msg("reconnect failed, staying disconnected")
	}
}

// spawn runs fn as a session task. Panics are forwarded to the command loop.
func (c *Controller) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			if v := recover(); v != nil {
				select {
				case c.crash <- v:
				default:
				}
			}
		}()
		fn()
	}()
}

// supervise posts an internal reconnect request when the remote task ends.
func (c *Controller) supervise(ctx context.Context, task Task) {
	c.spawn(func() {
		select {
		case <-task.Done():
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn().Msg("remote session ended")
			_ = c.inbox.Send(msgAutoReconnect)
		case <-ctx.Done():
		}
	})
}

func (c *Controller) translate(ctx context.Context, events <-chan PlayerEvent) {
	c.spawn(func() {
		for {
			select {
			case pe, ok := <-events:
				if !ok {
					return
				}
				if e, ok := translatePlayerEvent(pe); ok {
					c.emit(e)
				}
			case <-ctx.Done():
				return
			}
		}
	})
}

// requestToken fetches a token in the background. The result is dropped if
// the run ends first.
func (c *Controller) requestToken(ctx context.Context, session Session) {
	c.spawn(func() {
		tok, err := c.backend.Tokens.Token(ctx, session, c.cfg.ClientID, c.cfg.Scopes)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			c.logger.Warn().Err(err).Msg("token request failed")
		}
		c.emit(TokenChanged{Token: tok, Err: err})
	})
}

// translatePlayerEvent maps an engine event to an Event. Kinds without a
// counterpart are dropped.
func translatePlayerEvent(pe PlayerEvent) (Event, bool) {
	switch pe.Kind {
	case PlayerStopped:
		return TrackStopped{PlayRequestID: pe.PlayRequestID, TrackID: pe.TrackID}, true
	case PlayerChanged:
		return TrackChanged{NewTrackID: pe.NewTrackID}, true
	case PlayerLoading:
		return TrackLoading{PlayRequestID: pe.PlayRequestID, TrackID: pe.TrackID, PositionMs: pe.PositionMs}, true
	case PlayerPlaying:
		return TrackPlaying{
			PlayRequestID: pe.PlayRequestID,
			TrackID:       pe.TrackID,
			PositionMs:    pe.PositionMs,
			DurationMs:    pe.DurationMs,
		}, true
	case PlayerPaused:
		return TrackPaused{
			PlayRequestID: pe.PlayRequestID,
			TrackID:       pe.TrackID,
			PositionMs:    pe.PositionMs,
			DurationMs:    pe.DurationMs,
		}, true
	case PlayerUnavailable:
		return TrackUnavailable{PlayRequestID: pe.PlayRequestID, TrackID: pe.TrackID}, true
	case PlayerVolumeSet:
		return VolumeSet{Volume: pe.Volume}, true
	default:
		return nil, false
	}
}
