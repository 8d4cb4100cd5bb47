package connect

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/mailbox"
)

// Runtime hosts a Controller on a dedicated goroutine locked to its own OS
// thread. Its methods are safe to call from any goroutine.
type Runtime struct {
	inbox   *mailbox.Mailbox[Message]
	done    chan struct{}
	err     error
	onPanic func(*PanicError)
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithPanicHandler is called on the runtime goroutine after a panic has been
// reported to the listener and the runtime is marked done. Without a handler
// the panic is re-raised and the process crashes.
func WithPanicHandler(fn func(*PanicError)) RuntimeOption {
	return func(r *Runtime) {
		r.onPanic = fn
	}
}

// Start resolves opts and spawns the runtime. Configuration errors are
// returned before anything is spawned.
func Start(listener Listener, opts Options, backend Backend, options ...RuntimeOption) (*Runtime, error) {
	cfg, err := Setup(opts)
	if err != nil {
		return nil, err
	}
	return Spawn(listener, cfg, backend, options...), nil
}

// Spawn starts a runtime for an already resolved configuration.
func Spawn(listener Listener, cfg Config, backend Backend, options ...RuntimeOption) *Runtime {
	r := &Runtime{
		inbox: mailbox.New[Message](),
		done:  make(chan struct{}),
		onPanic: func(p *PanicError) {
			panic(p.Value)
		},
	}
	for _, opt := range options {
		opt(r)
	}

	events := newEmitter(listener)
	c := newController(cfg, backend, r.inbox, events)
	go r.run(c, events)
	return r
}

func (r *Runtime) run(c *Controller, events *emitter) {
	runtime.LockOSThread()

	defer func() {
		v := recover()
		var perr *PanicError
		if v != nil {
			perr = &PanicError{Message: panicMessage(v), Value: v}
			log.Error().Str("panic", perr.Message).Msg("runtime crashed")
			events.emit(Panic{Message: perr.Message})
			r.err = perr
		}
		events.close()
		r.inbox.Close()
		if left := r.inbox.Drain(); len(left) > 0 {
			log.Debug().Int("dropped", len(left)).Msg("discarding commands queued behind exit")
		}
		close(r.done)
		if perr != nil {
			r.onPanic(perr)
		}
	}()

	c.run(context.Background())
}

// panicMessage extracts a readable message from a recovered value.
func panicMessage(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return "Unknown internal error"
	}
}

func (r *Runtime) send(m Message) error {
	return r.inbox.Send(m)
}

func (r *Runtime) Play()         { _ = r.send(MsgPlay) }
func (r *Runtime) Pause()        { _ = r.send(MsgPause) }
func (r *Runtime) Next()         { _ = r.send(MsgNext) }
func (r *Runtime) Previous()     { _ = r.send(MsgPrevious) }
func (r *Runtime) RefreshToken() { _ = r.send(MsgRefreshToken) }

// Shutdown asks the controller to stop and waits for the runtime goroutine
// to exit. If the runtime is already gone it only logs a warning.
func (r *Runtime) Shutdown() {
	if err := r.send(MsgShutdown); err != nil {
		if errors.Is(err, mailbox.ErrClosed) {
			log.Warn().Msg("shutdown could not send because runtime is already dead")
		}
		return
	}
	<-r.done
}

// Done is closed once the runtime goroutine has exited.
func (r *Runtime) Done() <-chan struct{} {
	return r.done
}

// Err returns a *PanicError if the runtime died from a panic. It is only
// meaningful after Done is closed.
func (r *Runtime) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}
