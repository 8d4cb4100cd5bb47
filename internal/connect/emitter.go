package connect

import "sync"

// emitter serializes Notify calls and drops events once the run has ended.
type emitter struct {
	mu       sync.Mutex
	listener Listener
	closed   bool
}

func newEmitter(l Listener) *emitter {
	if l == nil {
		l = ListenerFunc(func(Event) {})
	}
	return &emitter{listener: l}
}

func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.listener.Notify(ev)
}

func (e *emitter) close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}
