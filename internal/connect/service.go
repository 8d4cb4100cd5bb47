package connect

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Service owns at most one running Runtime and the options used to start
// it. It outlives individual sessions.
type Service struct {
	// lifecycle is a one-slot semaphore serializing Start, Stop and Logout.
	// A stopping runtime stays in rt until it has exited.
	lifecycle chan struct{}

	mu       sync.Mutex
	listener Listener
	opts     Options
	backend  Backend
	rtOpts   []RuntimeOption
	rt       *Runtime
}

// NewService creates a stopped service.
func NewService(listener Listener, opts Options, backend Backend, options ...RuntimeOption) *Service {
	return &Service{
		lifecycle: make(chan struct{}, 1),
		listener:  listener,
		opts:      opts,
		backend:   backend,
		rtOpts:    options,
	}
}

// Start spawns a runtime. It is a no-op if one is already running.
func (s *Service) Start() error {
	s.lifecycle <- struct{}{}
	defer func() { <-s.lifecycle }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeLocked() {
		log.Warn().Msg("player already started")
		return nil
	}

	rt, err := Start(s.listener, s.opts, s.backend, s.rtOpts...)
	if err != nil {
		return err
	}
	s.rt = rt
	return nil
}

// Stop shuts the runtime down and waits for it to exit.
func (s *Service) Stop() {
	s.lifecycle <- struct{}{}
	defer func() { <-s.lifecycle }()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	rt := s.Runtime()
	if rt == nil {
		return
	}
	rt.Shutdown()

	s.mu.Lock()
	if s.rt == rt {
		s.rt = nil
	}
	s.mu.Unlock()
}

// Logout stops the runtime and forgets stored credentials.
func (s *Service) Logout() error {
	s.lifecycle <- struct{}{}
	defer func() { <-s.lifecycle }()
	s.stopLocked()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Password = ""
	if s.opts.Cache == nil {
		return nil
	}
	return s.opts.Cache.RemoveCredentials()
}

// IsActive reports whether a runtime is running.
func (s *Service) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Service) activeLocked() bool {
	if s.rt == nil {
		return false
	}
	select {
	case <-s.rt.Done():
		return false
	default:
		return true
	}
}

// Runtime returns the current runtime, or nil.
func (s *Service) Runtime() *Runtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rt
}

func (s *Service) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Username
}

// SetUsername takes effect on the next Start.
func (s *Service) SetUsername(username string) {
	s.mu.Lock()
	s.opts.Username = username
	s.mu.Unlock()
}

// SetPassword takes effect on the next Start.
func (s *Service) SetPassword(password string) {
	s.mu.Lock()
	s.opts.Password = password
	s.mu.Unlock()
}

func (s *Service) DeviceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.DeviceID
}

func (s *Service) DeviceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.DeviceName
}

func (s *Service) Play()               { s.with((*Runtime).Play) }
func (s *Service) Pause()              { s.with((*Runtime).Pause) }
func (s *Service) Next()               { s.with((*Runtime).Next) }
func (s *Service) Previous()           { s.with((*Runtime).Previous) }
func (s *Service) RefreshAccessToken() { s.with((*Runtime).RefreshToken) }

func (s *Service) with(fn func(*Runtime)) {
	if rt := s.Runtime(); rt != nil {
		fn(rt)
	}
}
