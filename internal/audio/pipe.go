package audio

import (
	"errors"
	"io"
	"os"
	"sync"
)

// pipeSink writes raw interleaved PCM to a file, or to stdout when no device
// is given.
type pipeSink struct {
	mu     sync.Mutex
	path   string
	format Format
	w      io.WriteCloser
	buf    []byte
}

func newPipeSink(device string, format Format) (Sink, error) {
	return &pipeSink{path: device, format: format}, nil
}

func (s *pipeSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w != nil {
		return nil
	}
	if s.path == "" {
		s.w = nopCloser{os.Stdout}
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	s.w = f
	return nil
}

func (s *pipeSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	err := s.w.Close()
	s.w = nil
	return err
}

func (s *pipeSink) Write(samples [][2]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return errors.New("pipe sink not started")
	}
	s.buf = s.format.Encode(s.buf[:0], samples)
	_, err := s.w.Write(s.buf)
	return err
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
