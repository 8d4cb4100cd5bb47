package audio

import "sort"

// Sink receives decoded audio.
type Sink interface {
	Start() error
	Stop() error
	Write(samples [][2]float64) error
}

// SinkBuilder opens a sink on the named device.
type SinkBuilder func(device string, format Format) (Sink, error)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "beep"

var backends = map[string]SinkBuilder{
	"beep": newBeepSink,
	"pipe": newPipeSink,
}

// FindBackend returns the builder registered under name. An empty name
// selects DefaultBackend.
func FindBackend(name string) (SinkBuilder, bool) {
	if name == "" {
		name = DefaultBackend
	}
	b, ok := backends[name]
	return b, ok
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
