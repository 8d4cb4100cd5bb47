package connect

import (
	"errors"
	"io/fs"
)

// ErrMissingCredentials is returned when neither supplied nor cached
// credentials are available.
var ErrMissingCredentials = errors.New("missing credentials")

// ErrTooManyReconnects is the message of the ConnectionError emitted when the
// reconnect limit is reached.
const ErrTooManyReconnects = "too many reconnects"

// ConfigError reports an invalid option.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "illegal config: " + e.Reason
}

// PanicError records a panic recovered on the runtime goroutine.
type PanicError struct {
	Message string
	Value   any
}

func (e *PanicError) Error() string {
	return "panic: " + e.Message
}

// ErrorKind groups errors for display.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMissingCredentials
	KindIllegalConfig
	KindIo
	KindConnection
	KindPanic
	KindToken
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindMissingCredentials:
		return "MissingCredentials"
	case KindIllegalConfig:
		return "IllegalConfig"
	case KindIo:
		return "Io"
	case KindConnection:
		return "Connection"
	case KindPanic:
		return "Panic"
	case KindToken:
		return "Token"
	default:
		return "Unknown"
	}
}

// Classify returns the kind of err.
func Classify(err error) ErrorKind {
	var cfgErr *ConfigError
	var panicErr *PanicError
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingCredentials):
		return KindMissingCredentials
	case errors.As(err, &cfgErr):
		return KindIllegalConfig
	case errors.As(err, &panicErr):
		return KindPanic
	case errors.As(err, &pathErr):
		return KindIo
	default:
		return KindConnection
	}
}
