package connect

import "time"

const (
	// DefaultReconnectWindow is how long an unexpected disconnect counts
	// against the reconnect limit.
	DefaultReconnectWindow = 600 * time.Second
	// DefaultReconnectLimit is the number of disconnects tolerated inside
	// the window before automatic reconnection stops.
	DefaultReconnectLimit = 5
)

// Ledger records recent unexpected disconnects over a sliding window.
type Ledger struct {
	window time.Duration
	limit  int
	times  []time.Time
}

// NewLedger creates a ledger. Non-positive values select the defaults.
func NewLedger(window time.Duration, limit int) *Ledger {
	if window <= 0 {
		window = DefaultReconnectWindow
	}
	if limit <= 0 {
		limit = DefaultReconnectLimit
	}
	return &Ledger{window: window, limit: limit}
}

// Allow purges entries older than the window and reports whether another
// reconnect is permitted at now. A permitted attempt is recorded.
func (l *Ledger) Allow(now time.Time) bool {
	l.purge(now)
	if len(l.times) >= l.limit {
		return false
	}
	l.times = append(l.times, now)
	return true
}

// Len returns the number of recorded disconnects, including stale ones not
// yet purged.
func (l *Ledger) Len() int {
	return len(l.times)
}

func (l *Ledger) purge(now time.Time) {
	keep := l.times[:0]
	for _, t := range l.times {
		if now.Sub(t) <= l.window {
			keep = append(keep, t)
		}
	}
	l.times = keep
}
