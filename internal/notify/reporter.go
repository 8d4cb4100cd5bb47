package notify

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/connect"
)

// Reporter turns session events into desktop notifications. Each new
// notification replaces the previous one so at most one is on screen.
type Reporter struct {
	notifier Notifier
	device   string

	mu     sync.Mutex
	lastID uint32
}

var _ connect.Listener = (*Reporter)(nil)

func NewReporter(n Notifier, device string) *Reporter {
	return &Reporter{notifier: n, device: device}
}

// Notify implements connect.Listener.
func (r *Reporter) Notify(e connect.Event) {
	n, ok := ForEvent(e, r.device)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n.ReplacesID = r.lastID
	id, err := r.notifier.Notify(n)
	if err != nil {
		log.Debug().Err(err).Msg("desktop notification failed")
		return
	}
	r.lastID = id
}

// ForEvent builds the notification for e. Only connection outcomes and
// crashes are worth interrupting the user for.
func ForEvent(e connect.Event, device string) (Notification, bool) {
	switch e := e.(type) {
	case connect.Connected:
		return Notification{
			Title:    "Connected",
			Body:     device + " is ready to play",
			Icon:     "audio-speakers",
			Category: CategoryConnected,
			Timeout:  3000,
			Urgency:  UrgencyLow,
		}, true
	case connect.ConnectionError:
		return Notification{
			Title:    "Connection failed",
			Body:     e.Message,
			Icon:     "network-error",
			Category: CategoryNetError,
			Timeout:  -1,
			Urgency:  UrgencyNormal,
		}, true
	case connect.Panic:
		return Notification{
			Title:    "Player crashed",
			Body:     e.Message,
			Icon:     "dialog-error",
			Category: CategoryCrash,
			Timeout:  0,
			Urgency:  UrgencyCritical,
		}, true
	default:
		return Notification{}, false
	}
}
