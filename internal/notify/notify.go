// Package notify sends desktop notifications over the freedesktop D-Bus
// interface.
package notify

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Standard freedesktop categories used by the Reporter.
const (
	CategoryConnected = "network.connected"
	CategoryNetError  = "network.error"
	CategoryCrash     = "device.error"
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string // summary, required
	Body       string
	Icon       string // path or theme icon name
	Category   string // optional "category" hint
	Timeout    int32  // ms, -1 = server default, 0 = never expire
	ReplacesID uint32 // 0 = new notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends n and returns its ID. When notifications are unavailable
	// it returns 0 and no error.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}
