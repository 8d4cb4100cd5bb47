//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

const (
	appName      = "Swell"
	desktopEntry = "swell"

	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
)

// dbusNotifier sends notifications via D-Bus.
type dbusNotifier struct {
	obj dbus.BusObject
}

// New creates a Notifier backed by the session bus. Without a session bus
// it returns a notifier that drops everything.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		log.Info().Err(err).Msg("no session bus, desktop notifications disabled")
		return nopNotifier{}, nil //nolint:nilerr // notifications are optional
	}
	return &dbusNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}, nil
}

// hintsFor builds the Notify hints. Low urgency notices are transient and
// critical ones are resident.
func hintsFor(n Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if n.Category != "" {
		hints["category"] = dbus.MakeVariant(n.Category)
	}
	switch n.Urgency {
	case UrgencyLow:
		hints["transient"] = dbus.MakeVariant(true)
	case UrgencyCritical:
		hints["resident"] = dbus.MakeVariant(true)
	case UrgencyNormal:
	}
	return hints
}

// Notify calls org.freedesktop.Notifications.Notify and returns the id the
// daemon assigned.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := n.obj.Call(
		dbusNotifyInterface+".Notify",
		0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hintsFor(notif),
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Close closes a notification by ID.
func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id).Err
}
