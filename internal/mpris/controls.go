// Package mpris exposes the session controls over MPRIS.
package mpris

import (
	"github.com/llehouerou/swell/internal/status"
)

// Controls is the subset of connect.Service the bus can drive.
type Controls interface {
	Play()
	Pause()
	Next()
	Previous()
	Stop()
}

// StateSource is satisfied by *status.Tracker.
type StateSource interface {
	Snapshot() status.Snapshot
}

// Toggle pauses while playing and plays otherwise.
func Toggle(c Controls, s status.Snapshot) {
	if s.Playback == status.Playing {
		c.Pause()
		return
	}
	c.Play()
}

// VolumeFraction maps a 0..0xFFFF volume to MPRIS' 0..1 range.
func VolumeFraction(v uint16) float64 {
	return float64(v) / 0xFFFF
}
