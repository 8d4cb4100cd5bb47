package connect

import (
	"testing"
	"time"
)

func TestLedger_RefusesAfterLimit(t *testing.T) {
	l := NewLedger(0, 0)
	now := time.Unix(1_000_000, 0)

	for i := range DefaultReconnectLimit {
		if !l.Allow(now.Add(time.Duration(i) * time.Second)) {
			t.Fatalf("Allow() #%d = false, want true", i+1)
		}
	}
	if l.Allow(now.Add(10 * time.Second)) {
		t.Error("Allow() after limit = true, want false")
	}
	if l.Len() != DefaultReconnectLimit {
		t.Errorf("Len() = %d, want %d", l.Len(), DefaultReconnectLimit)
	}
}

func TestLedger_PurgesOldEntries(t *testing.T) {
	l := NewLedger(0, 0)
	start := time.Unix(1_000_000, 0)

	for i := range DefaultReconnectLimit {
		l.Allow(start.Add(time.Duration(i) * time.Second))
	}

	// The first entry is still inside the window at exactly 600s.
	if l.Allow(start.Add(DefaultReconnectWindow)) {
		t.Error("Allow() at window boundary = true, want false")
	}

	// One second later the first entry has expired.
	if !l.Allow(start.Add(DefaultReconnectWindow + time.Second)) {
		t.Error("Allow() after first entry expired = false, want true")
	}
}

func TestLedger_SpacedDisconnectsNeverSaturate(t *testing.T) {
	l := NewLedger(0, 0)
	now := time.Unix(1_000_000, 0)

	for i := range 100 {
		if !l.Allow(now) {
			t.Fatalf("Allow() #%d = false, want true", i+1)
		}
		if l.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", l.Len())
		}
		now = now.Add(DefaultReconnectWindow + time.Second)
	}
}

func TestLedger_CustomThresholds(t *testing.T) {
	l := NewLedger(time.Minute, 2)
	now := time.Unix(1_000_000, 0)

	if !l.Allow(now) || !l.Allow(now) {
		t.Fatal("first two Allow() calls should succeed")
	}
	if l.Allow(now) {
		t.Error("third Allow() = true, want false")
	}
	if !l.Allow(now.Add(time.Minute + time.Second)) {
		t.Error("Allow() after custom window = false, want true")
	}
}
