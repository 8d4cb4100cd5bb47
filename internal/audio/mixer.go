package audio

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/gopxl/beep/v2/effects"
)

// MaxVolume is the full-scale value of the 16-bit volume used on the wire.
const MaxVolume = 0xFFFF

// VolumeCtrl selects how a volume value maps to gain.
type VolumeCtrl int

const (
	VolumeLinear VolumeCtrl = iota
	VolumeLog
	VolumeFixed
)

// ParseVolumeCtrl parses "linear", "log" or "fixed". Empty means linear.
func ParseVolumeCtrl(s string) (VolumeCtrl, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return VolumeLinear, nil
	case "log":
		return VolumeLog, nil
	case "fixed":
		return VolumeFixed, nil
	default:
		return 0, fmt.Errorf("invalid volume control %q", s)
	}
}

func (v VolumeCtrl) String() string {
	switch v {
	case VolumeLinear:
		return "linear"
	case VolumeLog:
		return "log"
	case VolumeFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// MixerConfig configures a mixer instance.
type MixerConfig struct {
	Device     string
	Control    string
	Index      int
	VolumeCtrl VolumeCtrl
}

// Filter processes samples in place before they reach a sink.
type Filter interface {
	Apply(samples [][2]float64)
}

// Mixer owns the playback volume.
type Mixer interface {
	Volume() uint16
	SetVolume(v uint16)
	Filter() Filter
}

// MixerBuilder creates a mixer.
type MixerBuilder func(cfg MixerConfig) (Mixer, error)

// DefaultMixer is used when no mixer is configured.
const DefaultMixer = "softvol"

var mixers = map[string]MixerBuilder{
	"softvol": newSoftMixer,
	"fixed":   newFixedMixer,
}

// FindMixer returns the builder registered under name. An empty name
// selects DefaultMixer.
func FindMixer(name string) (MixerBuilder, bool) {
	if name == "" {
		name = DefaultMixer
	}
	m, ok := mixers[name]
	return m, ok
}

// Mixers returns the registered mixer names, sorted.
func Mixers() []string {
	names := make([]string, 0, len(mixers))
	for name := range mixers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// logRangeDB is the attenuation range covered by the log volume curve.
const logRangeDB = 60.0

// softMixer scales samples in software using beep's volume effect.
type softMixer struct {
	mu     sync.Mutex
	ctrl   VolumeCtrl
	volume uint16
	effect effects.Volume
}

func newSoftMixer(cfg MixerConfig) (Mixer, error) {
	m := &softMixer{ctrl: cfg.VolumeCtrl}
	m.SetVolume(MaxVolume)
	return m, nil
}

func (m *softMixer) Volume() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *softMixer) SetVolume(v uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	m.effect.Base, m.effect.Volume, m.effect.Silent = volumeToEffect(m.ctrl, v)
}

func (m *softMixer) Filter() Filter { return m }

// Apply scales samples by the current volume.
func (m *softMixer) Apply(samples [][2]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effect.Streamer = passthrough{}
	m.effect.Stream(samples)
}

// volumeToEffect converts a 16-bit volume to beep's exponential form, where
// gain = Base^Volume.
func volumeToEffect(ctrl VolumeCtrl, v uint16) (base, volume float64, silent bool) {
	if ctrl == VolumeFixed || v == MaxVolume {
		return 2, 0, false
	}
	if v == 0 {
		return 2, 0, true
	}
	level := float64(v) / MaxVolume
	if ctrl == VolumeLog {
		// gain = 10^(dB/20) with dB spread linearly over the range.
		return 10, (level - 1) * logRangeDB / 20, false
	}
	return 2, math.Log2(level), false
}

// passthrough reports the buffer as filled without touching it, so the volume
// effect scales samples that are already there.
type passthrough struct{}

func (passthrough) Stream(samples [][2]float64) (int, bool) { return len(samples), true }
func (passthrough) Err() error                              { return nil }

// fixedMixer reports a volume but never alters samples.
type fixedMixer struct {
	mu     sync.Mutex
	volume uint16
}

func newFixedMixer(MixerConfig) (Mixer, error) {
	return &fixedMixer{volume: MaxVolume}, nil
}

func (m *fixedMixer) Volume() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *fixedMixer) SetVolume(v uint16) {
	m.mu.Lock()
	m.volume = v
	m.mu.Unlock()
}

func (m *fixedMixer) Filter() Filter { return NopFilter{} }

// NopFilter leaves samples unchanged.
type NopFilter struct{}

func (NopFilter) Apply([][2]float64) {}
