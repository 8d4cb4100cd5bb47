package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/swell/internal/bridge"
	"github.com/llehouerou/swell/internal/connect"
)

type Config struct {
	Bridge    BridgeConfig    `koanf:"bridge"`
	Device    DeviceConfig    `koanf:"device"`
	Audio     AudioConfig     `koanf:"audio"`
	Player    PlayerConfig    `koanf:"player"`
	Session   SessionConfig   `koanf:"session"`
	Reconnect ReconnectConfig `koanf:"reconnect"`
}

// BridgeConfig locates the protocol daemon.
type BridgeConfig struct {
	URL string `koanf:"url"` // e.g., "ws://127.0.0.1:4070/session"
}

type DeviceConfig struct {
	Name string `koanf:"name"` // advertised name (default: hw-release NAME, then hostname)
}

// AudioConfig selects the output backend and mixer.
type AudioConfig struct {
	Backend       string `koanf:"backend"`        // "beep" or "pipe"
	Device        string `koanf:"device"`         // backend device, file path for "pipe"
	Format        string `koanf:"format"`         // "S16", "S32", "F32"
	Mixer         string `koanf:"mixer"`          // "softvol" or "fixed"
	MixerName     string `koanf:"mixer_name"`     // default: "PCM"
	MixerCard     string `koanf:"mixer_card"`     // default: "default"
	MixerIndex    int    `koanf:"mixer_index"`    // default: 0
	VolumeCtrl    string `koanf:"volume_ctrl"`    // "linear", "log", "fixed"
	InitialVolume *int   `koanf:"initial_volume"` // percent, 0-100
}

// PlayerConfig holds playback settings.
type PlayerConfig struct {
	Bitrate              int     `koanf:"bitrate"` // 96, 160 or 320 (default: 160)
	Gapless              *bool   `koanf:"gapless"` // default: true
	Normalisation        bool    `koanf:"normalisation"`
	NormalisationPregain float64 `koanf:"normalisation_pregain"`
	Autoplay             bool    `koanf:"autoplay"`
}

type SessionConfig struct {
	Username string `koanf:"username"`
	Proxy    string `koanf:"proxy"`
	APPort   int    `koanf:"ap_port"`
	ClientID string `koanf:"client_id"`
}

// ReconnectConfig bounds automatic reconnection.
type ReconnectConfig struct {
	Window time.Duration `koanf:"window"` // e.g., "10m" (default: 600s)
	Limit  int           `koanf:"limit"`  // default: 5
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads the given files in order; later files override earlier
// ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Audio.Backend == "pipe" {
		cfg.Audio.Device = expandPath(cfg.Audio.Device)
	}
	cfg.Bridge.URL = strings.TrimSuffix(cfg.Bridge.URL, "/")

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "swell", "config.toml"),
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// BridgeURL returns the daemon URL with the default applied.
func (c *Config) BridgeURL() string {
	if c.Bridge.URL == "" {
		return bridge.DefaultURL
	}
	return c.Bridge.URL
}

// DeviceName returns the configured name, or one derived from the host.
func (c *Config) DeviceName() string {
	if c.Device.Name != "" {
		return c.Device.Name
	}
	if name := readReleaseName("/etc/hw-release"); name != "" {
		return name
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "swell"
}

// Options converts the file configuration into session options. Unset
// values keep the defaults from connect.DefaultOptions.
func (c *Config) Options() connect.Options {
	opts := connect.DefaultOptions()
	opts.DeviceName = c.DeviceName()
	opts.Username = c.Session.Username

	if c.Audio.Backend != "" {
		opts.Backend = c.Audio.Backend
	}
	opts.Device = c.Audio.Device
	if c.Audio.Format != "" {
		opts.Format = c.Audio.Format
	}
	if c.Audio.Mixer != "" {
		opts.Mixer = c.Audio.Mixer
	}
	if c.Audio.MixerName != "" {
		opts.MixerName = c.Audio.MixerName
	}
	if c.Audio.MixerCard != "" {
		opts.MixerCard = c.Audio.MixerCard
	}
	opts.MixerIndex = c.Audio.MixerIndex
	if c.Audio.VolumeCtrl != "" {
		opts.VolumeCtrl = c.Audio.VolumeCtrl
	}
	opts.InitialVolume = c.Audio.InitialVolume

	if c.Player.Bitrate != 0 {
		opts.Bitrate = c.Player.Bitrate
	}
	if c.Player.Gapless != nil {
		opts.Gapless = *c.Player.Gapless
	}
	opts.Normalisation = c.Player.Normalisation
	opts.NormalisationPregain = c.Player.NormalisationPregain
	opts.Autoplay = c.Player.Autoplay

	opts.Proxy = c.Session.Proxy
	opts.APPort = c.Session.APPort
	if c.Session.ClientID != "" {
		opts.ClientID = c.Session.ClientID
	}

	if c.Reconnect.Window > 0 {
		opts.ReconnectWindow = c.Reconnect.Window
	}
	if c.Reconnect.Limit > 0 {
		opts.ReconnectLimit = c.Reconnect.Limit
	}
	return opts
}

// readReleaseName returns the NAME field of an os-release style file.
func readReleaseName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if ok && strings.TrimSpace(key) == "NAME" {
			return strings.Trim(strings.TrimSpace(value), `"'`)
		}
	}
	return ""
}
