package connect

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/audio"
)

// Version is reported in the session user agent.
var Version = "dev"

// DefaultClientID is the web API client the access token is issued for. It
// is set at build time with -ldflags "-X ...connect.DefaultClientID=<id>".
var DefaultClientID string

// DefaultScopes are requested for every access token.
var DefaultScopes = []string{
	"user-read-private",
	"playlist-read-private",
	"playlist-read-collaborative",
	"user-library-read",
	"user-library-modify",
	"user-top-read",
	"user-follow-read",
	"user-follow-modify",
	"user-read-recently-played",
	"user-read-playback-state",
	"user-read-currently-playing",
	"user-modify-playback-state",
	"streaming",
}

// Options are the raw, user-facing settings for a session.
type Options struct {
	Username string
	Password string

	DeviceID   string
	DeviceName string

	Backend string
	Device  string
	Format  string

	Mixer      string
	MixerName  string
	MixerCard  string
	MixerIndex int
	VolumeCtrl string

	// InitialVolume is a percentage. Nil falls back to the cached volume.
	InitialVolume *int

	Bitrate              int
	Gapless              bool
	Normalisation        bool
	NormalisationPregain float64
	Autoplay             bool

	Proxy  string
	APPort int

	ClientID string
	Scopes   []string

	ReconnectWindow time.Duration
	ReconnectLimit  int

	Cache CredentialCache
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	return Options{
		DeviceName:      "swell",
		Backend:         audio.DefaultBackend,
		Format:          "S16",
		Mixer:           audio.DefaultMixer,
		MixerName:       "PCM",
		MixerCard:       "default",
		VolumeCtrl:      "linear",
		Bitrate:         int(Bitrate160),
		Gapless:         true,
		ClientID:        DefaultClientID,
		Scopes:          DefaultScopes,
		ReconnectWindow: DefaultReconnectWindow,
		ReconnectLimit:  DefaultReconnectLimit,
	}
}

// Config is the resolved session configuration. It is immutable once built.
type Config struct {
	DeviceID   string
	DeviceName string

	Backend audio.SinkBuilder
	Device  string
	Format  audio.Format

	Mixer       audio.MixerBuilder
	MixerConfig audio.MixerConfig

	Session SessionConfig
	Player  PlayerConfig
	Connect ConnectConfig

	Cache       CredentialCache
	Credentials Credentials

	ClientID string
	Scopes   []string

	ReconnectWindow time.Duration
	ReconnectLimit  int
}

// Setup validates opts and resolves them into a Config. It returns a
// *ConfigError for invalid settings and ErrMissingCredentials when no
// credentials can be found.
func Setup(opts Options) (Config, error) {
	log.Info().Str("version", Version).Msg("swell starting")

	backend, ok := audio.FindBackend(opts.Backend)
	if !ok {
		return Config{}, &ConfigError{Reason: fmt.Sprintf("invalid backend %q", opts.Backend)}
	}
	format, err := audio.ParseFormat(opts.Format)
	if err != nil {
		return Config{}, &ConfigError{Reason: err.Error()}
	}

	mixer, ok := audio.FindMixer(opts.Mixer)
	if !ok {
		return Config{}, &ConfigError{Reason: fmt.Sprintf("invalid mixer %q", opts.Mixer)}
	}
	volumeCtrl, err := audio.ParseVolumeCtrl(opts.VolumeCtrl)
	if err != nil {
		return Config{}, &ConfigError{Reason: err.Error()}
	}

	if opts.DeviceID == "" {
		return Config{}, &ConfigError{Reason: "device id is empty"}
	}

	initialVolume, err := resolveInitialVolume(opts)
	if err != nil {
		return Config{}, err
	}

	bitrate, err := parseBitrate(opts.Bitrate)
	if err != nil {
		return Config{}, err
	}

	var proxy *url.URL
	if opts.Proxy != "" {
		proxy, err = url.Parse(opts.Proxy)
		if err != nil || proxy.Host == "" {
			return Config{}, &ConfigError{Reason: fmt.Sprintf("invalid proxy %q", opts.Proxy)}
		}
	}

	name := opts.DeviceName
	if name == "" {
		name = "swell"
	}
	clientID := opts.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	if clientID == "" {
		return Config{}, &ConfigError{Reason: "client id is empty"}
	}
	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	creds, err := resolveCredentials(opts)
	if err != nil {
		return Config{}, err
	}

	return Config{
		DeviceID:   opts.DeviceID,
		DeviceName: name,
		Backend:    backend,
		Device:     opts.Device,
		Format:     format,
		Mixer:      mixer,
		MixerConfig: audio.MixerConfig{
			Device:     opts.MixerCard,
			Control:    opts.MixerName,
			Index:      opts.MixerIndex,
			VolumeCtrl: volumeCtrl,
		},
		Session: SessionConfig{
			UserAgent: "swell/" + Version,
			DeviceID:  opts.DeviceID,
			Proxy:     proxy,
			APPort:    opts.APPort,
		},
		Player: PlayerConfig{
			Bitrate:              bitrate,
			Gapless:              opts.Gapless,
			Normalisation:        opts.Normalisation,
			NormalisationPregain: opts.NormalisationPregain,
		},
		Connect: ConnectConfig{
			Name:          name,
			DeviceType:    DeviceSmartphone,
			InitialVolume: initialVolume,
			HasVolumeCtrl: volumeCtrl != audio.VolumeFixed,
			Autoplay:      opts.Autoplay,
		},
		Cache:           opts.Cache,
		Credentials:     creds,
		ClientID:        clientID,
		Scopes:          scopes,
		ReconnectWindow: opts.ReconnectWindow,
		ReconnectLimit:  opts.ReconnectLimit,
	}, nil
}

// resolveInitialVolume scales a configured percentage to the 16-bit range,
// or falls back to the cached volume.
func resolveInitialVolume(opts Options) (*uint16, error) {
	if opts.InitialVolume != nil {
		v := *opts.InitialVolume
		if v < 0 || v > 100 {
			return nil, &ConfigError{Reason: fmt.Sprintf("initial volume must be between 0 and 100, got %d", v)}
		}
		scaled := uint16(v * audio.MaxVolume / 100)
		return &scaled, nil
	}
	if opts.Cache == nil {
		return nil, nil
	}
	v, ok, err := opts.Cache.Volume()
	if err != nil {
		log.Warn().Err(err).Msg("reading cached volume")
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func parseBitrate(b int) (Bitrate, error) {
	switch b {
	case 0, 160:
		return Bitrate160, nil
	case 96:
		return Bitrate96, nil
	case 320:
		return Bitrate320, nil
	default:
		return 0, &ConfigError{Reason: fmt.Sprintf("invalid bitrate %d", b)}
	}
}

// resolveCredentials prefers an explicit username and password over cached
// credentials.
func resolveCredentials(opts Options) (Credentials, error) {
	if opts.Username != "" && opts.Password != "" {
		return Credentials{
			Username: opts.Username,
			AuthType: AuthPassword,
			AuthData: []byte(opts.Password),
		}, nil
	}
	if opts.Cache != nil {
		creds, err := opts.Cache.Credentials()
		if err != nil {
			log.Warn().Err(err).Msg("reading cached credentials")
		} else if creds != nil && !creds.Empty() {
			return *creds, nil
		}
	}
	return Credentials{}, ErrMissingCredentials
}
