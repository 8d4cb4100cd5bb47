// Package logging configures the global zerolog logger. Logs go to a file
// because the terminal belongs to the UI.
package logging

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/config"
)

// Init installs the global logger. The returned closer flushes the log file.
func Init(cfg config.LogConfig) (io.Closer, error) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	path := cfg.File
	if path == "" {
		var err error
		path, err = xdg.StateFile(filepath.Join("swell", "swell.log"))
		if err != nil {
			return nil, err
		}
	}
	w, err := newRotatingWriter(path, cfg.MaxMB)
	if err != nil {
		return nil, err
	}

	var output io.Writer = w
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return w, nil
}
