package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/app"
	"github.com/llehouerou/swell/internal/bridge"
	"github.com/llehouerou/swell/internal/cache"
	"github.com/llehouerou/swell/internal/config"
	"github.com/llehouerou/swell/internal/connect"
	"github.com/llehouerou/swell/internal/errmsg"
	"github.com/llehouerou/swell/internal/logging"
	"github.com/llehouerou/swell/internal/mailbox"
	"github.com/llehouerou/swell/internal/mpris"
	"github.com/llehouerou/swell/internal/notify"
	"github.com/llehouerou/swell/internal/status"
	"github.com/llehouerou/swell/internal/stderr"
)

func main() {
	os.Exit(run())
}

func fail(op errmsg.Op, err error) int {
	stderr.WriteOriginal(errmsg.Format(op, err) + "\n")
	return 1
}

func run() int {
	logCfg, err := config.LoadLog()
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}
	logCloser, err := logging.Init(logCfg)
	if err != nil {
		return fail(errmsg.OpInitialize, err)
	}
	defer logCloser.Close()

	// Before the audio backend touches ALSA.
	if err := stderr.Start(); err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpStderrStart, err))
	}
	defer stderr.Stop()

	cfg, err := config.Load()
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}

	store, err := cache.OpenDefault()
	if err != nil {
		return fail(errmsg.OpCacheOpen, err)
	}
	defer store.Close()

	deviceID, err := store.DeviceID(context.Background())
	if err != nil {
		return fail(errmsg.OpDeviceID, err)
	}

	opts := cfg.Options()
	opts.DeviceID = deviceID
	opts.Cache = store
	if secrets.Username != "" {
		opts.Username = secrets.Username
	}
	opts.Password = secrets.Password

	events := mailbox.New[connect.Event]()
	defer events.Close()
	forward := connect.ListenerFunc(func(e connect.Event) {
		_ = events.Send(e)
	})

	var crashed atomic.Bool
	onPanic := connect.WithPanicHandler(func(p *connect.PanicError) {
		crashed.Store(true)
		log.Error().Str("panic", p.Message).Msg("player runtime crashed")
	})

	client := &bridge.Client{URL: cfg.BridgeURL()}
	svc := connect.NewService(forward, opts, client.Backend(), onPanic)
	defer svc.Stop()

	tracker := status.NewTracker()

	var observers []connect.Listener
	if n, err := notify.New(); err == nil {
		observers = append(observers, notify.NewReporter(n, opts.DeviceName))
	}

	adapter, err := mpris.New(svc, tracker)
	if err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpMPRISStart, err))
	} else {
		defer adapter.Close()
	}

	log.Info().
		Str("device", opts.DeviceName).
		Str("device_id", deviceID).
		Str("bridge", client.URL).
		Msg("starting ui")

	p := tea.NewProgram(app.New(svc, tracker, events, observers...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fail(errmsg.OpInitialize, err)
	}

	if crashed.Load() {
		stderr.WriteOriginal(fmt.Sprintf("%s crashed, see the log for details\n", opts.DeviceName))
		return 2
	}
	return 0
}
