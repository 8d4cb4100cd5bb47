// Command swell-cache inspects and clears the local credential cache.
//
//	swell-cache show       print the cached user, device id and volume
//	swell-cache forget     remove the cached credentials
//	swell-cache device-id  print the device id, creating it if needed
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/cache"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: swell-cache show|forget|device-id")
		os.Exit(2)
	}

	store, err := cache.OpenDefault()
	if err != nil {
		log.Fatal().Err(err).Msg("open cache")
	}
	defer store.Close()

	if err := runCommand(os.Args[1], store); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("failed")
		store.Close()
		os.Exit(1)
	}
}

func runCommand(cmd string, store *cache.Store) error {
	switch cmd {
	case "show":
		creds, err := store.Credentials()
		if err != nil {
			return err
		}
		if creds == nil {
			fmt.Println("user:      (none)")
		} else {
			fmt.Printf("user:      %s (%s credentials)\n", creds.Username, creds.AuthType)
		}
		id, err := store.DeviceID(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("device id: %s\n", id)
		vol, ok, err := store.Volume()
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("volume:    %s%%\n", humanize.FtoaWithDigits(float64(vol)*100/0xFFFF, 1))
		}
		return nil
	case "forget":
		if err := store.RemoveCredentials(); err != nil {
			return err
		}
		log.Info().Msg("cached credentials removed")
		return nil
	case "device-id":
		id, err := store.DeviceID(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
