package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"paylink/internal/api"
	"paylink/internal/services/dashboard"
	"paylink/internal/services/keystore"
	"paylink/internal/services/session"
	"paylink/internal/store"
)

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	backend, err := store.OpenBackend(cfg.Store, cfg.Home, cfg.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	profile := store.NewProfileStore(backend)

	keys := keystore.New(profile, log)
	sess := session.New(keys, profile, log)
	client := api.NewHTTP(cfg.APIURL, cfg.HTTPTimeout, log)
	dash := dashboard.New(keys, sess, client, log)

	log.Debug().
		Str("home", cfg.Home).
		Str("store", cfg.Store).
		Bool("sealed", cfg.Passphrase != "").
		Str("api_url", cfg.APIURL).
		Msg("wired")

	return New(keys, sess, dash, profile), nil
}
