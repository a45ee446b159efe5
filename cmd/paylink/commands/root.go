package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"paylink/internal/app"
	"paylink/internal/domain"
)

var (
	appCtx *app.App
	log    = zerolog.Nop()

	home      string
	apiURL    string
	storeKind string
	logLevel  string
)

func Execute() error {
	root := &cobra.Command{
		Use:           "paylink",
		Short:         "Encrypted device session client for the payments dashboard API",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("home") {
				cfg.Home = home
			}
			if flags.Changed("api") {
				cfg.APIURL = apiURL
			}
			if flags.Changed("store") {
				cfg.Store = storeKind
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			log = app.NewLogger(cfg.LogLevel, os.Stderr)

			appCtx, err = app.NewWire(cfg, log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			return appCtx.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "profile dir (default ~/.paylink)")
	root.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&storeKind, "store", "", "profile backend: file or bolt")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		deviceCmd(),
		loginCmd(),
		logoutCmd(),
		sessionCmd(),
		walletsCmd(),
		sendersCmd(),
		senderCmd(),
		draftCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "Error:", display(err))
		if appCtx != nil {
			_ = appCtx.Close()
		}
	}
	return err
}

// display maps domain errors to their user-facing text and passes
// anything else (usage, config) through.
func display(err error) string {
	var apiErr *domain.APIError
	var transportErr *domain.TransportError
	switch {
	case errors.As(err, &apiErr), errors.As(err, &transportErr):
	case errors.Is(err, domain.ErrKeyGeneration),
		errors.Is(err, domain.ErrNotInitialized),
		errors.Is(err, domain.ErrInvalidHandshake),
		errors.Is(err, domain.ErrDecryption),
		errors.Is(err, domain.ErrEmptyPayload),
		errors.Is(err, domain.ErrProtocolViolation):
	default:
		return err.Error()
	}
	return domain.UserMessage(err)
}
