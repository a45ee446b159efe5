package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"paylink/internal/app"
	"paylink/internal/devserver"
)

type config struct {
	Addr       string        `envconfig:"DEVAPI_ADDR" default:":8080"`
	JWTSecret  string        `envconfig:"DEVAPI_JWT_SECRET" default:"paylink-dev-secret"`
	RatePerSec float64       `envconfig:"DEVAPI_RATE_PER_SEC" default:"20"`
	Burst      int           `envconfig:"DEVAPI_BURST" default:"40"`
	TokenTTL   time.Duration `envconfig:"DEVAPI_TOKEN_TTL" default:"1h"`
	LogLevel   string        `envconfig:"DEVAPI_LOG_LEVEL" default:"info"`
}

func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		os.Stderr.WriteString("failed to process config: " + err.Error() + "\n")
		os.Exit(2)
	}
	log := app.NewLogger(cfg.LogLevel, os.Stderr)

	srv := devserver.New(devserver.Config{
		Secret:     []byte(cfg.JWTSecret),
		RatePerSec: cfg.RatePerSec,
		Burst:      cfg.Burst,
		TokenTTL:   cfg.TokenTTL,
		Log:        log,
	})
	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.Addr).
		Str("demo_email", devserver.DemoEmail).
		Str("demo_password", devserver.DemoPassword).
		Msg("devapi listening")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
}
