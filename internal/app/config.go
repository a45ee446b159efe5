package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime wiring options for building the app.
// Home defaults to $HOME/.paylink. A non-empty Passphrase seals the
// profile at rest.
type Config struct {
	Home        string        `envconfig:"PAYLINK_HOME"`
	APIURL      string        `envconfig:"PAYLINK_API_URL" default:"http://127.0.0.1:8080"`
	Store       string        `envconfig:"PAYLINK_STORE" default:"file"`
	Passphrase  string        `envconfig:"PAYLINK_STORE_PASSPHRASE"`
	LogLevel    string        `envconfig:"PAYLINK_LOG_LEVEL" default:"warn"`
	HTTPTimeout time.Duration `envconfig:"PAYLINK_HTTP_TIMEOUT" default:"15s"`
}

// LoadConfig reads Config from the environment and fills in Home.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.Home = filepath.Join(dir, ".paylink")
	}
	return cfg, nil
}
