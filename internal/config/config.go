// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Email and Password are the Garmin Connect credentials. Both are
	// optional: they are only needed when no token bundle is cached yet.
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`

	// TokenStorePath is where serialized session tokens live across
	// restarts. A leading "~" is expanded to the user's home directory.
	TokenStorePath string `env:"GARMINTOKENS" envDefault:"~/.garminconnect"`

	// SecretKey, when set, is used to encrypt the token bundle at rest.
	SecretKey string `env:"SECRET_KEY"`

	// Port is the HTTP listen port (all interfaces).
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite submission history database path.
	DBPath string `env:"BODYCOMP_DB_PATH" envDefault:"bodycomp.db"`
}

// HasCredentials returns true when both Email and Password are non-empty.
// Used by the session service to decide whether a credential login is
// possible when no token cache exists.
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// ListenAddr returns the bind address derived from Port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads configuration from environment variables and returns a
// validated Config. Garmin credentials (EMAIL, PASSWORD) are optional; if
// absent, submissions fail with an authentication error until a token
// bundle exists at GARMINTOKENS.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT has invalid value %d", cfg.Port)
	}

	expanded, err := expandHome(cfg.TokenStorePath)
	if err != nil {
		return nil, fmt.Errorf("expand GARMINTOKENS: %w", err)
	}
	cfg.TokenStorePath = expanded

	return &cfg, nil
}

// expandHome replaces a leading "~" with the current user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
