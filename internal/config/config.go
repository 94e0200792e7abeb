// Package config loads server settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAddr          = "CLICKER_ADDR"
	EnvTickInterval  = "CLICKER_TICK_INTERVAL"
	EnvCatalog       = "CLICKER_CATALOG"
	EnvAllowedOrigin = "CLICKER_ALLOWED_ORIGIN"
)

type Config struct {
	Addr          string        // Listen address for the HTTP server
	TickInterval  time.Duration // Passive income cadence
	CatalogPath   string        // Optional catalog YAML; empty means the embedded one
	AllowedOrigin string        // CORS and websocket origin; "*" allows any
}

func Default() Config {
	return Config{
		Addr:          ":8081",
		TickInterval:  time.Second,
		AllowedOrigin: "*",
	}
}

// Load reads the given .env files (".env" when none are named), then the
// process environment. A missing .env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment on top of Default.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvTickInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTickInterval, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %s", EnvTickInterval, v)
		}
		cfg.TickInterval = d
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv(EnvAllowedOrigin); v != "" {
		cfg.AllowedOrigin = v
	}
	return cfg, nil
}
