package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PRECISION_CONFIG is set
//  3. env (prefix PRECISION_)
//
// A .env file in the working directory is loaded best-effort first so local
// runs can keep their settings out of the shell.
func Load(ctx context.Context) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("PRECISION_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PRECISION_ADDR, PRECISION_THRESHOLD_PX, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("PRECISION_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "precision_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.ThresholdPx <= 0 {
		return nil, fmt.Errorf("%w: threshold_px must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
