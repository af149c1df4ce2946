// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "context"

// Default values for the verification service.
const (
	defaultAddr         = ":8766"
	defaultThresholdPx  = 5.0
	defaultAllowOrigin  = "*"
	defaultCapacityHint = 1024
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8766".
	Addr string `koanf:"addr"`

	// ThresholdPx is the pass/fail accuracy threshold in pixels.
	ThresholdPx float64 `koanf:"threshold_px"`

	// AllowOrigin is the CORS allow-origin value sent on every response.
	AllowOrigin string `koanf:"allow_origin"`

	// Recompute enables server-side re-evaluation of client-supplied
	// distance/success; disagreements are logged, never rejected.
	Recompute bool `koanf:"recompute"`

	// StaticDir serves test-page assets from disk when set; otherwise the
	// embedded default page is used.
	StaticDir string `koanf:"static_dir"`

	// LedgerCapacityHint pre-sizes the click ledger.
	LedgerCapacityHint int `koanf:"ledger_capacity_hint"`
}

// New creates a Config with defaults. Context is accepted first per the
// project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               defaultAddr,
		ThresholdPx:        defaultThresholdPx,
		AllowOrigin:        defaultAllowOrigin,
		Recompute:          true,
		StaticDir:          "",
		LedgerCapacityHint: defaultCapacityHint,
	}
}
