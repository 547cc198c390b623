// Package testsupport provides shared fixtures for package tests: temp-dir
// backed configs, an open database, and pre-seeded stores.
package testsupport

import (
	"path/filepath"
	"testing"

	"barberq/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Server.SessionSecret = "test-session-secret-0123456789"
	cfg.Server.APIToken = "test-api-token"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBind overrides the listener address on the test config.
func WithBind(bind string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.Bind = bind
	}
}

// WithAPIToken overrides the static CLI token on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.APIToken = token
	}
}
