package testsupport

import (
	"path/filepath"
	"testing"

	"leximi/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Directories are created so stores and locks can be opened immediately.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Feed.PlaylistID = "PLtest"
	cfgVal.YtDlp.Binary = "yt-dlp"
	cfgVal.YtDlp.MinIntervalMillis = 0
	cfgVal.Audio.Verify = false

	builder := &configBuilder{cfg: &cfgVal}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithFeedURL points the feed client at a test server.
func WithFeedURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Feed.BaseURL = url
	}
}

// WithEmitModules enables client-facing JS module output.
func WithEmitModules() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dataset.EmitModules = true
	}
}
