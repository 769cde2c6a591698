package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"leximi/internal/config"
)

func TestLoadDefaultConfigExpandsPathsAndAppliesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("LEXIMI_YTDLP", "")
	t.Setenv("COOKIES_FILE", "")
	t.Setenv("LEXIMI_PLAYLIST_ID", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "leximi", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, ".local", "share", "leximi", "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Feed.PlaylistID != "PL-20shMe4LIKvWmIz3sSlq_RH-IaqIR5_" {
		t.Fatalf("unexpected playlist id: %q", cfg.Feed.PlaylistID)
	}
	if cfg.YtDlp.Binary != "yt-dlp" {
		t.Fatalf("unexpected yt-dlp binary: %q", cfg.YtDlp.Binary)
	}
	if cfg.YtDlp.CookiesFile != "" {
		t.Fatalf("expected no cookies file, got %q", cfg.YtDlp.CookiesFile)
	}
	if cfg.Audio.Extension != "webm" || cfg.Audio.Format != "opus" {
		t.Fatalf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.LockPath() != filepath.Join(cfg.Paths.StateDir, "leximi.lock") {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
}

func TestLoadAppliesEnvironmentFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEXIMI_YTDLP", "/opt/bin/yt-dlp")
	t.Setenv("COOKIES_FILE", "/secrets/cookies.txt")
	t.Setenv("LEXIMI_PLAYLIST_ID", "PLother")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.YtDlp.Binary != "/opt/bin/yt-dlp" {
		t.Fatalf("expected env binary, got %q", cfg.YtDlp.Binary)
	}
	if cfg.YtDlp.CookiesFile != "/secrets/cookies.txt" {
		t.Fatalf("expected env cookies file, got %q", cfg.YtDlp.CookiesFile)
	}
	if cfg.Feed.PlaylistID != "PLother" {
		t.Fatalf("expected env playlist id, got %q", cfg.Feed.PlaylistID)
	}
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEXIMI_YTDLP", "/opt/bin/yt-dlp")
	dir := t.TempDir()
	path := filepath.Join(dir, "leximi.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"

[ytdlp]
binary = "/usr/bin/yt-dlp"
min_interval_ms = 0

[audio]
extension = ".M4A"
max_downloads = 5

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if cfg.YtDlp.Binary != "/usr/bin/yt-dlp" {
		t.Fatalf("file value must win over env, got %q", cfg.YtDlp.Binary)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("unexpected data dir %q", cfg.Paths.DataDir)
	}
	if cfg.Audio.Extension != "m4a" || cfg.Audio.MaxDownloads != 5 {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
	if cfg.MinInterval() != 0 {
		t.Fatalf("expected no pacing, got %s", cfg.MinInterval())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[feed]\nplaylist = \"typo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidateReportsKey(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		key    string
	}{
		{"feed url", func(c *config.Config) { c.Feed.BaseURL = "ftp://x" }, "feed.base_url"},
		{"feed timeout", func(c *config.Config) { c.Feed.TimeoutSeconds = 0 }, "feed.timeout_seconds"},
		{"interval", func(c *config.Config) { c.YtDlp.MinIntervalMillis = -1 }, "ytdlp.min_interval_ms"},
		{"extension", func(c *config.Config) { c.Audio.Extension = "we/bm" }, "audio.extension"},
		{"max downloads", func(c *config.Config) { c.Audio.MaxDownloads = -2 }, "audio.max_downloads"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"data dir", func(c *config.Config) { c.Paths.DataDir = "" }, "paths.data_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Feed.PlaylistID = "PL"
			cfg.YtDlp.Binary = "yt-dlp"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("expected error naming %s, got %v", tt.key, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample does not load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		DataDir:  filepath.Join(base, "data"),
		AudioDir: filepath.Join(base, "audio"),
		StateDir: filepath.Join(base, "state"),
		LogDir:   filepath.Join(base, "logs"),
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.AudioDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
