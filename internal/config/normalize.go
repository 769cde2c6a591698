package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFeed()
	if err := c.normalizeYtDlp(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(strings.TrimSpace(c.Paths.AudioDir)); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFeed() {
	c.Feed.PlaylistID = strings.TrimSpace(c.Feed.PlaylistID)
	if c.Feed.PlaylistID == "" {
		c.Feed.PlaylistID = envOr(envPlaylistID, defaultPlaylistID)
	}
	c.Feed.BaseURL = strings.TrimSpace(c.Feed.BaseURL)
	c.Feed.UserAgent = strings.TrimSpace(c.Feed.UserAgent)
}

func (c *Config) normalizeYtDlp() error {
	c.YtDlp.Binary = strings.TrimSpace(c.YtDlp.Binary)
	if c.YtDlp.Binary == "" {
		c.YtDlp.Binary = envOr(envYtDlp, defaultYtDlpBinary)
	}
	c.YtDlp.CookiesFile = strings.TrimSpace(c.YtDlp.CookiesFile)
	if c.YtDlp.CookiesFile == "" {
		c.YtDlp.CookiesFile = envOr(envCookies, "")
	}
	if c.YtDlp.CookiesFile != "" {
		expanded, err := expandPath(c.YtDlp.CookiesFile)
		if err != nil {
			return fmt.Errorf("ytdlp.cookies_file: %w", err)
		}
		c.YtDlp.CookiesFile = expanded
	}
	c.YtDlp.RemoteComponents = strings.TrimSpace(c.YtDlp.RemoteComponents)
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.Extension = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Audio.Extension), "."))
	if c.Audio.Extension == "" {
		c.Audio.Extension = defaultAudioExtension
	}
	c.Audio.Format = strings.ToLower(strings.TrimSpace(c.Audio.Format))
	if c.Audio.Format == "" {
		c.Audio.Format = defaultAudioFormat
	}
	c.Audio.FFprobeBinary = strings.TrimSpace(c.Audio.FFprobeBinary)
	if c.Audio.FFprobeBinary == "" {
		c.Audio.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
