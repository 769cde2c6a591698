package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

var extensionPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateYtDlp(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	for _, field := range []struct{ key, value string }{
		{"paths.data_dir", c.Paths.DataDir},
		{"paths.audio_dir", c.Paths.AudioDir},
		{"paths.state_dir", c.Paths.StateDir},
		{"paths.log_dir", c.Paths.LogDir},
	} {
		if field.value == "" {
			return fmt.Errorf("%s must be set", field.key)
		}
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.PlaylistID == "" {
		return errors.New("feed.playlist_id must be set")
	}
	u, err := url.Parse(c.Feed.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed.base_url must be an http(s) URL, got %q", c.Feed.BaseURL)
	}
	if c.Feed.TimeoutSeconds <= 0 {
		return errors.New("feed.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateYtDlp() error {
	if c.YtDlp.Binary == "" {
		return errors.New("ytdlp.binary must be set")
	}
	if c.YtDlp.TimeoutSeconds <= 0 {
		return errors.New("ytdlp.timeout_seconds must be positive")
	}
	if c.YtDlp.DownloadTimeoutSeconds <= 0 {
		return errors.New("ytdlp.download_timeout_seconds must be positive")
	}
	if c.YtDlp.MinIntervalMillis < 0 {
		return errors.New("ytdlp.min_interval_ms must be zero or positive")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if !extensionPattern.MatchString(c.Audio.Extension) {
		return fmt.Errorf("audio.extension must be alphanumeric, got %q", c.Audio.Extension)
	}
	if !extensionPattern.MatchString(c.Audio.Format) {
		return fmt.Errorf("audio.format must be alphanumeric, got %q", c.Audio.Format)
	}
	if c.Audio.MaxDownloads < 0 {
		return errors.New("audio.max_downloads must be zero (unlimited) or positive")
	}
	if c.Audio.Verify && c.Audio.FFprobeBinary == "" {
		return errors.New("audio.ffprobe_binary must be set when audio.verify is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
