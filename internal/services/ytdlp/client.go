package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"leximi/internal/services"
)

const (
	// DefaultWatchURL is the page yt-dlp resolves a video id against.
	DefaultWatchURL = "https://www.youtube.com/watch?v="

	defaultChaptersTimeout = 2 * time.Minute
	defaultDownloadTimeout = 15 * time.Minute
	defaultAudioFormat     = "opus"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithCookiesFile passes a cookie jar to every invocation.
func WithCookiesFile(path string) Option {
	return func(c *Client) {
		c.cookiesFile = strings.TrimSpace(path)
	}
}

// WithRemoteComponents sets the --remote-components value (for example
// "ejs:github"). Empty disables the flag.
func WithRemoteComponents(value string) Option {
	return func(c *Client) {
		c.remoteComponents = strings.TrimSpace(value)
	}
}

// WithTimeouts bounds chapter lookups and downloads. Non-positive values keep
// the defaults.
func WithTimeouts(chapters, download time.Duration) Option {
	return func(c *Client) {
		if chapters > 0 {
			c.chaptersTimeout = chapters
		}
		if download > 0 {
			c.downloadTimeout = download
		}
	}
}

// WithMinInterval enforces a minimum spacing between invocations.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithAudioFormat overrides the --audio-format passed to downloads.
func WithAudioFormat(format string) Option {
	return func(c *Client) {
		if format = strings.TrimSpace(format); format != "" {
			c.audioFormat = format
		}
	}
}

// WithWatchURL overrides the URL prefix a video id is appended to.
func WithWatchURL(prefix string) Option {
	return func(c *Client) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			c.watchURL = prefix
		}
	}
}

// WithLogger routes tool output to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps yt-dlp invocations. Calls are sequential; the limiter only
// spaces them out.
type Client struct {
	binary           string
	cookiesFile      string
	remoteComponents string
	audioFormat      string
	watchURL         string
	chaptersTimeout  time.Duration
	downloadTimeout  time.Duration
	limiter          *rate.Limiter
	exec             Executor
	logger           *slog.Logger
}

// New constructs a yt-dlp client for the given binary path.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:          binary,
		audioFormat:     defaultAudioFormat,
		watchURL:        DefaultWatchURL,
		chaptersTimeout: defaultChaptersTimeout,
		downloadTimeout: defaultDownloadTimeout,
		exec:            commandExecutor{},
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary reports the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

// Chapters returns the raw chapter dump yt-dlp prints for videoID. The text is
// untrusted and is parsed by the chapters package.
func (c *Client) Chapters(ctx context.Context, videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", services.Wrap(services.ErrValidation, "ytdlp", "chapters", "video id required", nil)
	}
	args := []string{"--print", "%(chapters)s", "--no-download", "--ignore-errors"}
	args = append(args, c.commonArgs()...)
	args = append(args, c.watchURL+videoID)

	var lines []string
	err := c.run(ctx, c.chaptersTimeout, args, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return "", c.wrapRunError("chapters", videoID, err)
	}
	out := strings.TrimSpace(strings.Join(lines, "\n"))
	if out == "" {
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "chapters", "empty output for "+videoID, nil)
	}
	return out, nil
}

// DownloadAudio extracts the audio track of videoID into dir as base.<ext>.
// yt-dlp names the file after the audio format; a differing ext is applied by
// renaming afterwards. The returned path is the final file.
func (c *Client) DownloadAudio(ctx context.Context, videoID, dir, base, ext string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" || strings.TrimSpace(base) == "" {
		return "", services.Wrap(services.ErrValidation, "ytdlp", "download", "video id and file name required", nil)
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = c.audioFormat
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio directory: %w", err)
	}

	template := filepath.Join(dir, base+".%(ext)s")
	args := []string{"-x", "--audio-format", c.audioFormat}
	args = append(args, c.commonArgs()...)
	args = append(args, "-o", template, c.watchURL+videoID)

	logger := c.logger.With("video_id", videoID)
	if err := c.run(ctx, c.downloadTimeout, args, func(line string) {
		logger.Debug("yt-dlp output", "line", line)
	}); err != nil {
		return "", c.wrapRunError("download", videoID, err)
	}

	target := filepath.Join(dir, base+"."+ext)
	produced := filepath.Join(dir, base+"."+c.audioFormat)
	if produced != target {
		if _, err := os.Stat(produced); err == nil {
			if err := os.Rename(produced, target); err != nil {
				return "", fmt.Errorf("rename %s: %w", filepath.Base(produced), err)
			}
		}
	}
	if _, err := os.Stat(target); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download", "no output file for "+videoID, err)
	}
	return target, nil
}

// Version runs --version and returns the first line.
func (c *Client) Version(ctx context.Context) (string, error) {
	var first string
	err := c.run(ctx, 30*time.Second, []string{"--version"}, func(line string) {
		if first == "" {
			first = strings.TrimSpace(line)
		}
	})
	if err != nil {
		return "", c.wrapRunError("version", "", err)
	}
	return first, nil
}

func (c *Client) commonArgs() []string {
	var args []string
	if c.remoteComponents != "" {
		args = append(args, "--remote-components", c.remoteComponents)
	}
	if c.cookiesFile != "" {
		args = append(args, "--cookies", c.cookiesFile)
	}
	return args
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args []string, onStdout func(string)) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := c.exec.Run(runCtx, c.binary, args, onStdout)
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w after %s: %w", services.ErrTimeout, timeout, err)
	}
	return err
}

func (c *Client) wrapRunError(operation, videoID string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	message := "yt-dlp failed"
	if videoID != "" {
		message = "yt-dlp failed for " + videoID
	}
	return services.Wrap(services.ErrExternalTool, "ytdlp", operation, message, err)
}
