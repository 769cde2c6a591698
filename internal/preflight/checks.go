package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"leximi/internal/config"
	"leximi/internal/deps"
	"leximi/internal/feed"
)

// CheckFeed fetches the playlist feed once and reports how many items it lists.
func CheckFeed(ctx context.Context, cfg *config.Config) Result {
	const name = "Playlist feed"

	if strings.TrimSpace(cfg.Feed.PlaylistID) == "" {
		return Result{Name: name, Detail: "feed.playlist_id not set"}
	}
	client, err := feed.New(
		cfg.Feed.PlaylistID,
		feed.WithBaseURL(cfg.Feed.BaseURL),
		feed.WithUserAgent(cfg.Feed.UserAgent),
		feed.WithTimeout(cfg.FeedTimeout()),
	)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	items, err := client.FetchKnownItems(ctx)
	if err != nil {
		return Result{Name: name, Detail: summarizeFeedError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (%d items)", len(items))}
}

// CheckCookiesFile verifies the optional credential artifact is readable.
// An unset cookies file passes.
func CheckCookiesFile(path string) Result {
	const name = "Cookies file"

	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Passed: true, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external programs the config refers to.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}

func summarizeFeedError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out"
	}
	return err.Error()
}
