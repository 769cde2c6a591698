package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"leximi/internal/services"
)

const (
	// DefaultBaseURL is YouTube's public Atom endpoint.
	DefaultBaseURL = "https://www.youtube.com/feeds/videos.xml"

	videoIDPrefix  = "yt:video:"
	maxFeedBytes   = 8 << 20
	defaultTimeout = 30 * time.Second
)

// Item is one entry of the playlist feed.
type Item struct {
	ID    string
	Title string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL overrides the feed endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = base
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// WithTimeout bounds a single fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Client reads the recent-items window of a playlist feed.
type Client struct {
	playlistID string
	baseURL    string
	userAgent  string
	timeout    time.Duration
	http       *http.Client
	parser     *gofeed.Parser
}

// New constructs a feed client for playlistID.
func New(playlistID string, opts ...Option) (*Client, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, errors.New("playlist id required")
	}
	c := &Client{
		playlistID: playlistID,
		baseURL:    DefaultBaseURL,
		timeout:    defaultTimeout,
		http:       &http.Client{},
		parser:     gofeed.NewParser(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the feed address for the configured playlist.
func (c *Client) URL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("playlist_id", c.playlistID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchKnownItems returns the items currently listed by the feed, in feed
// order. Entries without an id or title are skipped. Any transport, status or
// parse failure is reported as services.ErrFeedUnavailable.
func (c *Client) FetchKnownItems(ctx context.Context) ([]Item, error) {
	endpoint, err := c.URL()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "feed", "build url", "", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "build request", "", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	parsed, err := c.parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "parse", "", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil {
			continue
		}
		id := videoID(entry)
		title := strings.TrimSpace(entry.Title)
		if id == "" || title == "" {
			continue
		}
		items = append(items, Item{ID: id, Title: title})
	}
	return items, nil
}

// videoID prefers the yt:videoId extension and falls back to the entry GUID.
func videoID(entry *gofeed.Item) string {
	if ext, ok := entry.Extensions["yt"]; ok {
		for _, e := range ext["videoId"] {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
		}
	}
	if guid := strings.TrimSpace(entry.GUID); strings.HasPrefix(guid, videoIDPrefix) {
		return strings.TrimPrefix(guid, videoIDPrefix)
	}
	return ""
}
