// Package jellyfin provides a small HTTP client for the Jellyfin server API,
// scoped to the session endpoints this service consumes.
package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/opd-ai/go-jf-snapshot/pkg/config"
)

// activeWithinSeconds is the freshness window passed to GET /Sessions.
// Sessions idle longer than this are not playback candidates.
const activeWithinSeconds = 90

// Client talks to a single Jellyfin server using API-key authentication.
// All outbound calls pass through a rate limiter so repeated API requests
// cannot hammer the media server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a Jellyfin client from the provided configuration.
func New(cfg *config.JellyfinConfig, logger *slog.Logger) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	interval := time.Minute / time.Duration(rpm)

	return &Client{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(interval), rpm),
		logger:  logger,
	}
}

// GetSessions returns the sessions active within the freshness window.
// A non-2xx response is returned as an error; callers decide whether that
// is fatal or just "no sessions".
func (c *Client) GetSessions(ctx context.Context) ([]Session, error) {
	params := url.Values{}
	params.Set("ActiveWithinSeconds", strconv.Itoa(activeWithinSeconds))

	var sessions []Session
	if err := c.get(ctx, "/Sessions", params, &sessions); err != nil {
		return nil, fmt.Errorf("fetching sessions: %w", err)
	}

	c.logger.Debug("Fetched sessions from Jellyfin", "count", len(sessions))
	return sessions, nil
}

// TestConnection probes the server's public system info endpoint.
// It performs no writes and is safe to call at startup.
func (c *Client) TestConnection(ctx context.Context) error {
	var info PublicSystemInfo
	if err := c.get(ctx, "/System/Info/Public", nil, &info); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	c.logger.Info("Connected to Jellyfin server",
		"server_name", info.ServerName,
		"version", info.Version)
	return nil
}

// get performs an authenticated GET against the server and decodes the JSON
// response body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("X-MediaBrowser-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return nil
}
