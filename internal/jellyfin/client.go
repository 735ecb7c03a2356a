package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/foyer/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	itemPageSize   = 100
	channelLimit   = 2000
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Client implements domain.CatalogClient against a Jellyfin server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	// Resolved once from /Users and reused for every user-scoped path.
	userID string
}

// NewClient creates a new Jellyfin API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetEndpoint rebinds the client to a new server URL and token.
// The memoized user id is dropped so it resolves against the new
// server on the next call.
func (c *Client) SetEndpoint(baseURL, token string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.token = token
	c.userID = ""
}

// doGet performs an authenticated GET with bounded retry on 5xx
func (c *Client) doGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Emby-Token", c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("jellyfin request failed", "error", err)
			return nil, domain.ErrServerOffline
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrAuthFailed
		}

		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("jellyfin server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"path", path,
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("jellyfin request error", "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("jellyfin request failed after retries", "error", lastErr, "path", path)
	return nil, lastErr
}

// doPost performs an authenticated POST without retry. Transport
// commands must not be re-sent on failure; the next poll reconciles.
func (c *Client) doPost(ctx context.Context, path string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ErrServerOffline
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrAuthFailed
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// resolveUserID returns the first user's id, resolving it once
func (c *Client) resolveUserID(ctx context.Context) (string, error) {
	if c.userID != "" {
		return c.userID, nil
	}

	body, err := c.doGet(ctx, "/Users", nil)
	if err != nil {
		return "", err
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return "", fmt.Errorf("failed to parse users: %w", err)
	}
	if len(users) == 0 {
		return "", fmt.Errorf("server reported no users")
	}

	c.userID = users[0].ID
	return c.userID, nil
}

// Items returns recent-first catalog items of one kind, capped at the
// page size.
func (c *Client) Items(ctx context.Context, kind domain.MediaKind) ([]domain.MediaItem, error) {
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("IncludeItemTypes", string(kind))
	query.Set("Recursive", "true")
	query.Set("SortBy", "DateCreated")
	query.Set("SortOrder", "Descending")
	query.Set("Limit", fmt.Sprint(itemPageSize))
	query.Set("Fields", "PrimaryImageAspectRatio,UserData,RunTimeTicks")

	body, err := c.doGet(ctx, fmt.Sprintf("/Users/%s/Items", userID), query)
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapItems(resp.Items), nil
}

// Seasons returns all seasons of a series
func (c *Client) Seasons(ctx context.Context, seriesID string) ([]domain.MediaItem, error) {
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("UserId", userID)
	query.Set("Fields", "PrimaryImageAspectRatio,UserData")

	body, err := c.doGet(ctx, fmt.Sprintf("/Shows/%s/Seasons", seriesID), query)
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapItems(resp.Items), nil
}

// Episodes returns the episodes of one season of a series
func (c *Client) Episodes(ctx context.Context, seriesID, seasonID string) ([]domain.MediaItem, error) {
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("UserId", userID)
	query.Set("SeasonId", seasonID)
	query.Set("Fields", "PrimaryImageAspectRatio,IndexNumber,Overview,UserData,RunTimeTicks")

	body, err := c.doGet(ctx, fmt.Sprintf("/Shows/%s/Episodes", seriesID), query)
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapItems(resp.Items), nil
}

// Channels returns the full Live TV channel collection
func (c *Client) Channels(ctx context.Context) ([]domain.MediaItem, error) {
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("UserId", userID)
	query.Set("Limit", fmt.Sprint(channelLimit))
	query.Set("Fields", "PrimaryImageAspectRatio,ChannelNumber")
	query.Set("SortBy", "ChannelNumber,SortName")

	body, err := c.doGet(ctx, "/LiveTv/Channels", query)
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapItems(resp.Items), nil
}

// Sessions returns all currently active remote sessions
func (c *Client) Sessions(ctx context.Context) ([]domain.RemoteSession, error) {
	body, err := c.doGet(ctx, "/Sessions", nil)
	if err != nil {
		return nil, err
	}

	var sessions []Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("failed to parse sessions: %w", err)
	}

	out := make([]domain.RemoteSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, mapSession(s))
	}
	return out, nil
}

// Play issues a play-now command for an item on a session
func (c *Client) Play(ctx context.Context, sessionID, itemID string) error {
	query := url.Values{}
	query.Set("ItemIds", itemID)
	query.Set("PlayCommand", "PlayNow")
	return c.doPost(ctx, fmt.Sprintf("/Sessions/%s/Playing?%s", sessionID, query.Encode()), nil)
}

// Stop halts playback on a session
func (c *Client) Stop(ctx context.Context, sessionID string) error {
	return c.doPost(ctx, fmt.Sprintf("/Sessions/%s/Playing/Stop", sessionID), nil)
}

// Command issues a transport command on a session. Seek targets are
// always absolute tick positions; skip offsets are computed by the
// caller before they reach the wire.
func (c *Client) Command(ctx context.Context, sessionID string, cmd domain.TransportCommand, value int64) error {
	switch cmd {
	case domain.CmdPlayPause:
		return c.doPost(ctx, fmt.Sprintf("/Sessions/%s/Playing/PlayPause", sessionID), nil)
	case domain.CmdStop:
		return c.Stop(ctx, sessionID)
	case domain.CmdNext:
		return c.doPost(ctx, fmt.Sprintf("/Sessions/%s/Playing/NextTrack", sessionID), nil)
	case domain.CmdPrev:
		return c.doPost(ctx, fmt.Sprintf("/Sessions/%s/Playing/PreviousTrack", sessionID), nil)
	case domain.CmdSeek:
		return c.doPost(ctx, fmt.Sprintf("/Sessions/%s/Playing/Seek?SeekPositionTicks=%d", sessionID, value), nil)
	case domain.CmdVolume:
		payload := fmt.Sprintf(`{"Arguments":{"Volume":%d}}`, value)
		return c.doPost(ctx, fmt.Sprintf("/Sessions/%s/Command/SetVolume", sessionID), strings.NewReader(payload))
	default:
		return fmt.Errorf("unknown transport command: %s", cmd)
	}
}

// ImageURL resolves the primary image URL for an item
func (c *Client) ImageURL(itemID, tag string) string {
	if tag == "" {
		return ""
	}
	return fmt.Sprintf("%s/Items/%s/Images/Primary?tag=%s", c.baseURL, itemID, tag)
}
