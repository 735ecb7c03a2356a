package jellyseerr

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
	defaultTimeout = 10 * time.Second
	requestsPage   = 20
	popularCap     = 25
	posterBase     = "https://image.tmdb.org/t/p/w500"
)

// Client implements domain.RequestClient against a Jellyseerr server
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Jellyseerr API client. An empty URL or key
// yields a client whose every call reports ErrNotConfigured; callers
// degrade passively or surface it depending on the operation.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetEndpoint rebinds the client to a new server URL and key
func (c *Client) SetEndpoint(baseURL, apiKey string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	c.apiKey = strings.TrimSpace(apiKey)
}

func (c *Client) configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// doRequest performs an authenticated request against the v1 API
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	if !c.configured() {
		return nil, domain.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("jellyseerr request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode >= 300:
		c.logger.Error("jellyseerr request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return data, nil
}

// Search returns request candidates for a free-text query
func (c *Client) Search(ctx context.Context, query string) ([]domain.RequestRecord, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/search?query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapResults(resp.Results, ""), nil
}

// Discover returns the grouped discovery rows. Each row degrades to
// empty independently so one failed fetch does not blank the others.
func (c *Client) Discover(ctx context.Context) (domain.DiscoveryRows, error) {
	var rows domain.DiscoveryRows
	if !c.configured() {
		return rows, domain.ErrNotConfigured
	}

	rows.TrendingMovies = c.discoverRow(ctx, "/discover/movies", "movie")
	rows.TrendingSeries = c.discoverRow(ctx, "/discover/tv", "tv")

	// Interleave movies and series for the popular row.
	maxLen := len(rows.TrendingMovies)
	if len(rows.TrendingSeries) > maxLen {
		maxLen = len(rows.TrendingSeries)
	}
	for i := 0; i < maxLen && len(rows.PopularMixed) < popularCap; i++ {
		if i < len(rows.TrendingMovies) {
			rows.PopularMixed = append(rows.PopularMixed, rows.TrendingMovies[i])
		}
		if i < len(rows.TrendingSeries) && len(rows.PopularMixed) < popularCap {
			rows.PopularMixed = append(rows.PopularMixed, rows.TrendingSeries[i])
		}
	}

	return rows, nil
}

// discoverRow fetches one discovery endpoint, returning nil on failure
func (c *Client) discoverRow(ctx context.Context, path, kind string) []domain.RequestRecord {
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.logger.Warn("discovery fetch failed", "path", path, "error", err)
		return nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("discovery parse failed", "path", path, "error", err)
		return nil
	}

	return mapResults(resp.Results, kind)
}

// Requests returns the current request records, newest first
func (c *Client) Requests(ctx context.Context) ([]domain.RequestRecord, error) {
	path := fmt.Sprintf("/request?take=%d&skip=0&sort=added", requestsPage)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp requestsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	out := make([]domain.RequestRecord, 0, len(resp.Results))
	for _, r := range resp.Results {
		title := r.Media.Title
		if title == "" {
			title = r.Media.Name
		}
		if title == "" {
			title = "Unknown"
		}
		out = append(out, domain.RequestRecord{
			ID:        r.ID,
			MediaID:   r.Media.TmdbID,
			MediaKind: r.Type,
			Title:     title,
			Status:    mapStatus(r.Status, r.Media.Status),
			PosterURL: posterURL(r.Media.PosterPath),
		})
	}
	return out, nil
}

// Submit files a new request for a media identity
func (c *Client) Submit(ctx context.Context, mediaID int, mediaKind string) error {
	payload := fmt.Sprintf(`{"mediaId":%d,"mediaType":%q,"is4k":false}`, mediaID, mediaKind)
	_, err := c.doRequest(ctx, http.MethodPost, "/request", strings.NewReader(payload))
	return err
}

// Status pings the service and returns its reported version
func (c *Client) Status(ctx context.Context) (string, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return "", err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.Version, nil
}

// mapResults converts candidate payloads to request records.
// kindOverride forces the media kind for endpoints that do not report
// one per item.
func mapResults(results []result, kindOverride string) []domain.RequestRecord {
	out := make([]domain.RequestRecord, 0, len(results))
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = r.Name
		}
		if title == "" {
			title = "Unknown"
		}
		kind := r.MediaType
		if kindOverride != "" {
			kind = kindOverride
		}
		rec := domain.RequestRecord{
			ID:        r.ID,
			MediaID:   r.ID, // search/discover ids are TMDB ids
			MediaKind: kind,
			Title:     title,
			PosterURL: posterURL(r.PosterPath),
		}
		if r.MediaInfo != nil {
			rec.Status = mapStatus(0, r.MediaInfo.Status)
		}
		out = append(out, rec)
	}
	return out
}

// mapStatus derives the lifecycle state from the request and media
// status codes. Media availability wins over request approval.
func mapStatus(requestStatus, mediaStatus int) domain.RequestStatus {
	switch mediaStatus {
	case mediaStatusAvailable:
		return domain.StatusAvailable
	case mediaStatusPartial:
		return domain.StatusDownloading
	case mediaStatusProcessing:
		return domain.StatusQueued
	}
	if requestStatus == requestStatusApproved {
		return domain.StatusApproved
	}
	return domain.StatusPending
}

// posterURL resolves a TMDB poster path to an absolute URL
func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterBase + path
}
