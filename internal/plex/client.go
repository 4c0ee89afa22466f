package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/TooEinfach/PlexSearch/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "PlexSearch/1.0"
	clientID       = "plexsearch-cli"

	// Page size for full-section listings
	pageSize = 200
)

// Plex numeric type filters for /search
var searchTypes = map[string]string{
	"movie":   "1",
	"show":    "2",
	"season":  "3",
	"episode": "4",
}

// Client implements domain.CatalogClient against a Plex Media Server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Plex API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated HTTP request
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", clientID)
	req.Header.Set("X-Plex-Product", "PlexSearch")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("plex request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("plex request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrSectionNotFound
	default:
		c.logger.Error("plex request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// parseResponse parses a JSON response into its MediaContainer
func (c *Client) parseResponse(body []byte) (*MediaContainer, error) {
	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp.MediaContainer, nil
}

// Libraries returns all library sections on the server
func (c *Client) Libraries(ctx context.Context) ([]domain.SectionDescriptor, error) {
	body, err := c.doRequest(ctx, "/library/sections", nil)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapSections(container.Directory), nil
}

// Search performs a server-wide search, optionally restricted to one media
// type. Unknown mediaType values are passed through unrestricted.
func (c *Client) Search(ctx context.Context, query, mediaType string) ([]domain.MediaItem, error) {
	params := url.Values{}
	params.Set("query", query)
	if t, ok := searchTypes[mediaType]; ok {
		params.Set("type", t)
	}

	body, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapItems(container.Metadata), nil
}

// SearchSection searches within a single library section
func (c *Client) SearchSection(ctx context.Context, sectionID, query string) ([]domain.MediaItem, error) {
	params := url.Values{}
	params.Set("query", query)

	path := fmt.Sprintf("/library/sections/%s/search", sectionID)
	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapItems(container.Metadata), nil
}

// SectionItems returns every item in a section, paging through the full
// listing. Enumerating a large section is slow, which is exactly why the
// snapshot cache exists.
func (c *Client) SectionItems(ctx context.Context, sectionID string) ([]domain.MediaItem, error) {
	path := fmt.Sprintf("/library/sections/%s/all", sectionID)

	var items []domain.MediaItem
	offset := 0
	for {
		query := url.Values{}
		query.Set("X-Plex-Container-Start", strconv.Itoa(offset))
		query.Set("X-Plex-Container-Size", strconv.Itoa(pageSize))

		body, err := c.doRequest(ctx, path, query)
		if err != nil {
			return nil, err
		}

		container, err := c.parseResponse(body)
		if err != nil {
			return nil, err
		}

		items = append(items, MapItems(container.Metadata)...)

		totalSize := container.TotalSize
		if totalSize == 0 {
			totalSize = container.Size // Fallback if TotalSize not provided
		}

		offset += len(container.Metadata)
		if offset >= totalSize || len(container.Metadata) == 0 {
			break
		}
	}

	return items, nil
}
