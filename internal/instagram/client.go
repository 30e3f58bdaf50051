package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultGraphAPIBase = "https://graph.instagram.com"
	defaultHTTPTimeout  = 10 * time.Second
	mediaFields         = "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp"
)

// Client reads media from the Instagram Graph API.
type Client struct {
	accessToken  string
	graphAPIBase string
	httpClient   *http.Client
}

// NewClient creates a new Graph API client.
func NewClient(accessToken string) *Client {
	return &Client{
		accessToken:  accessToken,
		graphAPIBase: defaultGraphAPIBase,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetGraphAPIBase overrides the Graph API base URL (useful for testing).
func (c *Client) SetGraphAPIBase(base string) {
	c.graphAPIBase = base
}

// RecentMedia returns up to limit of the account's newest posts.
func (c *Client) RecentMedia(ctx context.Context, limit int) ([]Post, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("instagram: access token not configured")
	}
	q := url.Values{}
	q.Set("fields", mediaFields)
	q.Set("access_token", c.accessToken)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := c.graphAPIBase + "/me/media?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram: fetch media: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("instagram: read response: %w", err)
	}

	var media mediaResponse
	if err := json.Unmarshal(body, &media); err != nil {
		return nil, fmt.Errorf("instagram: unmarshal response: %w", err)
	}
	if media.Error != nil {
		return nil, fmt.Errorf("instagram: API error %d: %s", media.Error.Code, media.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram: unexpected status %d", resp.StatusCode)
	}

	if limit > 0 && len(media.Data) > limit {
		media.Data = media.Data[:limit]
	}
	return media.Data, nil
}
