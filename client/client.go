// Package client is a small API client for the asset service: it fetches
// asset metadata and provides the download and preview helpers the web
// frontend implements in the browser.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Asset mirrors the service's asset response.
type Asset struct {
	ID            string   `json:"id"`
	PublicID      string   `json:"publicId"`
	SecureURL     string   `json:"secureUrl"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	Format        string   `json:"format"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Size          int64    `json:"size"`
	IsPublic      bool     `json:"isPublic"`
	Views         int64    `json:"views"`
	Downloads     int64    `json:"downloads"`
	FormattedSize string   `json:"formattedSize"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchAsset retrieves one asset's metadata by id.
func (c *Client) FetchAsset(ctx context.Context, id string) (*Asset, error) {
	url := fmt.Sprintf("%s/api/images/%s", c.BaseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset service returned %d: %s", resp.StatusCode, env.Message)
	}

	var asset Asset
	if err := json.Unmarshal(env.Data, &asset); err != nil {
		return nil, fmt.Errorf("failed to decode asset: %w", err)
	}

	return &asset, nil
}

// TrackDownload reports a completed download so the service can bump the
// counter. Best-effort: callers typically ignore the error.
func (c *Client) TrackDownload(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/api/images/%s/download", c.BaseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("asset service returned %d", resp.StatusCode)
	}
	return nil
}

// SuggestedFilename derives a download filename from the asset title and
// format, e.g. "Linear Algebra 2021.pdf" -> "linear-algebra-2021.pdf".
func SuggestedFilename(asset *Asset) string {
	name := strings.TrimSpace(strings.ToLower(asset.Title))
	var b strings.Builder
	lastDash := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "download"
	}
	if asset.Format == "" {
		return slug
	}
	return slug + "." + asset.Format
}
