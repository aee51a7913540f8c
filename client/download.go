package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Download streams the asset's bytes from its resolved URL into w. It does
// nothing beyond the single GET: no progress, no buffering.
func (c *Client) Download(ctx context.Context, asset *Asset, w io.Writer) error {
	resp, err := c.openStream(ctx, asset)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("network error during download: %w", err)
	}
	return nil
}

// DownloadWithProgress streams the asset's bytes into w, calling onProgress
// with the completed fraction in [0,1] as data arrives. When the server does
// not report a length the callback receives -1.
func (c *Client) DownloadWithProgress(ctx context.Context, asset *Asset, w io.Writer, onProgress func(float64)) error {
	resp, err := c.openStream(ctx, asset)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader := &progressReader{
		r:          resp.Body,
		total:      resp.ContentLength,
		onProgress: onProgress,
	}

	if _, err := io.Copy(w, reader); err != nil {
		return fmt.Errorf("network error during download: %w", err)
	}

	if onProgress != nil && resp.ContentLength > 0 {
		onProgress(1)
	}
	return nil
}

func (c *Client) openStream(ctx context.Context, asset *Asset) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.SecureURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during download: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return resp, nil
}

type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	onProgress func(float64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		if p.onProgress != nil {
			if p.total > 0 {
				p.onProgress(float64(p.read) / float64(p.total))
			} else {
				p.onProgress(-1)
			}
		}
	}
	return n, err
}
