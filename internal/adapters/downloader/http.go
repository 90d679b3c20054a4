package downloader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"clipscraper/internal/core/domain"
	"clipscraper/internal/core/ports"
)

// HTTPDownloader implements ports.Downloader using standard HTTP.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader creates a new HTTPDownloader.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{
			Timeout: 30 * time.Minute, // Clips can be large
		},
	}
}

// NewHTTPDownloaderWithClient creates an HTTPDownloader around an existing client.
func NewHTTPDownloaderWithClient(client *http.Client) *HTTPDownloader {
	return &HTTPDownloader{client: client}
}

// Open starts streaming the video at videoURL.
// The clip CDN is public, so no auth headers are sent.
func (d *HTTPDownloader) Open(ctx context.Context, videoURL string) (*ports.Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "GET", URL: videoURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &domain.TransportError{Op: "GET", URL: videoURL, StatusCode: resp.StatusCode}
	}

	return &ports.Stream{Body: resp.Body, ContentLength: resp.ContentLength}, nil
}
