// Package fetch retrieves the bundled data archive from remote storage.
// It is a collaborator of the engine, not part of it: it only supplies raw
// bytes plus an optional total-size hint for progress reporting.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"smartflow/internal/ingest"
)

// Client downloads data archives over HTTP.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates an archive download client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// TransferError represents a failed archive retrieval (non-2xx response or
// stream error). Fatal; the caller is expected to fall back to manual file
// entry.
type TransferError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *TransferError) Error() string {
	return e.Message
}

// FetchArchive downloads the archive at path (relative to BaseURL) and
// reports transfer progress. When the server sends no Content-Length the
// progress degrades to indeterminate (-1), never to a failure.
func (c *Client) FetchArchive(ctx context.Context, path string, progress ingest.ProgressFunc) ([]byte, error) {
	url := c.BaseURL + path

	// Check cache first (only if enabled for development).
	if cache := GetCache(); cache != nil {
		if cached, found := cache.Get(url); found {
			data := cached.([]byte)
			log.Printf("[fetch] Cache hit: %s (%d bytes)", url, len(data))
			progressFn(progress, 100, path)
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		log.Printf("[fetch] Request failed: %v (url=%s)", err, url)
		return nil, &TransferError{Code: "TRANSFER_FAILED", Message: err.Error()}
	}
	defer resp.Body.Close()

	log.Printf("[fetch] Response: %d %s (duration: %v, url=%s)",
		resp.StatusCode, resp.Status, time.Since(start), url)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransferError{
			StatusCode: resp.StatusCode,
			Code:       "BAD_STATUS",
			Message:    fmt.Sprintf("archive fetch returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	total := resp.ContentLength // -1 when the server sent no size hint
	progressFn(progress, pct(0, total), path)

	var data []byte
	buf := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := resp.Body.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			progressFn(progress, pct(int64(len(data)), total), path)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &TransferError{Code: "STREAM_ERROR", Message: err.Error()}
		}
	}
	progressFn(progress, 100, path)

	if cache := GetCache(); cache != nil {
		cache.SetDefault(url, data)
		log.Printf("[fetch] Cached archive (url=%s)", url)
	}
	return data, nil
}

func pct(done, total int64) float64 {
	if total <= 0 {
		return -1
	}
	p := float64(done) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

func progressFn(fn ingest.ProgressFunc, percent float64, detail string) {
	if fn != nil {
		fn(ingest.PhaseTransfer, percent, detail)
	}
}
