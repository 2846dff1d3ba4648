// Package download fetches archives to local files, either in-process over
// HTTP or by delegating to wget.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
	"github.com/terassyi/drushgen/internal/installer/command"
)

// ProgressCallback is called during download to report progress.
// total is -1 if Content-Length is unknown.
type ProgressCallback func(downloaded, total int64)

// Fetcher fetches url into destPath, overwriting any existing file.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// httpFetcher downloads in-process with net/http.
type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a Fetcher that issues GET requests with client,
// or http.DefaultClient when client is nil.
func NewHTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpFetcher{client: client}
}

// Fetch streams the response body into destPath.tmp and renames it over
// destPath once complete, so a failed download leaves no partial archive.
// Progress goes to the callback stored in ctx, if any.
func (d *httpFetcher) Fetch(ctx context.Context, url, destPath string) error {
	slog.Debug("downloading file", "url", url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return dgErrors.NewNetworkError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dgErrors.NewHTTPError(url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	var body io.Reader = resp.Body
	if cb := CallbackFromContext(ctx); cb != nil {
		body = &progressReader{reader: resp.Body, total: resp.ContentLength, callback: cb}
	}

	if _, err := io.Copy(f, body); err != nil {
		return dgErrors.NewNetworkError(url, fmt.Errorf("failed to write file: %w", err))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	slog.Debug("download completed", "path", destPath)
	return nil
}

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressCallback
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		r.callback(r.downloaded, r.total)
	}
	return n, err
}

// wgetFetcher delegates downloads to wget.
type wgetFetcher struct {
	runner command.Runner
}

// NewWgetFetcher returns a Fetcher that runs `wget URL -O DEST`.
func NewWgetFetcher(runner command.Runner) Fetcher {
	return &wgetFetcher{runner: runner}
}

// Fetch runs wget. A non-zero exit status is returned as *errors.CommandError.
func (w *wgetFetcher) Fetch(ctx context.Context, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return w.runner.Run(ctx, "wget", url, "-O", destPath)
}
