// Package download streams release archives into the cache and extracts them
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/constants"
	"github.com/bvm-cli/bvm/src/internal/ui"
)

// PartialSuffix marks a download that has not completed
const PartialSuffix = ".partial"

// ErrIncomplete is returned when the body ends before Content-Length bytes
var ErrIncomplete = errors.New("download ended early")

// Client downloads archives. Only connecting and waiting for response
// headers are time-bounded; the body streams for as long as it takes.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with connection and header timeouts
func NewClient() *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
	}
	return NewClientWithHTTP(&http.Client{Transport: transport})
}

// NewClientWithHTTP creates a Client over a custom HTTP client
func NewClientWithHTTP(client *http.Client) *Client {
	return &Client{httpClient: client}
}

// HTTPClient exposes the underlying client for other remote calls
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// IsCached reports whether path is a completed download. In-progress files
// live under a different name, so any non-empty file here is whole.
func IsCached(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Fetch downloads url to destPath. Bytes go to destPath+".partial" first;
// only a complete, synced body is renamed into place. Failures remove the
// partial file.
func (c *Client) Fetch(ctx context.Context, url, destPath string, observer Observer) (err error) {
	if observer == nil {
		observer = NopObserver{}
	}
	ui.Debug("Starting download: %s", url)
	ui.Debug("Destination: %s", destPath)

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	partial := destPath + PartialSuffix
	out, err := os.Create(partial)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(partial)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", constants.UserAgent)

	ui.Debug("Making HTTP GET request...")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		ui.Debug("HTTP request failed: %v", err)
		return apperr.Transient("downloading", fmt.Errorf("failed to connect: %w (URL: %s)", err, url))
	}
	defer func() { _ = resp.Body.Close() }()

	ui.Debug("HTTP response: %s", resp.Status)
	if resp.StatusCode != http.StatusOK {
		return apperr.Transient("downloading", fmt.Errorf("HTTP %s: %s", resp.Status, url))
	}

	size := resp.ContentLength
	ui.Debug("Content-Length: %d bytes", size)

	observer.Start(size)
	written, err := io.Copy(out, io.TeeReader(resp.Body, progressWriter{observer}))
	observer.Finish()
	if err != nil {
		ui.Debug("Download failed: %v", err)
		return apperr.Transient("downloading", err)
	}
	if size >= 0 && written != size {
		return apperr.Transient("downloading", fmt.Errorf("%w: got %d of %d bytes", ErrIncomplete, written, size))
	}

	if err := out.Sync(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Rename(partial, destPath); err != nil {
		return err
	}

	ui.Debug("Download complete: %s", destPath)
	return nil
}

type progressWriter struct {
	observer Observer
}

func (w progressWriter) Write(p []byte) (int, error) {
	w.observer.Advance(int64(len(p)))
	return len(p), nil
}
