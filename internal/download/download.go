// Package download fetches release archives and guards their integrity.
//
// Verification is a hash comparison against a value obtained over the same
// channel as the download: it protects against transport corruption, not
// against a compromised metadata source.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Fetcher downloads release archives with integrity checking.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. The client carries no timeout; cancellation
// comes from ctx.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{}}
}

// Fetch downloads url to destPath, hashing the stream as it lands on disk.
// Returns the hex-encoded SHA-256 of the written bytes. A failed download
// removes the partial file.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: create scratch directory: %w", ErrDownloadFailed, err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %w", ErrDownloadFailed, err)
	}
	defer func() { _ = out.Close() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		_ = os.Remove(destPath)

		return "", fmt.Errorf("%w: create request: %w", ErrDownloadFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		_ = os.Remove(destPath)

		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_ = os.Remove(destPath)

		return "", fmt.Errorf("%w: unexpected status: %d", ErrDownloadFailed, resp.StatusCode)
	}

	// Calculate checksum while downloading
	hasher := sha256.New()
	writer := io.MultiWriter(out, hasher)

	if _, err := io.Copy(writer, resp.Body); err != nil {
		_ = os.Remove(destPath)

		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FetchVerified downloads url to destPath and verifies the digest against
// expectedSHA256. The comparison is exact and case-sensitive: the upstream
// API serves lowercase hex and anything else must not pass. On mismatch the
// downloaded file is removed and the error carries both values.
func (f *Fetcher) FetchVerified(ctx context.Context, url, destPath, expectedSHA256 string) error {
	digest, err := f.Fetch(ctx, url, destPath)
	if err != nil {
		return err
	}

	if digest != expectedSHA256 {
		_ = os.Remove(destPath)

		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, expectedSHA256, digest)
	}

	return nil
}
