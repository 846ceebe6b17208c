package selfupdate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lushwind/surfboard/internal/download"
)

// Updater downloads a release asset and swaps it over the running binary.
type Updater struct {
	fetcher *download.Fetcher

	execPath func() (string, error)
}

// NewUpdater creates an updater for the running binary.
func NewUpdater() *Updater {
	return &Updater{
		fetcher:  download.NewFetcher(),
		execPath: os.Executable,
	}
}

// Download fetches the asset for st into a scratch directory, verifying it
// against the release checksums when they are published. Returns the path
// of the downloaded binary.
func (u *Updater) Download(ctx context.Context, st *Status) (string, error) {
	dir, err := os.MkdirTemp("", "surfboard-selfupdate-")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}

	path := filepath.Join(dir, st.AssetName)
	digest, err := u.fetcher.Fetch(ctx, st.AssetURL, path)
	if err != nil {
		return "", err
	}

	if st.ChecksumsURL != "" {
		sumsPath := filepath.Join(dir, "checksums.txt")
		if _, err := u.fetcher.Fetch(ctx, st.ChecksumsURL, sumsPath); err != nil {
			return "", fmt.Errorf("fetch checksums: %w", err)
		}
		content, err := os.ReadFile(sumsPath)
		if err != nil {
			return "", fmt.Errorf("read checksums: %w", err)
		}

		// GoReleaser checksums are lowercase hex but that is not contractual.
		want := ParseChecksums(string(content), st.AssetName)
		if want != "" && !strings.EqualFold(want, digest) {
			_ = os.Remove(path)

			return "", fmt.Errorf("checksum mismatch for %s: expected %s, got %s", st.AssetName, want, digest)
		}
	}

	return path, nil
}

// Apply replaces the running binary with the file at path. The swap is an
// atomic rename next to the target; the running process keeps its open
// file and new invocations get the new binary.
func (u *Updater) Apply(path string) error {
	self, err := u.execPath()
	if err != nil {
		return fmt.Errorf("locate running binary: %w", err)
	}

	// The download lands on a tmpfs more often than not; stage a copy next
	// to the target so the final rename never crosses filesystems.
	staged := self + ".new"
	if err := copyFile(path, staged, 0o755); err != nil {
		return fmt.Errorf("stage new binary: %w", err)
	}

	if err := os.Rename(staged, self); err != nil {
		_ = os.Remove(staged)

		return fmt.Errorf("swap binary: %w", err)
	}

	_ = os.Remove(path)

	return nil
}

// Writable reports whether the binary's directory accepts a swap, so
// callers can suggest sudo before downloading anything.
func (u *Updater) Writable() (bool, error) {
	self, err := u.execPath()
	if err != nil {
		return false, err
	}

	probe, err := os.CreateTemp(filepath.Dir(self), ".surfboard-update-")
	if err != nil {
		return false, nil
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return true, nil
}

// ParseChecksums finds the digest for asset in a "digest  name" checksums
// listing, tolerating the *name binary-mode form. Empty when absent.
func ParseChecksums(content, asset string) string {
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		if strings.TrimPrefix(fields[1], "*") == asset {
			return fields[0]
		}
	}

	return ""
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)

		return err
	}

	return out.Close()
}
