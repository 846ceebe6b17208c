package download

import "errors"

var (
	// ErrDownloadFailed is returned when fetching the release archive fails.
	ErrDownloadFailed = errors.New("download: fetch failed")

	// ErrChecksumMismatch is returned when the archive digest disagrees with
	// the resolved value.
	ErrChecksumMismatch = errors.New("download: checksum mismatch")
)
