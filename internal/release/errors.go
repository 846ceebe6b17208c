package release

import "errors"

var (
	// ErrResolveFailed is returned when the metadata endpoint cannot be reached
	// or answers with a non-OK status.
	ErrResolveFailed = errors.New("release: metadata fetch failed")

	// ErrBadMetadata is returned when the metadata response is malformed or
	// missing required fields.
	ErrBadMetadata = errors.New("release: malformed metadata")
)
