// Package release resolves Windsurf release metadata and decides whether an
// install is needed.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Metadata is the release triple served by the update endpoint.
type Metadata struct {
	URL     string `json:"url"`
	Version string `json:"windsurfVersion"`
	SHA256  string `json:"sha256hash"`
}

// Resolver fetches release metadata from the update endpoint.
type Resolver struct {
	client   *http.Client
	endpoint string
}

// NewResolver creates a resolver against the given metadata endpoint.
// The client carries no timeout; cancellation comes from ctx.
func NewResolver(endpoint string) *Resolver {
	return &Resolver{
		client:   &http.Client{},
		endpoint: endpoint,
	}
}

// Resolve issues one GET to the metadata endpoint and decodes the release
// triple. No retries: a network or decode failure aborts the run.
func (r *Resolver) Resolve(ctx context.Context) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrResolveFailed, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status: %d", ErrResolveFailed, resp.StatusCode)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrBadMetadata, err)
	}

	if err := meta.validate(); err != nil {
		return nil, err
	}

	return &meta, nil
}

// validate rejects clearly malformed metadata. The upstream API is otherwise
// trusted; no shape checks beyond non-empty fields.
func (m *Metadata) validate() error {
	switch {
	case m.URL == "":
		return fmt.Errorf("%w: empty download url", ErrBadMetadata)
	case m.Version == "":
		return fmt.Errorf("%w: empty version", ErrBadMetadata)
	case m.SHA256 == "":
		return fmt.Errorf("%w: empty checksum", ErrBadMetadata)
	}

	return nil
}
