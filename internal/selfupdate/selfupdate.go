// Package selfupdate keeps the surfboard binary itself current from GitHub
// releases. This is separate from installing Windsurf: the release channel,
// versioning and swap mechanics are surfboard's own.
package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/google/go-github/v67/github"
	"golang.org/x/mod/semver"
	"golang.org/x/oauth2"
)

const (
	repoOwner = "lushwind"
	repoName  = "surfboard"
)

var (
	// ErrUpToDate is returned when the running binary is the newest release.
	ErrUpToDate = errors.New("selfupdate: already up to date")

	// ErrDevBuild is returned for binaries without a release version.
	ErrDevBuild = errors.New("selfupdate: dev build")

	// ErrAssetMissing is returned when the release has no binary for this
	// platform.
	ErrAssetMissing = errors.New("selfupdate: no release asset for this platform")
)

// Status describes the newest published release relative to the running
// binary.
type Status struct {
	CurrentVersion string
	LatestVersion  string
	AssetName      string
	AssetURL       string
	AssetSize      int64
	ChecksumsURL   string
	ReleaseURL     string
	ReleaseNotes   string
	PreRelease     bool
}

// Checker resolves the latest surfboard release from GitHub.
type Checker struct {
	client *github.Client
}

// NewChecker creates a checker. A token lifts the unauthenticated rate
// limit; empty is fine for occasional checks.
func NewChecker(token string) *Checker {
	var client *github.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	} else {
		client = github.NewClient(nil)
	}

	return &Checker{client: client}
}

// Check resolves the newest non-draft release and compares it against
// current. ErrUpToDate still carries a Status so callers can report the
// versions involved.
func (c *Checker) Check(ctx context.Context, current string, includePre bool) (*Status, error) {
	if current == "" || current == "dev" || current == "none" {
		return nil, ErrDevBuild
	}

	releases, _, err := c.client.Repositories.ListReleases(ctx, repoOwner, repoName, &github.ListOptions{
		PerPage: 10,
	})
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}

	// Releases come newest first; take the first one that qualifies.
	var latest *github.RepositoryRelease
	for _, r := range releases {
		if r.GetDraft() {
			continue
		}
		if !includePre && r.GetPrerelease() {
			continue
		}
		latest = r
		break
	}
	if latest == nil {
		return nil, errors.New("no published release found")
	}

	st := &Status{
		CurrentVersion: current,
		LatestVersion:  latest.GetTagName(),
		AssetName:      AssetName(),
		ReleaseURL:     latest.GetHTMLURL(),
		ReleaseNotes:   latest.GetBody(),
		PreRelease:     latest.GetPrerelease(),
	}

	if !newer(latest.GetTagName(), current) {
		return st, ErrUpToDate
	}

	for _, a := range latest.Assets {
		switch a.GetName() {
		case st.AssetName:
			st.AssetURL = a.GetBrowserDownloadURL()
			st.AssetSize = int64(a.GetSize())
		case "checksums.txt":
			st.ChecksumsURL = a.GetBrowserDownloadURL()
		}
	}
	if st.AssetURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrAssetMissing, st.AssetName)
	}

	return st, nil
}

// AssetName returns the release asset published for this platform.
func AssetName() string {
	return fmt.Sprintf("surfboard-%s-%s", runtime.GOOS, runtime.GOARCH)
}

// newer reports whether release tag a is a higher version than b. Tags may
// carry a v prefix; bad versions never count as newer.
func newer(a, b string) bool {
	va := "v" + strings.TrimPrefix(a, "v")
	vb := "v" + strings.TrimPrefix(b, "v")
	if !semver.IsValid(va) || !semver.IsValid(vb) {
		return false
	}

	return semver.Compare(va, vb) > 0
}
