package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/selfupdate"
)

const updateCheckInterval = 24 * time.Hour

// shouldCheckForUpdates reports whether a background release check is due.
// Dev builds and opted-out users never check.
func shouldCheckForUpdates() bool {
	if Version == "" || Version == "dev" || Version == "none" {
		return false
	}
	if os.Getenv("SURFBOARD_NO_UPDATE_NOTICE") != "" {
		return false
	}

	last, err := readLastUpdateCheck()
	if err == nil && time.Since(last) < updateCheckInterval {
		return false
	}

	return true
}

// checkForUpdatesInBackground looks for a newer surfboard release and
// prints a notice to stderr. Failures stay silent; the notice must never
// get in the way of the actual command.
func checkForUpdatesInBackground(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Stamp first so a failing endpoint is not retried on every command.
	_ = saveLastUpdateCheck(time.Now())

	st, err := selfupdate.NewChecker(os.Getenv("SURFBOARD_GITHUB_TOKEN")).Check(ctx, Version, false)
	if err != nil {
		return
	}

	fmt.Fprintf(os.Stderr, "\n%s surfboard %s is available (you have %s)\n",
		display.Info("→"), display.Bold(st.LatestVersion), display.Muted(st.CurrentVersion))
	fmt.Fprintf(os.Stderr, "%s Run 'surfboard selfupdate' to install\n", display.Muted("→"))
}

// updateCheckStatePath is the per-user marker holding the last check time.
func updateCheckStatePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "surfboard", "last-update-check"), nil
}

func readLastUpdateCheck() (time.Time, error) {
	path, err := updateCheckStatePath()
	if err != nil {
		return time.Time{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, err
	}

	return time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
}

func saveLastUpdateCheck(at time.Time) error {
	path, err := updateCheckStatePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(at.UTC().Format(time.RFC3339)+"\n"), 0o644)
}
