package installer

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrVerifyFailed means the artifacts a successful run must leave behind
// were not all present.
var ErrVerifyFailed = errors.New("installer: post-install verification failed")

// Verify re-checks that the launcher symlink and the desktop descriptor
// exist. A dangling launcher symlink counts as missing.
func (i *Installer) Verify() error {
	var missing []string

	if _, err := os.Stat(i.paths.LauncherPath); err != nil {
		missing = append(missing, i.paths.LauncherPath)
	}
	if _, err := os.Stat(i.paths.DesktopFile); err != nil {
		missing = append(missing, i.paths.DesktopFile)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrVerifyFailed, strings.Join(missing, ", "))
	}

	return nil
}
