package installer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lushwind/surfboard/internal/desktop"
	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/journal"
	"github.com/lushwind/surfboard/internal/release"
)

// Restore puts a backup back in place as the live install and rebuilds its
// integration artifacts. Fails when an install is already present.
func (i *Installer) Restore(ctx context.Context, backupPath string) error {
	rec := journal.NewRecord(journal.OperationRestore, "")

	if err := runStep(rec, "restore", func() error {
		return i.backups.Restore(backupPath)
	}); err != nil {
		return i.failRun(rec, err)
	}

	// The restored tree carries its own version marker.
	version, err := release.ReadInstalledVersion(i.paths.VersionMarkerPath())
	if err != nil {
		version = ""
	}
	rec.Version = version

	if err := runStep(rec, "relink", func() error {
		return i.relink(version)
	}); err != nil {
		return i.failRun(rec, err)
	}

	rec.Finish(journal.OutcomeSuccess)
	i.appendJournal(rec)

	i.sys.RefreshCaches(ctx, i.paths.IconDir, i.paths.ApplicationsDir())

	if version != "" {
		fmt.Fprintln(i.out, display.SuccessMsg("Windsurf %s restored from %s", version, backupPath))
	} else {
		fmt.Fprintln(i.out, display.SuccessMsg("Windsurf restored from %s", backupPath))
	}

	return nil
}

// relink rebuilds the launcher symlink, icon, and desktop descriptor for
// the tree currently in place. A tree without an icon is tolerated.
func (i *Installer) relink(version string) error {
	if err := removeIfPresent(i.paths.LauncherPath); err != nil {
		return err
	}
	if err := os.Symlink(i.paths.BinaryPath(), i.paths.LauncherPath); err != nil {
		return fmt.Errorf("relink launcher: %w", err)
	}

	if err := ensureDirs(i.paths.IconDir, i.paths.ApplicationsDir()); err != nil {
		return err
	}
	if err := desktop.InstallIcon(i.paths.IconSource(), i.paths.IconFile()); err != nil &&
		!errors.Is(err, desktop.ErrIconMissing) {
		return err
	}

	return desktop.NewEntry(version, i.paths.LauncherPath).Write(i.paths.DesktopFile)
}
