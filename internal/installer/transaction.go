package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/lushwind/surfboard/internal/archive"
	"github.com/lushwind/surfboard/internal/desktop"
	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/journal"
	"github.com/lushwind/surfboard/internal/release"
)

// transaction runs the install steps in order, fail-fast. Past the backup
// rename there is no automatic undo unless rollback was requested: the
// renamed backup stays aside and the operator recovers by hand.
func (i *Installer) transaction(version, archivePath string, rec *journal.Record) (err error) {
	var backupPath string

	defer func() {
		if err == nil || backupPath == "" {
			return
		}
		if !i.opts.Rollback {
			fmt.Fprintln(i.out, display.WarningMsg("Install failed; previous version preserved at %s", backupPath))

			return
		}
		i.rollback(backupPath, rec)
	}()

	// Step 1: move any existing install aside, then rotate old backups.
	if _, statErr := os.Stat(i.paths.InstallDir); statErr == nil {
		rec.StepStarted("backup")
		backupPath, err = i.backups.Create(i.now())
		if err != nil {
			rec.StepFailed("backup", err)

			return err
		}
		rec.StepCompleted("backup")
		fmt.Fprintln(i.out, display.InfoMsg("Previous install moved to %s", backupPath))

		var removed []string
		if err = runStep(rec, "prune-backups", func() error {
			var pruneErr error
			removed, pruneErr = i.backups.Prune(i.opts.KeepBackups)

			return pruneErr
		}); err != nil {
			return err
		}
		if len(removed) > 0 {
			fmt.Fprintln(i.out, display.InfoMsg("Pruned %d old backups", len(removed)))
		}
	} else {
		rec.StepSkipped("backup", "no existing install")
	}

	// Step 2: clear stale artifacts from earlier installs.
	if err = runStep(rec, "clean-stale", func() error {
		return removeIfPresent(i.paths.LauncherPath, i.paths.DesktopFile, i.paths.IconFile())
	}); err != nil {
		return err
	}

	// Step 3: create the target directories.
	if err = runStep(rec, "create-dirs", func() error {
		return ensureDirs(i.paths.InstallDir, i.paths.IconDir, i.paths.ApplicationsDir())
	}); err != nil {
		return err
	}

	// Step 4: unpack, flattening the archive's wrapper directory. On
	// failure the archive stays in scratch so it can be examined.
	if err = runStep(rec, "extract", func() error {
		if exErr := archive.ExtractTarGz(archivePath, i.paths.InstallDir, 1); exErr != nil {
			return fmt.Errorf("%w (archive kept at %s)", exErr, archivePath)
		}

		return nil
	}); err != nil {
		return err
	}

	// Step 5: ownership and permissions over the whole tree.
	if err = runStep(rec, "ownership", func() error {
		return fixOwnership(i.paths.InstallDir, i.uid, i.gid)
	}); err != nil {
		return err
	}

	// Step 6: launcher symlink.
	if err = runStep(rec, "symlink", func() error {
		return os.Symlink(i.paths.BinaryPath(), i.paths.LauncherPath)
	}); err != nil {
		return err
	}

	// Step 7: version marker.
	if err = runStep(rec, "version-marker", func() error {
		return release.WriteInstalledVersion(i.paths.VersionMarkerPath(), version)
	}); err != nil {
		return err
	}

	// Step 8: icon. A release without the icon is a warning, not a failure.
	rec.StepStarted("icon")
	if iconErr := desktop.InstallIcon(i.paths.IconSource(), i.paths.IconFile()); iconErr != nil {
		if !errors.Is(iconErr, desktop.ErrIconMissing) {
			rec.StepFailed("icon", iconErr)
			err = iconErr

			return err
		}
		rec.StepSkipped("icon", iconErr.Error())
		fmt.Fprintln(i.out, display.WarningMsg("Icon not found in release, skipping"))
	} else {
		rec.StepCompleted("icon")
	}

	// Step 9: desktop descriptor.
	if err = runStep(rec, "desktop-entry", func() error {
		return desktop.NewEntry(version, i.paths.LauncherPath).Write(i.paths.DesktopFile)
	}); err != nil {
		return err
	}

	// Step 10: drop the scratch directory.
	if err = runStep(rec, "clean-scratch", func() error {
		return os.RemoveAll(i.paths.ScratchDir)
	}); err != nil {
		return err
	}

	return nil
}

// rollback removes whatever the failed run left behind, undoes the backup
// rename, and puts the integration artifacts back for the restored tree.
// Runs only when the operator opted in.
func (i *Installer) rollback(backupPath string, rec *journal.Record) {
	rec.StepStarted("rollback")

	fail := func(err error) {
		rec.StepFailed("rollback", err)
		fmt.Fprintln(i.out, display.ErrorMsg("Rollback failed: %v; backup remains at %s", err, backupPath))
	}

	if err := os.RemoveAll(i.paths.InstallDir); err != nil {
		fail(err)

		return
	}
	if err := i.backups.Restore(backupPath); err != nil {
		fail(err)

		return
	}
	version, err := release.ReadInstalledVersion(i.paths.VersionMarkerPath())
	if err != nil {
		version = ""
	}
	if err := i.relink(version); err != nil {
		fail(err)

		return
	}

	rec.StepCompleted("rollback")
	rec.Finish(journal.OutcomeRolledBack)
	fmt.Fprintln(i.out, display.WarningMsg("Install failed; previous version restored from %s", backupPath))
}

// fixOwnership applies the target ownership and rwxr-xr-x permissions to
// every entry under root. Symlinks are re-owned without being followed and
// keep their own mode bits.
func fixOwnership(root string, uid, gid int) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if err := unix.Lchown(path, uid, gid); err != nil {
				return fmt.Errorf("lchown %s: %w", path, err)
			}

			return nil
		}

		if err := os.Chown(path, uid, gid); err != nil {
			return fmt.Errorf("chown %s: %w", path, err)
		}
		if err := os.Chmod(path, 0o755); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}

		return nil
	})
}
