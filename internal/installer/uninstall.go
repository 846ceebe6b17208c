package installer

import (
	"context"
	"fmt"
	"os"

	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/journal"
	"github.com/lushwind/surfboard/internal/release"
)

// Uninstall removes the install and its desktop integration. With purge it
// also drops all backups, the scratch directory, and surfboard's own state,
// journal included.
func (i *Installer) Uninstall(ctx context.Context, purge bool) error {
	installed, err := release.ReadInstalledVersion(i.paths.VersionMarkerPath())
	if err != nil {
		installed = ""
	}
	rec := journal.NewRecord(journal.OperationUninstall, installed)

	if err := runStep(rec, "remove-artifacts", func() error {
		return removeIfPresent(i.paths.LauncherPath, i.paths.DesktopFile, i.paths.IconFile())
	}); err != nil {
		return i.failRun(rec, err)
	}

	if err := runStep(rec, "remove-install", func() error {
		return os.RemoveAll(i.paths.InstallDir)
	}); err != nil {
		return i.failRun(rec, err)
	}

	if purge {
		if err := runStep(rec, "remove-backups", func() error {
			backups, listErr := i.backups.List()
			if listErr != nil {
				return listErr
			}
			for _, b := range backups {
				if rmErr := os.RemoveAll(b.Path); rmErr != nil {
					return rmErr
				}
			}

			return nil
		}); err != nil {
			return i.failRun(rec, err)
		}

		if err := runStep(rec, "remove-state", func() error {
			if rmErr := os.RemoveAll(i.paths.ScratchDir); rmErr != nil {
				return rmErr
			}

			return os.RemoveAll(i.paths.StateDir)
		}); err != nil {
			return err
		}
	}

	i.sys.RefreshCaches(ctx, i.paths.IconDir, i.paths.ApplicationsDir())

	// A purge removed the journal's own directory, so only the plain
	// uninstall records itself.
	if !purge {
		rec.Finish(journal.OutcomeSuccess)
		i.appendJournal(rec)
	}

	fmt.Fprintln(i.out, display.SuccessMsg("Windsurf removed"))

	return nil
}

// failRun finishes a record as failed, journals it, and passes the error
// through.
func (i *Installer) failRun(rec *journal.Record, err error) error {
	rec.Finish(journal.OutcomeFailed)
	i.appendJournal(rec)

	return err
}
