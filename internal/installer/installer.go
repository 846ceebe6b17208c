// Package installer orchestrates the Windsurf update procedure: resolve
// the latest release, gate on the installed version, fetch and verify the
// archive, run the install transaction, refresh desktop caches, and verify
// the result. The privilege and dependency checks run in the command layer
// before an Installer is built.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lushwind/surfboard/internal/backup"
	"github.com/lushwind/surfboard/internal/config"
	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/download"
	"github.com/lushwind/surfboard/internal/journal"
	"github.com/lushwind/surfboard/internal/log"
	"github.com/lushwind/surfboard/internal/release"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

// archiveName is the filename the release archive gets inside the scratch
// directory.
const archiveName = "windsurf.tar.gz"

// Options tune one run of the procedure.
type Options struct {
	KeepBackups int
	Rollback    bool // restore the renamed backup when a later step fails
	Force       bool // reinstall even when already up to date
}

// Installer drives the update procedure against an injected set of paths
// and a probed system integration.
type Installer struct {
	paths    config.Paths
	sys      sysintegration.Integration
	opts     Options
	resolver *release.Resolver
	fetcher  *download.Fetcher
	backups  *backup.Manager

	out io.Writer
	now func() time.Time

	// Ownership applied to the install tree. Zero values mean root.
	uid, gid int
}

// New builds an installer over the given paths and system integration.
func New(paths config.Paths, sys sysintegration.Integration, metadataURL string, opts Options) *Installer {
	return &Installer{
		paths:    paths,
		sys:      sys,
		opts:     opts,
		resolver: release.NewResolver(metadataURL),
		fetcher:  download.NewFetcher(),
		backups:  backup.NewManager(paths.InstallDir),
		out:      os.Stdout,
		now:      time.Now,
	}
}

// SetOutput redirects progress messages, which otherwise go to stdout.
func (i *Installer) SetOutput(w io.Writer) {
	i.out = w
}

// Run executes the update procedure end to end.
func (i *Installer) Run(ctx context.Context) error {
	fmt.Fprintln(i.out, display.InfoMsg("Resolving latest release"))
	meta, err := i.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	log.Debug("release resolved", log.Version(meta.Version))

	installed, err := release.ReadInstalledVersion(i.paths.VersionMarkerPath())
	if err != nil {
		return err
	}

	decision := release.Gate(installed, meta.Version)
	switch {
	case decision.UpToDate && !i.opts.Force:
		fmt.Fprintln(i.out, display.SuccessMsg("Windsurf %s is already up to date", meta.Version))

		return nil
	case decision.UpToDate:
		fmt.Fprintln(i.out, display.InfoMsg("Reinstalling Windsurf %s", meta.Version))
	case installed == "":
		fmt.Fprintln(i.out, display.InfoMsg("Installing Windsurf %s", meta.Version))
	case decision.Direction == "downgrade":
		fmt.Fprintln(i.out, display.WarningMsg("Downgrading from %s to %s", installed, meta.Version))
	default:
		fmt.Fprintln(i.out, display.InfoMsg("Upgrading from %s to %s", installed, meta.Version))
	}

	fmt.Fprintln(i.out, display.InfoMsg("Downloading Windsurf %s", meta.Version))
	archivePath := filepath.Join(i.paths.ScratchDir, archiveName)
	if err := i.fetcher.FetchVerified(ctx, meta.URL, archivePath, meta.SHA256); err != nil {
		return err
	}
	fmt.Fprintln(i.out, display.SuccessMsg("Checksum verified"))

	rec := journal.NewRecord(journal.OperationInstall, meta.Version)
	if err := i.transaction(meta.Version, archivePath, rec); err != nil {
		if rec.Outcome == "" {
			rec.Finish(journal.OutcomeFailed)
		}
		i.appendJournal(rec)

		return err
	}
	rec.Finish(journal.OutcomeSuccess)
	i.appendJournal(rec)

	i.sys.RefreshCaches(ctx, i.paths.IconDir, i.paths.ApplicationsDir())

	if err := i.Verify(); err != nil {
		return err
	}
	fmt.Fprintln(i.out, display.SuccessMsg("Windsurf %s installed", meta.Version))
	fmt.Fprint(i.out, display.FormatNextSteps([]display.NextStep{
		{Command: "windsurf", Description: "Launch the IDE"},
		{Command: "surfboard doctor", Description: "Check the install"},
	}))

	return nil
}

// appendJournal records the run, downgrading journal problems to warnings
// so they can never fail an otherwise good install.
func (i *Installer) appendJournal(rec *journal.Record) {
	if err := journal.Append(i.paths.JournalPath(), rec); err != nil {
		log.Warn("journal write failed", log.Err(err))
	}
}

// runStep executes one journaled step.
func runStep(rec *journal.Record, name string, fn func() error) error {
	rec.StepStarted(name)
	log.Debug("step started", log.Stage(name))
	if err := fn(); err != nil {
		rec.StepFailed(name, err)

		return err
	}
	rec.StepCompleted(name)

	return nil
}

// removeIfPresent removes each path, tolerating ones that are already gone.
func removeIfPresent(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}

	return nil
}

// ensureDirs creates each directory with standard permissions.
func ensureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}

	return nil
}
