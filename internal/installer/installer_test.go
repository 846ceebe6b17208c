package installer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lushwind/surfboard/internal/backup"
	"github.com/lushwind/surfboard/internal/config"
	"github.com/lushwind/surfboard/internal/download"
	"github.com/lushwind/surfboard/internal/journal"
	"github.com/lushwind/surfboard/internal/release"
	"github.com/lushwind/surfboard/internal/sysintegration"
	"github.com/lushwind/surfboard/internal/testutil"
)

// newTestPaths returns a path set scoped to a scratch root with the
// launcher's parent directory already present, as /usr/local/bin would be.
func newTestPaths(t *testing.T) config.Paths {
	t.Helper()

	paths := config.PathsFromRoot(t.TempDir())
	if err := os.MkdirAll(filepath.Dir(paths.LauncherPath), 0o755); err != nil {
		t.Fatalf("create launcher dir: %v", err)
	}

	return paths
}

// newInstaller wires an installer for tests: quiet output, the current
// (unprivileged) user as tree owner, a fixed clock for backup stamps.
func newInstaller(t *testing.T, paths config.Paths, endpoint string, opts Options, stamp time.Time) *Installer {
	t.Helper()

	inst := New(paths, sysintegration.Integration{}, endpoint, opts)
	inst.out = io.Discard
	inst.uid = os.Getuid()
	inst.gid = os.Getgid()
	inst.now = func() time.Time { return stamp }

	return inst
}

// serveVersion builds a release archive for version and serves it,
// returning the metadata endpoint.
func serveVersion(t *testing.T, version string) string {
	t.Helper()

	archivePath := filepath.Join(t.TempDir(), "windsurf.tar.gz")
	testutil.BuildReleaseArchive(t, archivePath, version)
	srv := testutil.ReleaseServer(t, archivePath, version)

	return srv.URL + "/api/latest"
}

// installVersion runs one full install of version against paths.
func installVersion(t *testing.T, paths config.Paths, version string, stamp time.Time, opts Options) error {
	t.Helper()

	return newInstaller(t, paths, serveVersion(t, version), opts, stamp).Run(context.Background())
}

// snapshotTree records the mtime of every entry under root.
func snapshotTree(t *testing.T, root string) map[string]time.Time {
	t.Helper()

	snap := make(map[string]time.Time)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		snap[p] = info.ModTime()

		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}

	return snap
}

func TestRunFreshInstall(t *testing.T) {
	paths := newTestPaths(t)

	if err := installVersion(t, paths, "1.48.2", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Binary in place, executable
	info, err := os.Stat(paths.BinaryPath())
	if err != nil {
		t.Fatalf("stat binary: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o755 {
		t.Errorf("binary mode = %o, want 755", perm)
	}

	// Launcher symlink points into the install tree
	linkInfo, err := os.Lstat(paths.LauncherPath)
	if err != nil {
		t.Fatalf("lstat launcher: %v", err)
	}
	if linkInfo.Mode()&fs.ModeSymlink == 0 {
		t.Error("launcher is not a symlink")
	}
	target, err := os.Readlink(paths.LauncherPath)
	if err != nil {
		t.Fatalf("readlink launcher: %v", err)
	}
	if target != paths.BinaryPath() {
		t.Errorf("launcher target = %s, want %s", target, paths.BinaryPath())
	}

	// Desktop descriptor interpolates version and launcher path
	testutil.AssertFileContains(t, paths.DesktopFile, "Comment=Windsurf IDE 1.48.2")
	testutil.AssertFileContains(t, paths.DesktopFile, "Exec="+paths.LauncherPath+" %F")

	// Version marker matches the resolved version
	version, err := release.ReadInstalledVersion(paths.VersionMarkerPath())
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if version != "1.48.2" {
		t.Errorf("marker = %s, want 1.48.2", version)
	}

	// Icon copied out of the release tree
	testutil.AssertFileContent(t, paths.IconFile(), "png-bytes")

	// Scratch directory cleaned up
	testutil.AssertFileNotExists(t, paths.ScratchDir)

	// Journal holds one successful install record
	records, err := journal.Load(paths.JournalPath())
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("journal has %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Operation != journal.OperationInstall || rec.Outcome != journal.OutcomeSuccess {
		t.Errorf("journal record = %s/%s, want install/success", rec.Operation, rec.Outcome)
	}
	if rec.Version != "1.48.2" {
		t.Errorf("journal version = %s, want 1.48.2", rec.Version)
	}
	if len(rec.Steps) == 0 || rec.Steps[0].Name != "backup" || rec.Steps[0].State != journal.StateSkipped {
		t.Errorf("first journal step = %+v, want skipped backup", rec.Steps)
	}
}

func TestRunFlattensArchiveWrapper(t *testing.T) {
	paths := newTestPaths(t)

	if err := installVersion(t, paths, "1.48.2", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	testutil.AssertFileNotExists(t, filepath.Join(paths.InstallDir, "Windsurf"))
	testutil.AssertFileExists(t, filepath.Join(paths.InstallDir, "resources", "app", "product.json"))
}

func TestRunIdempotent(t *testing.T) {
	paths := newTestPaths(t)
	endpoint := serveVersion(t, "1.48.2")

	first := newInstaller(t, paths, endpoint, Options{KeepBackups: 3}, time.Now())
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	root := filepath.Dir(filepath.Dir(paths.InstallDir)) // the scratch root
	before := snapshotTree(t, root)

	var buf bytes.Buffer
	second := newInstaller(t, paths, endpoint, Options{KeepBackups: 3}, time.Now())
	second.out = &buf
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "already up to date") {
		t.Errorf("second run output = %q, want already up to date", buf.String())
	}

	after := snapshotTree(t, root)
	if len(after) != len(before) {
		t.Fatalf("second run changed the tree: %d entries before, %d after", len(before), len(after))
	}
	for p, mt := range before {
		got, ok := after[p]
		if !ok {
			t.Errorf("second run removed %s", p)

			continue
		}
		if !got.Equal(mt) {
			t.Errorf("second run touched %s", p)
		}
	}
}

func TestRunRejectsCorruptedDownload(t *testing.T) {
	paths := newTestPaths(t)

	archivePath := filepath.Join(t.TempDir(), "windsurf.tar.gz")
	testutil.BuildReleaseArchive(t, archivePath, "1.48.2")
	srv := testutil.ReleaseServer(t, archivePath, "1.48.2")
	wantDigest := testutil.FileSHA256(t, archivePath)

	// Flip one byte after the server captured the expected digest.
	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	data[len(data)/2] ^= 0x01
	if err := os.WriteFile(archivePath, data, 0o644); err != nil {
		t.Fatalf("rewrite archive: %v", err)
	}
	gotDigest := testutil.FileSHA256(t, archivePath)

	inst := newInstaller(t, paths, srv.URL+"/api/latest", Options{KeepBackups: 3}, time.Now())
	err = inst.Run(context.Background())
	if !errors.Is(err, download.ErrChecksumMismatch) {
		t.Fatalf("Run() error = %v, want ErrChecksumMismatch", err)
	}
	if !strings.Contains(err.Error(), wantDigest) || !strings.Contains(err.Error(), gotDigest) {
		t.Errorf("error %q should carry both digests", err.Error())
	}

	// Partial download deleted, nothing installed, nothing journaled
	testutil.AssertFileNotExists(t, filepath.Join(paths.ScratchDir, "windsurf.tar.gz"))
	testutil.AssertFileNotExists(t, paths.InstallDir)
	records, err := journal.Load(paths.JournalPath())
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("journal has %d records, want 0", len(records))
	}
}

func TestRunBackupRetention(t *testing.T) {
	paths := newTestPaths(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	versions := []string{"1.0.0", "1.0.1", "1.0.2", "1.0.3", "1.0.4"}
	for n, version := range versions {
		stamp := base.Add(time.Duration(n) * time.Minute)
		if err := installVersion(t, paths, version, stamp, Options{KeepBackups: 3}); err != nil {
			t.Fatalf("install %s: %v", version, err)
		}
	}

	backups, err := backup.NewManager(paths.InstallDir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// Four upgrades made four backups; retention keeps the three newest.
	wantStamps := []string{"20260501120400", "20260501120300", "20260501120200"}
	if len(backups) != len(wantStamps) {
		t.Fatalf("%d backups remain, want %d", len(backups), len(wantStamps))
	}
	for n, want := range wantStamps {
		if backups[n].Stamp != want {
			t.Errorf("backups[%d].Stamp = %s, want %s", n, backups[n].Stamp, want)
		}
	}

	version, err := release.ReadInstalledVersion(paths.VersionMarkerPath())
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if version != "1.0.4" {
		t.Errorf("marker = %s, want 1.0.4", version)
	}
}

func TestRunForceReinstalls(t *testing.T) {
	paths := newTestPaths(t)
	endpoint := serveVersion(t, "1.48.2")

	if err := newInstaller(t, paths, endpoint, Options{KeepBackups: 3}, time.Now()).Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	var buf bytes.Buffer
	inst := newInstaller(t, paths, endpoint, Options{KeepBackups: 3, Force: true}, time.Now().Add(time.Minute))
	inst.out = &buf
	if err := inst.Run(context.Background()); err != nil {
		t.Fatalf("forced Run() error = %v", err)
	}

	if !strings.Contains(buf.String(), "Reinstalling") {
		t.Errorf("forced run output = %q, want Reinstalling", buf.String())
	}

	backups, err := backup.NewManager(paths.InstallDir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("%d backups after forced reinstall, want 1", len(backups))
	}
}

func TestRunFailureLeavesBackupAside(t *testing.T) {
	paths := newTestPaths(t)
	if err := installVersion(t, paths, "1.0.0", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.0: %v", err)
	}

	// Checksum-valid bytes that are not a tarball: extraction fails after
	// the backup rename.
	badPath := filepath.Join(t.TempDir(), "windsurf.tar.gz")
	testutil.WriteFile(t, badPath, "this is not a gzip stream")
	srv := testutil.ReleaseServer(t, badPath, "1.0.1")

	stamp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	inst := newInstaller(t, paths, srv.URL+"/api/latest", Options{KeepBackups: 3}, stamp)
	err := inst.Run(context.Background())
	if err == nil {
		t.Fatal("Run() expected extraction error")
	}
	if !strings.Contains(err.Error(), "archive kept at") {
		t.Errorf("error %q should point at the kept archive", err.Error())
	}

	// The documented gap: old install stays renamed aside, nothing in place.
	testutil.AssertFileNotExists(t, paths.InstallDir)
	testutil.AssertFileExists(t, filepath.Join(paths.ScratchDir, "windsurf.tar.gz"))

	backups, listErr := backup.NewManager(paths.InstallDir).List()
	if listErr != nil {
		t.Fatalf("List() error = %v", listErr)
	}
	if len(backups) != 1 || backups[0].Stamp != "20260501120000" {
		t.Fatalf("backups = %+v, want the one renamed install", backups)
	}
	marker := filepath.Join(backups[0].Path, config.VersionFileName)
	version, readErr := release.ReadInstalledVersion(marker)
	if readErr != nil || version != "1.0.0" {
		t.Errorf("backup marker = %q (%v), want 1.0.0", version, readErr)
	}

	records, jErr := journal.Load(paths.JournalPath())
	if jErr != nil {
		t.Fatalf("load journal: %v", jErr)
	}
	last := records[len(records)-1]
	if last.Outcome != journal.OutcomeFailed {
		t.Errorf("journal outcome = %s, want %s", last.Outcome, journal.OutcomeFailed)
	}
}

func TestRunRollbackRestoresPreviousInstall(t *testing.T) {
	paths := newTestPaths(t)
	if err := installVersion(t, paths, "1.0.0", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.0: %v", err)
	}

	badPath := filepath.Join(t.TempDir(), "windsurf.tar.gz")
	testutil.WriteFile(t, badPath, "this is not a gzip stream")
	srv := testutil.ReleaseServer(t, badPath, "1.0.1")

	inst := newInstaller(t, paths, srv.URL+"/api/latest",
		Options{KeepBackups: 3, Rollback: true}, time.Now().Add(time.Minute))
	if err := inst.Run(context.Background()); err == nil {
		t.Fatal("Run() expected extraction error")
	}

	// Previous version back in place and fully linked
	version, err := release.ReadInstalledVersion(paths.VersionMarkerPath())
	if err != nil || version != "1.0.0" {
		t.Errorf("marker = %q (%v), want 1.0.0", version, err)
	}
	if err := inst.Verify(); err != nil {
		t.Errorf("Verify() after rollback = %v", err)
	}

	backups, err := backup.NewManager(paths.InstallDir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("%d backups remain after rollback, want 0", len(backups))
	}

	records, err := journal.Load(paths.JournalPath())
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	last := records[len(records)-1]
	if last.Outcome != journal.OutcomeRolledBack {
		t.Errorf("journal outcome = %s, want %s", last.Outcome, journal.OutcomeRolledBack)
	}
}

func TestRunResolverFailure(t *testing.T) {
	paths := newTestPaths(t)

	archivePath := filepath.Join(t.TempDir(), "windsurf.tar.gz")
	testutil.BuildReleaseArchive(t, archivePath, "1.0.0")
	srv := testutil.ReleaseServer(t, archivePath, "1.0.0")
	endpoint := srv.URL + "/api/latest"
	srv.Close()

	inst := newInstaller(t, paths, endpoint, Options{KeepBackups: 3}, time.Now())
	err := inst.Run(context.Background())
	if !errors.Is(err, release.ErrResolveFailed) {
		t.Fatalf("Run() error = %v, want ErrResolveFailed", err)
	}

	testutil.AssertFileNotExists(t, paths.InstallDir)
}

func TestVerify(t *testing.T) {
	paths := newTestPaths(t)
	if err := installVersion(t, paths, "1.48.2", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	inst := newInstaller(t, paths, "", Options{}, time.Now())

	if err := inst.Verify(); err != nil {
		t.Fatalf("Verify() on a good install = %v", err)
	}

	// Deleting the launcher symlink after the install must fail the check.
	if err := os.Remove(paths.LauncherPath); err != nil {
		t.Fatalf("remove launcher: %v", err)
	}
	err := inst.Verify()
	if !errors.Is(err, ErrVerifyFailed) {
		t.Fatalf("Verify() error = %v, want ErrVerifyFailed", err)
	}
	if !strings.Contains(err.Error(), paths.LauncherPath) {
		t.Errorf("error %q should name the missing launcher", err.Error())
	}

	// A dangling symlink is just as broken as a missing one.
	if err := os.Symlink(filepath.Join(paths.InstallDir, "gone"), paths.LauncherPath); err != nil {
		t.Fatalf("create dangling symlink: %v", err)
	}
	if err := inst.Verify(); !errors.Is(err, ErrVerifyFailed) {
		t.Errorf("Verify() with dangling launcher = %v, want ErrVerifyFailed", err)
	}

	// Fix the launcher, break the descriptor.
	if err := os.Remove(paths.LauncherPath); err != nil {
		t.Fatalf("remove launcher: %v", err)
	}
	if err := os.Symlink(paths.BinaryPath(), paths.LauncherPath); err != nil {
		t.Fatalf("recreate launcher: %v", err)
	}
	if err := os.Remove(paths.DesktopFile); err != nil {
		t.Fatalf("remove descriptor: %v", err)
	}
	err = inst.Verify()
	if !errors.Is(err, ErrVerifyFailed) {
		t.Fatalf("Verify() error = %v, want ErrVerifyFailed", err)
	}
	if !strings.Contains(err.Error(), paths.DesktopFile) {
		t.Errorf("error %q should name the missing descriptor", err.Error())
	}
}

func TestUninstallKeepsBackups(t *testing.T) {
	paths := newTestPaths(t)
	if err := installVersion(t, paths, "1.0.0", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.0: %v", err)
	}
	if err := installVersion(t, paths, "1.0.1", time.Now().Add(time.Minute), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.1: %v", err)
	}

	inst := newInstaller(t, paths, "", Options{}, time.Now())
	if err := inst.Uninstall(context.Background(), false); err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}

	testutil.AssertFileNotExists(t, paths.InstallDir)
	testutil.AssertFileNotExists(t, paths.LauncherPath)
	testutil.AssertFileNotExists(t, paths.DesktopFile)
	testutil.AssertFileNotExists(t, paths.IconFile())

	backups, err := backup.NewManager(paths.InstallDir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("%d backups after uninstall, want 1", len(backups))
	}

	records, err := journal.Load(paths.JournalPath())
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	last := records[len(records)-1]
	if last.Operation != journal.OperationUninstall || last.Outcome != journal.OutcomeSuccess {
		t.Errorf("journal record = %s/%s, want uninstall/success", last.Operation, last.Outcome)
	}
	if last.Version != "1.0.1" {
		t.Errorf("journal version = %s, want 1.0.1", last.Version)
	}
}

func TestUninstallPurge(t *testing.T) {
	paths := newTestPaths(t)
	if err := installVersion(t, paths, "1.0.0", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.0: %v", err)
	}
	if err := installVersion(t, paths, "1.0.1", time.Now().Add(time.Minute), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.1: %v", err)
	}

	inst := newInstaller(t, paths, "", Options{}, time.Now())
	if err := inst.Uninstall(context.Background(), true); err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}

	testutil.AssertFileNotExists(t, paths.InstallDir)
	testutil.AssertFileNotExists(t, paths.StateDir)

	backups, err := backup.NewManager(paths.InstallDir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("%d backups after purge, want 0", len(backups))
	}
}

func TestRestoreAfterFailedInstall(t *testing.T) {
	paths := newTestPaths(t)
	if err := installVersion(t, paths, "1.0.0", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.0: %v", err)
	}

	badPath := filepath.Join(t.TempDir(), "windsurf.tar.gz")
	testutil.WriteFile(t, badPath, "this is not a gzip stream")
	srv := testutil.ReleaseServer(t, badPath, "1.0.1")

	inst := newInstaller(t, paths, srv.URL+"/api/latest", Options{KeepBackups: 3}, time.Now().Add(time.Minute))
	if err := inst.Run(context.Background()); err == nil {
		t.Fatal("Run() expected extraction error")
	}

	latest, err := backup.NewManager(paths.InstallDir).Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if err := inst.Restore(context.Background(), latest.Path); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	version, err := release.ReadInstalledVersion(paths.VersionMarkerPath())
	if err != nil || version != "1.0.0" {
		t.Errorf("marker = %q (%v), want 1.0.0", version, err)
	}
	if err := inst.Verify(); err != nil {
		t.Errorf("Verify() after restore = %v", err)
	}
	testutil.AssertFileContains(t, paths.DesktopFile, "Comment=Windsurf IDE 1.0.0")

	records, err := journal.Load(paths.JournalPath())
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	last := records[len(records)-1]
	if last.Operation != journal.OperationRestore || last.Outcome != journal.OutcomeSuccess {
		t.Errorf("journal record = %s/%s, want restore/success", last.Operation, last.Outcome)
	}
	if last.Version != "1.0.0" {
		t.Errorf("journal version = %s, want 1.0.0", last.Version)
	}
}

func TestRestoreRefusesWhenInstalled(t *testing.T) {
	paths := newTestPaths(t)
	if err := installVersion(t, paths, "1.0.0", time.Now(), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.0: %v", err)
	}
	if err := installVersion(t, paths, "1.0.1", time.Now().Add(time.Minute), Options{KeepBackups: 3}); err != nil {
		t.Fatalf("install 1.0.1: %v", err)
	}

	latest, err := backup.NewManager(paths.InstallDir).Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}

	inst := newInstaller(t, paths, "", Options{}, time.Now())
	if err := inst.Restore(context.Background(), latest.Path); err == nil {
		t.Error("Restore() expected error while an install is present")
	}
}
