package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lushwind/surfboard/internal/backup"
	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/journal"
	"github.com/lushwind/surfboard/internal/lock"
	"github.com/lushwind/surfboard/internal/release"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

// minFreeBytes is the free-space floor below which installs get risky:
// archive, unpacked tree, and retained backups all share one filesystem.
const minFreeBytes = 2 << 30

func (d *Doctor) checkPlatform(result *Result) {
	if runtime.GOOS != "linux" {
		result.AddError(CodeOS, fmt.Sprintf("unsupported operating system %q; Windsurf installs are Linux-only", runtime.GOOS))

		return
	}
	result.AddInfo(CodeOS, fmt.Sprintf("running on %s", d.sys.Platform.String()))

	if d.sys.PackageManager == sysintegration.None {
		result.AddWarningWithSuggestion(CodePackageManager,
			"no supported package manager (dnf, apt-get, pacman) found",
			"missing tools cannot be installed automatically")
	} else {
		result.AddInfo(CodePackageManager, fmt.Sprintf("package manager: %s", d.sys.PackageManager))
	}
}

func (d *Doctor) checkPrivileges(result *Result) {
	if sysintegration.Elevated() {
		result.AddInfo(CodePrivileges, "running with root privileges")

		return
	}

	result.AddInfoWithSuggestion(CodePrivileges,
		"not running as root",
		"install, uninstall, and restore need sudo")
}

func (d *Doctor) checkTools(result *Result) {
	for _, name := range d.tools {
		path, err := exec.LookPath(name)
		if err == nil {
			result.AddInfo(CodeTool, fmt.Sprintf("%s found at %s", name, path))

			continue
		}

		if d.sys.PackageManager == sysintegration.None {
			result.AddErrorWithSuggestion(CodeTool,
				fmt.Sprintf("required tool %q is missing", name),
				fmt.Sprintf("install %s manually; no package manager is available", name))
		} else {
			result.AddWarningWithSuggestion(CodeTool,
				fmt.Sprintf("required tool %q is missing", name),
				fmt.Sprintf("the next install will add it via %s", d.sys.PackageManager))
		}
	}
}

func (d *Doctor) checkInstallation(result *Result) {
	info, err := os.Stat(d.paths.InstallDir)
	if os.IsNotExist(err) {
		result.AddInfoWithSuggestion(CodeInstall,
			"Windsurf is not installed",
			"run 'sudo surfboard install'")
		d.checkOrphans(result)

		return
	}
	if err != nil {
		result.AddWarning(CodeInstall, fmt.Sprintf("cannot inspect %s: %v", d.paths.InstallDir, err))

		return
	}
	if !info.IsDir() {
		result.AddError(CodeInstall, fmt.Sprintf("install path %s is not a directory", d.paths.InstallDir))

		return
	}

	d.checkBinary(result)
	d.checkVersionMarker(result)
	d.checkLauncher(result)
	d.checkDesktopEntry(result)

	if _, err := os.Stat(d.paths.IconFile()); os.IsNotExist(err) {
		result.AddInfo(CodeIcon, "application icon is not installed")
	}
}

// checkOrphans looks for integration artifacts that outlived their install.
func (d *Doctor) checkOrphans(result *Result) {
	if _, err := os.Lstat(d.paths.LauncherPath); err == nil {
		result.AddWarningWithSuggestion(CodeLauncher,
			fmt.Sprintf("launcher %s exists but nothing is installed", d.paths.LauncherPath),
			"reinstall with 'sudo surfboard install' or remove the launcher")
	}
	if _, err := os.Stat(d.paths.DesktopFile); err == nil {
		result.AddWarningWithSuggestion(CodeDesktopEntry,
			fmt.Sprintf("desktop entry %s exists but nothing is installed", d.paths.DesktopFile),
			"reinstall with 'sudo surfboard install' or remove the entry")
	}
}

func (d *Doctor) checkBinary(result *Result) {
	binary := d.paths.BinaryPath()

	info, err := os.Stat(binary)
	if os.IsNotExist(err) {
		result.AddErrorWithSuggestion(CodeInstall,
			fmt.Sprintf("install tree has no %s binary", filepath.Base(binary)),
			"repair with 'sudo surfboard install --force'")

		return
	}
	if err != nil {
		result.AddWarning(CodeInstall, fmt.Sprintf("cannot inspect %s: %v", binary, err))

		return
	}

	if info.Mode()&0o111 == 0 {
		result.AddErrorWithSuggestion(CodeInstall,
			fmt.Sprintf("%s is not executable", binary),
			"repair with 'sudo surfboard install --force'")
	}
}

func (d *Doctor) checkVersionMarker(result *Result) {
	version, err := release.ReadInstalledVersion(d.paths.VersionMarkerPath())
	if err != nil {
		result.AddWarning(CodeVersionMarker, fmt.Sprintf("cannot read version marker: %v", err))

		return
	}
	if version == "" {
		result.AddWarningWithSuggestion(CodeVersionMarker,
			"install tree has no version marker; updates cannot detect the installed version",
			"repair with 'sudo surfboard install --force'")

		return
	}

	result.AddInfo(CodeVersionMarker, fmt.Sprintf("installed version: %s", version))
}

func (d *Doctor) checkLauncher(result *Result) {
	info, err := os.Lstat(d.paths.LauncherPath)
	if os.IsNotExist(err) {
		result.AddWarningWithSuggestion(CodeLauncher,
			fmt.Sprintf("launcher %s is missing", d.paths.LauncherPath),
			"repair with 'sudo surfboard install --force'")

		return
	}
	if err != nil {
		result.AddWarning(CodeLauncher, fmt.Sprintf("cannot inspect launcher: %v", err))

		return
	}

	if info.Mode()&os.ModeSymlink == 0 {
		result.AddWarning(CodeLauncher, fmt.Sprintf("launcher %s is not a symlink", d.paths.LauncherPath))

		return
	}

	target, err := os.Readlink(d.paths.LauncherPath)
	if err != nil {
		result.AddWarning(CodeLauncher, fmt.Sprintf("cannot read launcher target: %v", err))

		return
	}
	if target != d.paths.BinaryPath() {
		result.AddWarningWithSuggestion(CodeLauncher,
			fmt.Sprintf("launcher points at %s, expected %s", target, d.paths.BinaryPath()),
			"repair with 'sudo surfboard install --force'")

		return
	}

	result.AddInfo(CodeLauncher, fmt.Sprintf("launcher ok: %s", d.paths.LauncherPath))
}

func (d *Doctor) checkDesktopEntry(result *Result) {
	data, err := os.ReadFile(d.paths.DesktopFile)
	if os.IsNotExist(err) {
		result.AddWarningWithSuggestion(CodeDesktopEntry,
			fmt.Sprintf("desktop entry %s is missing", d.paths.DesktopFile),
			"repair with 'sudo surfboard install --force'")

		return
	}
	if err != nil {
		result.AddWarning(CodeDesktopEntry, fmt.Sprintf("cannot read desktop entry: %v", err))

		return
	}

	if !strings.Contains(string(data), "Exec="+d.paths.LauncherPath) {
		result.AddWarningWithSuggestion(CodeDesktopEntry,
			fmt.Sprintf("desktop entry does not launch %s", d.paths.LauncherPath),
			"repair with 'sudo surfboard install --force'")

		return
	}

	result.AddInfo(CodeDesktopEntry, fmt.Sprintf("desktop entry ok: %s", d.paths.DesktopFile))
}

func (d *Doctor) checkBackups(result *Result) {
	backups, err := backup.NewManager(d.paths.InstallDir).List()
	if err != nil {
		result.AddWarning(CodeBackups, fmt.Sprintf("cannot list backups: %v", err))

		return
	}
	if len(backups) == 0 {
		result.AddInfo(CodeBackups, "no backups present")

		return
	}

	result.AddInfo(CodeBackups, fmt.Sprintf("%d backup(s), newest from %s", len(backups), backups[0].Stamp))
}

func (d *Doctor) checkRunState(result *Result) {
	d.checkJournal(result)
	d.checkLock(result)
	d.checkScratch(result)
}

func (d *Doctor) checkJournal(result *Result) {
	records, err := journal.Load(d.paths.JournalPath())
	if err != nil {
		result.AddWarningWithSuggestion(CodeJournal,
			fmt.Sprintf("journal is unreadable: %v", err),
			"it is recreated on the next run")

		return
	}
	if len(records) == 0 {
		return
	}

	last := records[len(records)-1]
	switch {
	case last.FinishedAt.IsZero():
		result.AddWarningWithSuggestion(CodeJournal,
			fmt.Sprintf("the last %s run never finished", last.Operation),
			"check 'surfboard backups' and restore if Windsurf is broken")
	case last.Outcome == journal.OutcomeFailed:
		result.AddWarningWithSuggestion(CodeJournal,
			fmt.Sprintf("the last %s run failed", last.Operation),
			fmt.Sprintf("inspect it with: jq . %s", d.paths.JournalPath()))
	case last.Outcome == journal.OutcomeRolledBack:
		result.AddWarningWithSuggestion(CodeJournal,
			fmt.Sprintf("the last %s run failed and was rolled back", last.Operation),
			fmt.Sprintf("inspect it with: jq . %s", d.paths.JournalPath()))
	}
}

func (d *Doctor) checkLock(result *Result) {
	l := lock.New(d.paths.LockPath())

	held, err := l.TryLock()
	if err != nil {
		// Expected without root: the state dir is not writable.
		result.AddInfo(CodeRunLock, fmt.Sprintf("cannot probe the run lock: %v", err))

		return
	}
	if !held {
		result.AddInfo(CodeRunLock, "another surfboard run is in progress")

		return
	}

	_ = l.Unlock()
}

func (d *Doctor) checkScratch(result *Result) {
	entries, err := os.ReadDir(d.paths.ScratchDir)
	if err != nil || len(entries) == 0 {
		return
	}

	result.AddInfoWithSuggestion(CodeScratch,
		fmt.Sprintf("leftover download data in %s", d.paths.ScratchDir),
		"safe to delete; the next install replaces it")
}

func (d *Doctor) checkDiskSpace(ctx context.Context, result *Result) {
	// The install dir may not exist yet; measure the nearest ancestor.
	dir := d.paths.InstallDir
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}

	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		result.AddInfo(CodeDiskSpace, fmt.Sprintf("disk usage unavailable for %s: %v", dir, err))

		return
	}

	if usage.Free < minFreeBytes {
		result.AddWarningWithSuggestion(CodeDiskSpace,
			fmt.Sprintf("only %s free on %s", display.HumanSize(int64(usage.Free)), dir),
			"free space or prune backups with 'sudo surfboard backups --prune'")

		return
	}

	result.AddInfo(CodeDiskSpace, fmt.Sprintf("%s free on %s", display.HumanSize(int64(usage.Free)), dir))
}
