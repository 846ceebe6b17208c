package config

import (
	"os"
	"path/filepath"
)

// Filesystem layout of a Windsurf installation. The binary and icon names
// come from the upstream release archive and are not configurable.
const (
	BinaryName      = "windsurf"
	IconName        = "windsurf"
	VersionFileName = "version"

	// IconSourcePath is where the icon lives inside an unpacked release tree.
	IconSourcePath = "resources/app/resources/linux/code.png"
)

// Paths holds every filesystem location the installer touches. All commands
// receive a Paths value instead of reaching for hardcoded locations, so the
// whole procedure can run against a scratch root.
type Paths struct {
	// InstallDir is where the release tree is unpacked.
	InstallDir string `yaml:"install_dir"`

	// LauncherPath is the symlink users invoke.
	LauncherPath string `yaml:"launcher"`

	// DesktopFile is the desktop-integration entry.
	DesktopFile string `yaml:"desktop_file"`

	// IconDir receives the application icon.
	IconDir string `yaml:"icon_dir"`

	// ScratchDir is the transient download workspace.
	ScratchDir string `yaml:"scratch_dir"`

	// StateDir holds the install journal and the run lock.
	StateDir string `yaml:"state_dir"`
}

// DefaultPaths returns the standard system locations.
func DefaultPaths() Paths {
	return Paths{
		InstallDir:   "/opt/windsurf",
		LauncherPath: "/usr/local/bin/windsurf",
		DesktopFile:  "/usr/share/applications/windsurf.desktop",
		IconDir:      "/usr/share/pixmaps",
		ScratchDir:   filepath.Join(os.TempDir(), "windsurf-install"),
		StateDir:     "/var/lib/surfboard",
	}
}

// PathsFromRoot returns a Paths value with every location scoped under root.
// Used by tests to exercise the full procedure without touching the system.
func PathsFromRoot(root string) Paths {
	return Paths{
		InstallDir:   filepath.Join(root, "opt", "windsurf"),
		LauncherPath: filepath.Join(root, "bin", "windsurf"),
		DesktopFile:  filepath.Join(root, "applications", "windsurf.desktop"),
		IconDir:      filepath.Join(root, "pixmaps"),
		ScratchDir:   filepath.Join(root, "scratch"),
		StateDir:     filepath.Join(root, "state"),
	}
}

// BinaryPath returns the installed launcher binary inside the install tree.
func (p Paths) BinaryPath() string {
	return filepath.Join(p.InstallDir, BinaryName)
}

// VersionMarkerPath returns the persisted version marker file.
func (p Paths) VersionMarkerPath() string {
	return filepath.Join(p.InstallDir, VersionFileName)
}

// IconFile returns the installed icon location.
func (p Paths) IconFile() string {
	return filepath.Join(p.IconDir, IconName+".png")
}

// IconSource returns the icon location inside the unpacked install tree.
func (p Paths) IconSource() string {
	return filepath.Join(p.InstallDir, filepath.FromSlash(IconSourcePath))
}

// JournalPath returns the install journal file.
func (p Paths) JournalPath() string {
	return filepath.Join(p.StateDir, "journal.json")
}

// LockPath returns the advisory run-lock file.
func (p Paths) LockPath() string {
	return filepath.Join(p.StateDir, "surfboard.lock")
}

// ApplicationsDir returns the parent directory of the desktop entry.
func (p Paths) ApplicationsDir() string {
	return filepath.Dir(p.DesktopFile)
}
