package desktop

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lushwind/surfboard/internal/testutil"
)

func TestRender(t *testing.T) {
	entry := NewEntry("1.48.2", "/usr/local/bin/windsurf")

	want := `[Desktop Entry]
Name=Windsurf
Comment=Windsurf IDE 1.48.2
Exec=/usr/local/bin/windsurf %F
Icon=windsurf
Terminal=false
Type=Application
Categories=Development;IDE;
StartupWMClass=Windsurf
`
	if got := entry.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestNewEntryDefaults(t *testing.T) {
	entry := NewEntry("1.0.0", "/usr/local/bin/windsurf")

	if entry.IconName != "windsurf" {
		t.Errorf("IconName = %s, want windsurf", entry.IconName)
	}
	if entry.WMClass != "Windsurf" {
		t.Errorf("WMClass = %s, want Windsurf", entry.WMClass)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "windsurf.desktop")
	entry := NewEntry("1.48.2", "/usr/local/bin/windsurf")

	if err := entry.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	testutil.AssertFileContent(t, path, entry.Render())

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("descriptor mode = %o, want 644", perm)
	}
}

func TestWriteMissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "windsurf.desktop")

	if err := NewEntry("1.0.0", "/usr/local/bin/windsurf").Write(path); err == nil {
		t.Error("Write() expected error when parent directory is missing")
	}
}

func TestInstallIcon(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "code.png")
	dst := filepath.Join(tmpDir, "windsurf.png")
	testutil.WriteFile(t, src, "png-bytes")

	if err := InstallIcon(src, dst); err != nil {
		t.Fatalf("InstallIcon() error = %v", err)
	}

	testutil.AssertFileContent(t, dst, "png-bytes")

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("icon mode = %o, want 644", perm)
	}
}

func TestInstallIconMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	dst := filepath.Join(tmpDir, "windsurf.png")

	err := InstallIcon(filepath.Join(tmpDir, "nope.png"), dst)
	if !errors.Is(err, ErrIconMissing) {
		t.Errorf("InstallIcon() error = %v, want ErrIconMissing", err)
	}

	testutil.AssertFileNotExists(t, dst)
}

func TestInstallIconOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "code.png")
	dst := filepath.Join(tmpDir, "windsurf.png")
	testutil.WriteFile(t, src, "new-bytes")
	testutil.WriteFile(t, dst, "old-bytes")

	if err := InstallIcon(src, dst); err != nil {
		t.Fatalf("InstallIcon() error = %v", err)
	}

	testutil.AssertFileContent(t, dst, "new-bytes")
}
