package sysintegration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFakeTool installs an executable shell script into dir.
func writeFakeTool(t *testing.T, dir, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write fake tool %s: %v", name, err)
	}
}

// toolPath builds a PATH that resolves fake tools first but keeps the
// system directories for shell builtins used by the scripts.
func toolPath(fakeDir string) string {
	return fakeDir + string(os.PathListSeparator) + "/usr/bin" + string(os.PathListSeparator) + "/bin"
}

func TestDetectPackageManager_PriorityOrder(t *testing.T) {
	dir := t.TempDir()
	writeFakeTool(t, dir, "pacman", "#!/bin/sh\n")
	writeFakeTool(t, dir, "dnf", "#!/bin/sh\n")

	// Only the fake dir: detection must not see host package managers
	t.Setenv("PATH", dir)

	if pm := DetectPackageManager(); pm != Dnf {
		t.Errorf("DetectPackageManager = %q, want %q (dnf has priority)", pm, Dnf)
	}
}

func TestDetectPackageManager_AptOnly(t *testing.T) {
	dir := t.TempDir()
	writeFakeTool(t, dir, "apt-get", "#!/bin/sh\n")

	t.Setenv("PATH", dir)

	if pm := DetectPackageManager(); pm != Apt {
		t.Errorf("DetectPackageManager = %q, want %q", pm, Apt)
	}
}

func TestDetectPackageManager_None(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if pm := DetectPackageManager(); pm != None {
		t.Errorf("DetectPackageManager = %q, want None", pm)
	}
}

func TestPackageManagerString(t *testing.T) {
	tests := []struct {
		pm   PackageManager
		want string
	}{
		{Dnf, "dnf"},
		{Apt, "apt-get"},
		{Pacman, "pacman"},
		{None, "none"},
	}

	for _, tt := range tests {
		if got := tt.pm.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestInstallArgs(t *testing.T) {
	tests := []struct {
		pm   PackageManager
		want string
	}{
		{Dnf, "dnf install -y jq"},
		{Apt, "apt-get install -y jq"},
		{Pacman, "pacman -S --noconfirm jq"},
	}

	for _, tt := range tests {
		got := strings.Join(installArgs(tt.pm, "jq"), " ")
		if got != tt.want {
			t.Errorf("installArgs(%s) = %q, want %q", tt.pm, got, tt.want)
		}
	}
}

func TestInstallPackage_NoManager(t *testing.T) {
	err := InstallPackage(context.Background(), None, "jq")
	if err == nil {
		t.Error("InstallPackage should fail without a package manager")
	}
}

func TestInstallPackage_InvokesManager(t *testing.T) {
	dir := t.TempDir()
	// Record the argv the manager was called with
	writeFakeTool(t, dir, "dnf", "#!/bin/sh\necho \"$@\" > \"${0%/*}/invoked\"\n")

	t.Setenv("PATH", toolPath(dir))

	if err := InstallPackage(context.Background(), Dnf, "jq"); err != nil {
		t.Fatalf("InstallPackage: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "invoked"))
	if err != nil {
		t.Fatalf("manager was not invoked: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "install -y jq" {
		t.Errorf("manager argv = %q, want %q", got, "install -y jq")
	}
}

func TestInstallPackage_ManagerFailure(t *testing.T) {
	dir := t.TempDir()
	writeFakeTool(t, dir, "dnf", "#!/bin/sh\necho 'no such package' >&2\nexit 1\n")

	t.Setenv("PATH", toolPath(dir))

	err := InstallPackage(context.Background(), Dnf, "jq")
	if err == nil {
		t.Fatal("InstallPackage should propagate manager failure")
	}
	if !strings.Contains(err.Error(), "no such package") {
		t.Errorf("error = %q, want stderr content included", err)
	}
}

func TestEnsureTool_AlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	writeFakeTool(t, dir, "jq", "#!/bin/sh\n")

	t.Setenv("PATH", dir)

	s := Integration{PackageManager: None}
	if err := s.EnsureTool(context.Background(), "jq"); err != nil {
		t.Errorf("EnsureTool should succeed when tool is present: %v", err)
	}
}

func TestEnsureTool_NoManager(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	s := Integration{PackageManager: None}
	err := s.EnsureTool(context.Background(), "jq")
	if err == nil {
		t.Fatal("EnsureTool should fail without tool or package manager")
	}
	if !strings.Contains(err.Error(), "package manager") {
		t.Errorf("error = %q, want mention of package manager", err)
	}
}

func TestEnsureTool_InstallsViaManager(t *testing.T) {
	dir := t.TempDir()
	// Fake manager that drops the requested executable next to itself.
	// The tool name is synthetic so a host copy can never satisfy the probe.
	writeFakeTool(t, dir, "dnf", "#!/bin/sh\ndir=\"${0%/*}\"\necho '#!/bin/sh' > \"$dir/surfboard-fake-tool\"\nchmod 755 \"$dir/surfboard-fake-tool\"\n")

	t.Setenv("PATH", toolPath(dir))

	s := Integration{PackageManager: Dnf}
	if err := s.EnsureTool(context.Background(), "surfboard-fake-tool"); err != nil {
		t.Fatalf("EnsureTool: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "surfboard-fake-tool")); err != nil {
		t.Errorf("tool should have been installed: %v", err)
	}
}

func TestEnsureTool_StillMissingAfterInstall(t *testing.T) {
	dir := t.TempDir()
	// Manager succeeds but installs nothing
	writeFakeTool(t, dir, "dnf", "#!/bin/sh\nexit 0\n")

	t.Setenv("PATH", toolPath(dir))

	s := Integration{PackageManager: Dnf}
	err := s.EnsureTool(context.Background(), "surfboard-fake-tool")
	if err == nil {
		t.Error("EnsureTool should fail when the tool stays missing")
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	writeFakeTool(t, dir, "apt-get", "#!/bin/sh\n")
	writeFakeTool(t, dir, "update-desktop-database", "#!/bin/sh\n")

	t.Setenv("PATH", dir)

	s := Probe(context.Background())

	if s.PackageManager != Apt {
		t.Errorf("PackageManager = %q, want %q", s.PackageManager, Apt)
	}
	if !s.HasDesktopDB {
		t.Error("HasDesktopDB should be true")
	}
	if s.HasIconCache {
		t.Error("HasIconCache should be false")
	}
}

func TestProbe_BareSystem(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	s := Probe(context.Background())

	if s.PackageManager != None {
		t.Errorf("PackageManager = %q, want None", s.PackageManager)
	}
	if s.HasDesktopDB || s.HasIconCache {
		t.Error("refresh tools should be absent")
	}
}
