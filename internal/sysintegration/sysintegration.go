// Package sysintegration models the host facilities the installer depends
// on: elevated privileges, a system package manager, and the desktop
// cache-refresh utilities. Everything is probed once at startup and carried
// in an Integration value, so behavior never depends on mid-run PATH changes.
package sysintegration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/lushwind/surfboard/internal/log"
)

// Desktop cache-refresh utilities, optional on any given host.
const (
	desktopDBTool = "update-desktop-database"
	iconCacheTool = "gtk-update-icon-cache"
)

// Elevated reports whether the process runs with root privileges.
func Elevated() bool {
	return os.Geteuid() == 0
}

// PackageManager identifies a supported system package manager. The value
// is the binary name probed on PATH.
type PackageManager string

const (
	Dnf    PackageManager = "dnf"
	Apt    PackageManager = "apt-get"
	Pacman PackageManager = "pacman"
	None   PackageManager = ""
)

func (p PackageManager) String() string {
	if p == None {
		return "none"
	}

	return string(p)
}

// DetectPackageManager probes for a supported package manager, in fixed
// priority order.
func DetectPackageManager() PackageManager {
	for _, pm := range []PackageManager{Dnf, Apt, Pacman} {
		if _, err := exec.LookPath(string(pm)); err == nil {
			return pm
		}
	}

	return None
}

// installArgs builds the non-interactive install argv for a package manager.
func installArgs(pm PackageManager, pkg string) []string {
	switch pm {
	case Dnf:
		return []string{"dnf", "install", "-y", pkg}
	case Apt:
		return []string{"apt-get", "install", "-y", pkg}
	case Pacman:
		return []string{"pacman", "-S", "--noconfirm", pkg}
	default:
		return nil
	}
}

// InstallPackage installs a package through the given manager.
func InstallPackage(ctx context.Context, pm PackageManager, pkg string) error {
	args := installArgs(pm, pkg)
	if args == nil {
		return fmt.Errorf("no supported package manager (dnf, apt-get, pacman) found")
	}

	log.Info("installing package", "package", pkg, "manager", pm.String())
	if _, err := runCommand(ctx, args[0], args[1:]...); err != nil {
		return fmt.Errorf("install %s via %s: %w", pkg, pm, err)
	}

	return nil
}

// Integration captures which host facilities are available. Probe it once
// and inject it; commands never re-probe mid-run.
type Integration struct {
	PackageManager PackageManager
	HasDesktopDB   bool
	HasIconCache   bool
	Platform       Platform
}

// Probe inspects the host once and returns the integration strategy.
func Probe(ctx context.Context) Integration {
	s := Integration{
		PackageManager: DetectPackageManager(),
	}

	if _, err := exec.LookPath(desktopDBTool); err == nil {
		s.HasDesktopDB = true
	}
	if _, err := exec.LookPath(iconCacheTool); err == nil {
		s.HasIconCache = true
	}

	info, err := DetectPlatform(ctx)
	if err != nil {
		log.Debug("platform detection failed", log.Err(err))
	} else {
		s.Platform = info
	}

	return s
}

// EnsureTool verifies a command-line tool is on PATH, installing it through
// the probed package manager when missing.
func (s Integration) EnsureTool(ctx context.Context, name string) error {
	if _, err := exec.LookPath(name); err == nil {
		return nil
	}

	if s.PackageManager == None {
		return fmt.Errorf("required tool %q is missing and no supported package manager (dnf, apt-get, pacman) was found", name)
	}

	log.Info("installing missing dependency", "tool", name, "manager", s.PackageManager.String())
	if err := InstallPackage(ctx, s.PackageManager, name); err != nil {
		return err
	}

	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("tool %q still missing after install: %w", name, err)
	}

	return nil
}

// runCommand executes a system tool, returning stdout. Errors carry the
// trimmed stderr output when present.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			errMsg = err.Error()
		}

		return "", fmt.Errorf("%s", strings.TrimSpace(errMsg))
	}

	return stdout.String(), nil
}
