// Package doctor inspects the host and the current Windsurf installation
// and reports everything that would trip up an install, restore, or
// uninstall run. All probes are read-only; the run lock is the only thing
// touched, and only to test whether another run holds it.
package doctor

import (
	"context"

	"github.com/lushwind/surfboard/internal/config"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

// Finding codes, one per probed concern. The severity carries the verdict.
const (
	CodeOS             = "OS"
	CodePackageManager = "PACKAGE_MANAGER"
	CodePrivileges     = "PRIVILEGES"
	CodeTool           = "TOOL"
	CodeInstall        = "INSTALL"
	CodeVersionMarker  = "VERSION_MARKER"
	CodeLauncher       = "LAUNCHER"
	CodeDesktopEntry   = "DESKTOP_ENTRY"
	CodeIcon           = "ICON"
	CodeBackups        = "BACKUPS"
	CodeJournal        = "JOURNAL"
	CodeRunLock        = "RUN_LOCK"
	CodeScratch        = "SCRATCH"
	CodeDiskSpace      = "DISK_SPACE"
)

// Options configures diagnostic behavior.
type Options struct {
	Strict bool // Treat warnings as errors
}

// Doctor runs diagnostic checks against one installation layout.
type Doctor struct {
	paths config.Paths
	sys   sysintegration.Integration
	tools []string
	opts  Options
}

// New creates a doctor for the given layout and probed host facilities.
func New(paths config.Paths, sys sysintegration.Integration, opts Options) *Doctor {
	return &Doctor{
		paths: paths,
		sys:   sys,
		tools: []string{"jq"},
		opts:  opts,
	}
}

// SetRequiredTools overrides the command-line tools the install procedure
// needs on PATH.
func (d *Doctor) SetRequiredTools(names []string) {
	d.tools = names
}

// Run executes every check and returns the aggregated result.
func (d *Doctor) Run(ctx context.Context) *Result {
	result := NewResult()

	d.checkPlatform(result)
	d.checkPrivileges(result)
	d.checkTools(result)
	d.checkInstallation(result)
	d.checkBackups(result)
	d.checkRunState(result)
	d.checkDiskSpace(ctx, result)

	// In strict mode, warnings make the environment unhealthy
	if d.opts.Strict && result.Warnings > 0 {
		result.Healthy = false
	}

	return result
}
