// Package help provides context-aware help for CLI commands.
package help

import (
	"os"

	"github.com/lushwind/surfboard/internal/backup"
	"github.com/lushwind/surfboard/internal/config"
	"github.com/lushwind/surfboard/internal/release"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

// Context holds the system state that determines command availability.
type Context struct {
	Elevated   bool
	Installed  bool
	Version    string
	HasBackups bool
}

// LoadContext inspects the system under the given paths. This is a
// lightweight probe for help display; it never mutates anything.
func LoadContext(paths config.Paths) *Context {
	ctx := &Context{Elevated: sysintegration.Elevated()}

	if _, err := os.Stat(paths.InstallDir); err == nil {
		ctx.Installed = true
	}

	if v, err := release.ReadInstalledVersion(paths.VersionMarkerPath()); err == nil {
		ctx.Version = v
	}

	backups, err := backup.NewManager(paths.InstallDir).List()
	if err == nil && len(backups) > 0 {
		ctx.HasBackups = true
	}

	return ctx
}
