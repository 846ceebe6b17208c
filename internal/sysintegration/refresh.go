package sysintegration

import (
	"context"

	"github.com/lushwind/surfboard/internal/log"
)

// RefreshCaches asks the desktop environment to pick up the new entry and
// icon. Best-effort: absent tools are skipped silently, run failures are
// logged and never fatal.
func (s Integration) RefreshCaches(ctx context.Context, iconDir, applicationsDir string) {
	if s.HasIconCache {
		if _, err := runCommand(ctx, iconCacheTool, "-q", "-t", "-f", iconDir); err != nil {
			log.Debug("icon cache refresh failed", log.Err(err))
		}
	}

	if s.HasDesktopDB {
		if _, err := runCommand(ctx, desktopDBTool, "-q", applicationsDir); err != nil {
			log.Debug("desktop database refresh failed", log.Err(err))
		}
	}
}
