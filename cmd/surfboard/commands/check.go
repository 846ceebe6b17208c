package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/release"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Check whether a Windsurf update is available",
	GroupID: "info",
	Long: `Check resolves the latest release and compares it against the installed
version without touching the system. It never downloads the archive and
needs no privileges.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sys := sysintegration.Probe(ctx)

	fmt.Println(display.Section("System"))
	fmt.Println(display.KeyValue("Platform", sys.Platform.String()))
	fmt.Println(display.KeyValue("Package manager", sys.PackageManager.String()))
	fmt.Println(display.KeyValue("Cache refresh", refreshSummary(sys)))

	installed, err := release.ReadInstalledVersion(cfg.Paths.VersionMarkerPath())
	if err != nil {
		return fmt.Errorf("read version marker: %w", err)
	}

	var meta *release.Metadata
	err = RunWithSpinner(verbose, "Resolving latest release", "Checking for updates", "Release metadata resolved", func() error {
		var rerr error
		meta, rerr = release.NewResolver(cfg.MetadataURL).Resolve(ctx)
		return rerr
	})
	if err != nil {
		return err
	}

	fmt.Println(display.Section("Windsurf"))
	if installed == "" {
		fmt.Println(display.KeyValue("Installed", "none"))
	} else {
		fmt.Print(display.FormatInstallInfo("Installed", display.InstallInfo{
			Version:      installed,
			InstallDir:   cfg.Paths.InstallDir,
			Launcher:     cfg.Paths.LauncherPath,
			DesktopEntry: cfg.Paths.DesktopFile,
		}))
	}
	fmt.Println(display.KeyValue("Latest", meta.Version))

	switch d := release.Gate(installed, meta.Version); {
	case d.UpToDate:
		fmt.Println(display.SuccessMsg("Windsurf is up to date"))
	case installed == "":
		fmt.Println(display.InfoMsg("Not installed; run 'sudo surfboard install'"))
	case d.Direction == "downgrade":
		fmt.Println(display.WarningMsg("Channel serves %s, older than the installed %s", meta.Version, installed))
	default:
		fmt.Println(display.InfoMsg("Update available; run 'sudo surfboard install'"))
	}

	return nil
}

// refreshSummary names the desktop cache tools found on the host.
func refreshSummary(sys sysintegration.Integration) string {
	tools := make([]string, 0, 2)
	if sys.HasDesktopDB {
		tools = append(tools, "desktop-database")
	}
	if sys.HasIconCache {
		tools = append(tools, "icon-cache")
	}
	if len(tools) == 0 {
		return "none"
	}

	return strings.Join(tools, ", ")
}
