package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/installer"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

var (
	uninstallPurge bool
	uninstallYes   bool
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall",
	Short:   "Remove Windsurf from the system",
	GroupID: "lifecycle",
	Long: `Uninstall removes the install tree, launcher symlink, desktop entry and
icon. Backups are kept unless --purge is given, which also removes the
journal, scratch space and retained backups.`,
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)

	uninstallCmd.Flags().BoolVar(&uninstallPurge, "purge", false, "Also remove backups, journal and scratch space")
	uninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "Skip confirmation prompt")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := requireElevated(); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Paths.InstallDir); os.IsNotExist(err) && !uninstallPurge {
		fmt.Print(display.NoInstallError())
		return errors.New("windsurf is not installed")
	}

	warning := ""
	if uninstallPurge {
		warning = "Backups, journal and scratch space go with it."
	}
	prompt := display.FormatConfirmation("This removes Windsurf from this system.", []string{
		cfg.Paths.InstallDir,
		cfg.Paths.LauncherPath,
		cfg.Paths.DesktopFile,
	}, warning)
	confirmed, err := confirmAction(strings.TrimSuffix(prompt, "\n"), uninstallYes)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println(display.InfoMsg("Uninstall cancelled"))
		return nil
	}

	fl, err := acquireRunLock()
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	return buildInstaller(sysintegration.Probe(ctx), installer.Options{}).Uninstall(ctx, uninstallPurge)
}
