package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/backup"
	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/installer"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

var (
	restoreTimestamp string
	restoreYes       bool
)

var restoreCmd = &cobra.Command{
	Use:     "restore",
	Short:   "Restore a backed-up install",
	GroupID: "recovery",
	Long: `Restore moves a backup back into place as the live install and relinks
the launcher, icon and desktop entry. The newest backup is used unless
--timestamp picks a specific one (see 'surfboard backups').

The install directory must not exist; a failed install leaves the slot
empty, otherwise uninstall first.`,
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVar(&restoreTimestamp, "timestamp", "", "Backup timestamp to restore (default: newest)")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip confirmation prompt")
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := requireElevated(); err != nil {
		return err
	}

	mgr := backup.NewManager(cfg.Paths.InstallDir)

	var target *backup.Info
	var err error
	if restoreTimestamp != "" {
		target, err = mgr.Find(restoreTimestamp)
	} else {
		target, err = mgr.Latest()
	}
	if err != nil {
		return err
	}

	prompt := display.FormatConfirmation(fmt.Sprintf("This restores the backup from %s.", target.Stamp), []string{
		target.Path + " -> " + cfg.Paths.InstallDir,
	}, "")
	confirmed, err := confirmAction(strings.TrimSuffix(prompt, "\n"), restoreYes)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println(display.InfoMsg("Restore cancelled"))
		return nil
	}

	fl, err := acquireRunLock()
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	if err := buildInstaller(sysintegration.Probe(ctx), installer.Options{}).Restore(ctx, target.Path); err != nil {
		return err
	}

	if !quiet {
		display.PrintNextSteps("surfboard doctor - Verify the restored install")
	}

	return nil
}
