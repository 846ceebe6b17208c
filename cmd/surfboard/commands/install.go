package commands

import (
	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/config"
	"github.com/lushwind/surfboard/internal/installer"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

var (
	installForce       bool
	installRollback    bool
	installKeepBackups int
)

var installCmd = &cobra.Command{
	Use:     "install",
	Aliases: []string{"update"},
	Short:   "Install or update Windsurf",
	GroupID: "lifecycle",
	Long: `Install downloads the latest Windsurf release, verifies its checksum, and
swaps it into place. An existing install is renamed to a timestamped backup
first; the newest backups are retained and older ones pruned.

Integrity checking is hash-only: the release endpoint publishes a SHA-256
digest, not a signature, so the download is trusted to exactly the degree
the HTTPS channel is.

When a step fails after the backup rename, the run stops and the backup is
left under <install-dir>_backup_<timestamp> for 'surfboard restore'. Pass
--rollback (or set install.rollback_on_failure) to restore it automatically
instead.`,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVar(&installForce, "force", false, "Reinstall even when already up to date")
	installCmd.Flags().BoolVar(&installRollback, "rollback", false, "Restore the backup when a later step fails")
	installCmd.Flags().IntVar(&installKeepBackups, "keep-backups", config.DefaultKeepBackups, "How many old installs to retain")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := requireElevated(); err != nil {
		return err
	}

	sys := sysintegration.Probe(ctx)
	if err := sys.EnsureTool(ctx, jsonTool); err != nil {
		return err
	}

	fl, err := acquireRunLock()
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	keep := cfg.Backups.Keep
	if cmd.Flags().Changed("keep-backups") {
		keep = installKeepBackups
	}

	inst := buildInstaller(sys, installer.Options{
		KeepBackups: keep,
		Rollback:    cfg.Install.RollbackOnFailure || installRollback,
		Force:       installForce,
	})

	return inst.Run(ctx)
}
