package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/backup"
	"github.com/lushwind/surfboard/internal/display"
)

var (
	backupsPrune bool
	backupsYes   bool
)

var backupsCmd = &cobra.Command{
	Use:     "backups",
	Short:   "List retained install backups",
	GroupID: "recovery",
	Long: `Backups lists the timestamped copies of previous installs kept next to
the install directory, newest first. With --prune, backups beyond the
configured retention count are deleted.`,
	RunE: runBackups,
}

func init() {
	rootCmd.AddCommand(backupsCmd)

	backupsCmd.Flags().BoolVar(&backupsPrune, "prune", false, "Delete backups beyond the retention count")
	backupsCmd.Flags().BoolVarP(&backupsYes, "yes", "y", false, "Skip confirmation prompt")
}

func runBackups(cmd *cobra.Command, args []string) error {
	mgr := backup.NewManager(cfg.Paths.InstallDir)

	if backupsPrune {
		return pruneBackups(mgr)
	}

	list, err := mgr.List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	if len(list) == 0 {
		fmt.Println(display.InfoMsg("No backups found"))
		return nil
	}

	f := display.NewFormatter()
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		size := "?"
		if n, err := backup.DirSize(b.Path); err == nil {
			size = display.HumanSize(n)
		}
		rows = append(rows, []string{b.Stamp, f.Timestamp(b.ModTime), size, b.Path})
	}
	fmt.Println(f.Table([]string{"TIMESTAMP", "MODIFIED", "SIZE", "PATH"}, rows))

	return nil
}

func pruneBackups(mgr *backup.Manager) error {
	if err := requireElevated(); err != nil {
		return err
	}

	prompt := fmt.Sprintf("This deletes all but the %d newest backups.", cfg.Backups.Keep)
	confirmed, err := confirmAction(prompt, backupsYes)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println(display.InfoMsg("Prune cancelled"))
		return nil
	}

	fl, err := acquireRunLock()
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	removed, err := mgr.Prune(cfg.Backups.Keep)
	if err != nil {
		return fmt.Errorf("prune backups: %w", err)
	}
	if len(removed) == 0 {
		fmt.Println(display.InfoMsg("Nothing to prune; %d or fewer backups exist", cfg.Backups.Keep))
		return nil
	}
	fmt.Println(display.SuccessMsg("Removed %d old backups", len(removed)))

	return nil
}
