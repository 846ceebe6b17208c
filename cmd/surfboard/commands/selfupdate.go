package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/selfupdate"
)

var (
	selfupdatePre   bool
	selfupdateCheck bool
	selfupdateYes   bool
)

var selfupdateCmd = &cobra.Command{
	Use:     "selfupdate",
	Short:   "Update surfboard itself",
	GroupID: "lifecycle",
	Long: `Selfupdate replaces the surfboard binary with the latest GitHub release.

Only stable releases are considered unless --pre is given. The download is
verified against the release checksums and the binary is swapped atomically;
the next invocation runs the new version.

Set SURFBOARD_GITHUB_TOKEN to authenticate when rate limits bite.`,
	RunE: runSelfupdate,
}

func init() {
	rootCmd.AddCommand(selfupdateCmd)

	selfupdateCmd.Flags().BoolVar(&selfupdatePre, "pre", false, "Include pre-release versions")
	selfupdateCmd.Flags().BoolVar(&selfupdateCheck, "check", false, "Check for updates without installing")
	selfupdateCmd.Flags().BoolVarP(&selfupdateYes, "yes", "y", false, "Skip confirmation prompt")
}

func runSelfupdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	fmt.Println(display.InfoMsg("Checking for surfboard updates"))

	checker := selfupdate.NewChecker(os.Getenv("SURFBOARD_GITHUB_TOKEN"))
	st, err := checker.Check(ctx, Version, selfupdatePre)
	switch {
	case errors.Is(err, selfupdate.ErrUpToDate):
		fmt.Println(display.SuccessMsg("surfboard %s is up to date", st.CurrentVersion))
		return nil
	case errors.Is(err, selfupdate.ErrDevBuild):
		fmt.Println(display.WarningMsg("Dev build; selfupdate needs a released version"))
		return nil
	case err != nil:
		return fmt.Errorf("check for updates: %w", err)
	}

	fmt.Println(display.Section("Update available"))
	fmt.Println(display.KeyValue("Current", st.CurrentVersion))
	fmt.Println(display.KeyValue("Latest", st.LatestVersion))
	if st.ReleaseURL != "" {
		fmt.Println(display.KeyValue("Release", st.ReleaseURL))
	}
	if st.AssetSize > 0 {
		fmt.Println(display.KeyValue("Download", fmt.Sprintf("%s (%s)", st.AssetName, display.HumanSize(st.AssetSize))))
	}

	if selfupdateCheck {
		return nil
	}

	confirmed, err := confirmAction(fmt.Sprintf("Download and install %s?", st.LatestVersion), selfupdateYes)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println(display.InfoMsg("Update cancelled"))
		return nil
	}

	updater := selfupdate.NewUpdater()
	if ok, _ := updater.Writable(); !ok {
		return errors.New("cannot write to the binary directory; re-run with sudo")
	}

	var path string
	err = RunWithSpinner(verbose, "Downloading "+st.AssetName, "Downloading update", "Download verified", func() error {
		var dErr error
		path, dErr = updater.Download(ctx, st)
		return dErr
	})
	if err != nil {
		return err
	}

	if err := updater.Apply(path); err != nil {
		return err
	}

	fmt.Println(display.SuccessMsg("Updated to %s; the next run uses the new binary", st.LatestVersion))

	return nil
}
