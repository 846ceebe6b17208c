package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show journaled install runs",
	GroupID: "info",
	Long: `History lists the journaled install, restore, and uninstall runs, newest
first. Each run records its steps, so a failed or interrupted run shows
how far it got before stopping.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "How many runs to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	records, err := journal.Load(cfg.Paths.JournalPath())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(display.InfoMsg("No runs recorded yet"))
		return nil
	}

	// The journal stores oldest first.
	rows := make([][]string, 0, len(records))
	f := display.NewFormatter()
	for i := len(records) - 1; i >= 0; i-- {
		if historyLimit > 0 && len(rows) >= historyLimit {
			break
		}
		rec := records[i]

		version := rec.Version
		if version == "" {
			version = "-"
		}

		outcome := string(rec.Outcome)
		if outcome == "" {
			outcome = "interrupted"
		}

		rows = append(rows, []string{
			f.Timestamp(rec.StartedAt.Local()),
			string(rec.Operation),
			version,
			stepSummary(rec),
			display.ColorOutcome(outcome, outcome),
		})
	}

	// Outcome goes last: its color codes would break column padding.
	fmt.Println(f.Table([]string{"STARTED", "OPERATION", "VERSION", "STEPS", "OUTCOME"}, rows))
	fmt.Println(display.Muted("Journal file: " + cfg.Paths.JournalPath()))

	return nil
}

// stepSummary condenses a run's steps into completed/total, naming the
// failed step when there is one.
func stepSummary(rec journal.Record) string {
	done := 0
	for _, s := range rec.Steps {
		if s.State == journal.StateCompleted {
			done++
		}
	}
	for _, s := range rec.Steps {
		if s.State == journal.StateFailed {
			return fmt.Sprintf("%d/%d, failed at %s", done, len(rec.Steps), s.Name)
		}
	}

	return fmt.Sprintf("%d/%d", done, len(rec.Steps))
}
