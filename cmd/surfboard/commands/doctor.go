package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/doctor"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Diagnose the environment and installation",
	GroupID: "info",
	Long: `Check everything an install, restore, or uninstall run depends on.

Performs the following checks:
  - Operating system and package manager
  - Required command-line tools
  - Install tree, version marker, launcher, and desktop entry
  - Backups and state left behind by previous runs
  - Free disk space

All checks are read-only; nothing is repaired. Run the suggested
commands to fix reported problems.

Examples:
  surfboard doctor                  # Human-readable report
  surfboard doctor --format json    # JSON output for scripting
  surfboard doctor --strict         # Treat warnings as errors`,
	RunE: runDoctor,
}

var (
	doctorStrict bool
	doctorFormat string
)

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVar(&doctorStrict, "strict", false,
		"Treat warnings as errors (exit code 1 if warnings present)")
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"Output format: text, json")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sys := sysintegration.Probe(ctx)
	doc := doctor.New(cfg.Paths, sys, doctor.Options{Strict: doctorStrict})

	if doctorFormat == "text" {
		fmt.Println("Checking surfboard environment...")
		fmt.Println()
	}

	result := doc.Run(ctx)
	fmt.Print(result.Format(doctorFormat))

	// Return error for exit code handling
	if !result.Healthy {
		return errors.New("environment check failed")
	}

	return nil
}
