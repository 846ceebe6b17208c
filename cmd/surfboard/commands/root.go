package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lushwind/surfboard/internal/config"
	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/help"
	"github.com/lushwind/surfboard/internal/log"
)

var (
	cfg *config.Config

	// Global flags.
	configPath string
	verbose    bool
	noColor    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "surfboard",
	Short: "Windsurf IDE installer for Linux",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Long: `Surfboard installs and updates the Windsurf IDE on Linux.

It resolves the latest release from the official update channel, verifies
the archive checksum, and swaps the new build into place. The previous
install is kept as a timestamped backup next to the install directory.

Quick Start:
  sudo surfboard install    Install or update Windsurf
  surfboard check           See whether an update is available
  surfboard backups         List retained backups
  sudo surfboard restore    Put a backup back into place

Commands that change the system need root; check, doctor, history,
backups, config and version do not.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first so SURFBOARD_* values are visible to config loading.
		if err := config.LoadSystemDotEnv(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		log.Configure(log.Options{
			Verbose: verbose,
			JSON:    cfg.Log.JSON,
			File:    cfg.Log.File,
		})

		// Initialize color output from CLI flag (also respects NO_COLOR env)
		display.InitColors(noColor)

		log.Debug("initialized", "config", configPath, "verbose", verbose)

		// Non-blocking release notice; skip when selfupdate checks anyway.
		if cmd.Name() != "selfupdate" && !quiet && shouldCheckForUpdates() {
			go checkForUpdatesInBackground(cmd.Context())
		}

		return nil
	},
}

// Execute runs the root command with signal handling.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")

	// Add command groups for better help organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    "lifecycle",
		Title: "Install Commands:",
	}, &cobra.Group{
		ID:    "recovery",
		Title: "Recovery Commands:",
	}, &cobra.Group{
		ID:    "info",
		Title: "Information Commands:",
	})

	// Setup contextual help that shows available/unavailable commands
	help.SetupContextualHelp(rootCmd, config.DefaultPaths())
}
