package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lushwind/surfboard/internal/display"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show the effective configuration",
	GroupID: "info",
	Long: `Config prints the configuration after defaults, the config file and
SURFBOARD_* environment overrides are merged. With --init, the effective
configuration is written to the config file as a starting point.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the effective configuration to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configInit {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Println(display.SuccessMsg("Wrote %s", configPath))
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	fmt.Println(display.Section("Effective configuration"))
	fmt.Print(string(data))

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println(display.InfoMsg("No config file at %s; defaults and environment in effect", configPath))
	}

	return nil
}
