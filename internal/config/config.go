package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is where the operator configuration lives.
	DefaultConfigPath = "/etc/surfboard/config.yaml"

	// DefaultMetadataURL is the release metadata endpoint for the stable
	// Linux x64 channel.
	DefaultMetadataURL = "https://windsurf-stable.codeium.com/api/update/linux-x64/stable/latest"

	// DefaultKeepBackups is how many prior installs are retained.
	DefaultKeepBackups = 3
)

// Config holds operator-tunable settings. Everything has a working default;
// the config file and SURFBOARD_* environment variables override it.
type Config struct {
	Paths       Paths           `yaml:"paths"`
	Backups     BackupSettings  `yaml:"backups"`
	Install     InstallSettings `yaml:"install"`
	Log         LogSettings     `yaml:"log,omitempty"`
	MetadataURL string          `yaml:"metadata_url"`
}

// BackupSettings holds backup-rotation configuration.
type BackupSettings struct {
	Keep int `yaml:"keep"` // How many backups to retain (default: 3)
}

// InstallSettings holds install-transaction configuration.
type InstallSettings struct {
	// RollbackOnFailure restores the renamed backup when a later install
	// step fails. Off by default: a failed upgrade then requires
	// 'surfboard restore'.
	RollbackOnFailure bool `yaml:"rollback_on_failure"`
}

// LogSettings holds logging configuration.
type LogSettings struct {
	File string `yaml:"file,omitempty"` // Rotated log file (default: stderr only)
	JSON bool   `yaml:"json,omitempty"` // Emit JSON log records
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Paths:       DefaultPaths(),
		Backups:     BackupSettings{Keep: DefaultKeepBackups},
		Install:     InstallSettings{RollbackOnFailure: false},
		MetadataURL: DefaultMetadataURL,
	}
}

// Load reads the operator configuration from path, falling back to defaults
// when the file does not exist. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults only
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides layers SURFBOARD_* environment variables over the config.
// System env vars (and .env values loaded before this) take priority over
// the file.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SURFBOARD_METADATA_URL"); v != "" {
		cfg.MetadataURL = v
	}
	if v := os.Getenv("SURFBOARD_INSTALL_DIR"); v != "" {
		cfg.Paths.InstallDir = v
	}
	if v := os.Getenv("SURFBOARD_SCRATCH_DIR"); v != "" {
		cfg.Paths.ScratchDir = v
	}
	if v := os.Getenv("SURFBOARD_STATE_DIR"); v != "" {
		cfg.Paths.StateDir = v
	}
	if v := os.Getenv("SURFBOARD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("SURFBOARD_KEEP_BACKUPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SURFBOARD_KEEP_BACKUPS: %w", err)
		}
		cfg.Backups.Keep = n
	}

	return nil
}

// Validate performs sanity checks beyond what YAML decoding catches.
func (c *Config) Validate() error {
	if c.MetadataURL == "" {
		return fmt.Errorf("metadata_url must not be empty")
	}
	if c.Backups.Keep < 0 {
		return fmt.Errorf("backups.keep must not be negative: %d", c.Backups.Keep)
	}
	if c.Paths.InstallDir == "" {
		return fmt.Errorf("paths.install_dir must not be empty")
	}
	if c.Paths.LauncherPath == "" {
		return fmt.Errorf("paths.launcher must not be empty")
	}
	if c.Paths.ScratchDir == "" {
		return fmt.Errorf("paths.scratch_dir must not be empty")
	}

	return nil
}

// Save writes the configuration to path with a documentation header.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Add header comment
	header := `# surfboard configuration
# Edit this file to override install locations and behavior
# Delete it to return to built-in defaults

`
	content := header + string(data)

	// Show how to enable file logging when it's off
	if c.Log.File == "" {
		content += `
# Log settings
# Route logs to a rotated file instead of stderr
# Example:
# log:
#     file: /var/log/surfboard.log
#     json: false
`
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
