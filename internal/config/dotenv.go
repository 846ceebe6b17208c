package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// ConfigDir is the surfboard configuration directory.
	ConfigDir = "/etc/surfboard"
	// EnvFileName is the name of the environment variables file.
	EnvFileName = ".env"
)

// LoadDotEnv loads environment variables from <dir>/.env if it exists.
// It uses godotenv.Load() which respects existing environment variables
// (system env vars take priority over .env values).
// Returns nil if the file doesn't exist (not an error condition).
// Returns error only if the file exists but cannot be parsed.
func LoadDotEnv(dir string) error {
	envPath := filepath.Join(dir, EnvFileName)

	// Check if file exists - silently skip if not
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}

	// Load the .env file - godotenv.Load() does NOT override existing vars
	return godotenv.Load(envPath)
}

// LoadSystemDotEnv loads /etc/surfboard/.env, the standard location for
// operator-provided environment overrides.
func LoadSystemDotEnv() error {
	return LoadDotEnv(ConfigDir)
}
