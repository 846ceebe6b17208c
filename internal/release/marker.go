package release

import (
	"fmt"
	"os"
	"strings"
)

// ReadInstalledVersion reads the persisted version marker. A missing marker
// is not an error: it means no install is present.
func ReadInstalledVersion(markerPath string) (string, error) {
	data, err := os.ReadFile(markerPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read version marker: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// WriteInstalledVersion persists the version marker, world-readable.
func WriteInstalledVersion(markerPath, version string) error {
	if err := os.WriteFile(markerPath, []byte(version+"\n"), 0o644); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}

	return nil
}
