// Package desktop writes the freedesktop integration artifacts: the
// .desktop launcher entry and the application icon.
package desktop

import (
	"errors"
	"fmt"
	"os"
)

// ErrIconMissing means the release tree carried no icon at the expected
// path. Callers downgrade this to a warning.
var ErrIconMissing = errors.New("desktop: icon not found in release")

// entryTemplate is the fixed descriptor shape; only the version and the
// launcher path vary between releases.
const entryTemplate = `[Desktop Entry]
Name=Windsurf
Comment=Windsurf IDE %s
Exec=%s %%F
Icon=%s
Terminal=false
Type=Application
Categories=Development;IDE;
StartupWMClass=%s
`

// Entry holds the variable parts of the desktop descriptor.
type Entry struct {
	Version  string
	ExecPath string
	IconName string
	WMClass  string
}

// NewEntry builds a descriptor entry with the standard icon and window
// class names.
func NewEntry(version, execPath string) Entry {
	return Entry{
		Version:  version,
		ExecPath: execPath,
		IconName: "windsurf",
		WMClass:  "Windsurf",
	}
}

// Render produces the descriptor text.
func (e Entry) Render() string {
	return fmt.Sprintf(entryTemplate, e.Version, e.ExecPath, e.IconName, e.WMClass)
}

// Write renders the descriptor to path, world-readable. The parent
// directory must already exist.
func (e Entry) Write(path string) error {
	if err := os.WriteFile(path, []byte(e.Render()), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}

	return nil
}

// InstallIcon copies the release icon from src to dst, world-readable.
// A missing src yields ErrIconMissing.
func InstallIcon(src, dst string) error {
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrIconMissing, src)
	}
	if err != nil {
		return fmt.Errorf("read icon: %w", err)
	}

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("install icon: %w", err)
	}

	return nil
}
