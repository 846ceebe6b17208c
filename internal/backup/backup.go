// Package backup rotates timestamped copies of prior installs. A backup is
// the old install directory renamed aside as <install_dir>_backup_<stamp>;
// rotation keeps the most recent few and deletes the rest.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// stampLayout is the timestamp format embedded in backup directory names.
const stampLayout = "20060102150405"

// ErrNoBackup is returned when no backup matches a lookup.
var ErrNoBackup = errors.New("backup: no backup found")

// Info describes one backup directory.
type Info struct {
	Path    string
	Stamp   string // timestamp portion of the directory name
	ModTime time.Time
}

// Manager handles the backups belonging to one install directory.
type Manager struct {
	installDir string
}

// NewManager creates a manager for the given install directory.
func NewManager(installDir string) *Manager {
	return &Manager{installDir: installDir}
}

// Create renames the current install aside as a timestamped backup and
// returns the backup path. The rename stays on one filesystem, so it is
// atomic.
func (m *Manager) Create(now time.Time) (string, error) {
	backupPath := m.installDir + "_backup_" + now.Format(stampLayout)
	if err := os.Rename(m.installDir, backupPath); err != nil {
		return "", fmt.Errorf("rename install to backup: %w", err)
	}

	return backupPath, nil
}

// List returns existing backups, newest first. Recency is directory mtime;
// equal mtimes fall back to the name stamp so ordering stays stable.
func (m *Manager) List() ([]Info, error) {
	parent := filepath.Dir(m.installDir)
	prefix := filepath.Base(m.installDir) + "_backup_"

	entries, err := os.ReadDir(parent)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup parent dir: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // Raced with a concurrent removal
		}

		backups = append(backups, Info{
			Path:    filepath.Join(parent, entry.Name()),
			Stamp:   strings.TrimPrefix(entry.Name(), prefix),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].ModTime.After(backups[j].ModTime)
		}

		return backups[i].Stamp > backups[j].Stamp
	})

	return backups, nil
}

// Prune deletes backups beyond keep, oldest first, and returns the removed
// paths.
func (m *Manager) Prune(keep int) ([]string, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	if keep < 0 || len(backups) <= keep {
		return nil, nil
	}

	var removed []string
	for _, b := range backups[keep:] {
		if err := os.RemoveAll(b.Path); err != nil {
			return removed, fmt.Errorf("remove old backup %s: %w", b.Path, err)
		}
		removed = append(removed, b.Path)
	}

	return removed, nil
}

// Latest returns the most recent backup.
func (m *Manager) Latest() (*Info, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, ErrNoBackup
	}

	return &backups[0], nil
}

// Find returns the backup carrying the given timestamp.
func (m *Manager) Find(stamp string) (*Info, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	for i := range backups {
		if backups[i].Stamp == stamp {
			return &backups[i], nil
		}
	}

	return nil, fmt.Errorf("%w: timestamp %s", ErrNoBackup, stamp)
}

// Restore renames a backup back into place as the install directory.
// Refuses to clobber an existing install.
func (m *Manager) Restore(backupPath string) error {
	if _, err := os.Stat(m.installDir); err == nil {
		return fmt.Errorf("install directory already exists: %s", m.installDir)
	}

	if err := os.Rename(backupPath, m.installDir); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return nil
}

// DirSize sums the size of all regular files under path.
func DirSize(path string) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", path, err)
	}

	return total, nil
}
