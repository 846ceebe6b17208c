// Package lock provides file-based locking so only one install, restore,
// or uninstall runs at a time. Uses flock(2) for cross-process advisory
// locking.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FileLock guards a filesystem path with an exclusive advisory lock.
type FileLock struct {
	file *os.File
	path string
}

// New creates a file lock for the given path.
// The lock file will be created if it doesn't exist.
func New(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires an exclusive lock, blocking until available.
func (l *FileLock) Lock() error {
	f, err := l.open()
	if err != nil {
		return err
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		_ = f.Close()

		return fmt.Errorf("acquire lock: %w", err)
	}

	l.file = f

	return nil
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns false if the lock is held by another process.
func (l *FileLock) TryLock() (bool, error) {
	f, err := l.open()
	if err != nil {
		return false, err
	}

	err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, nil // Lock held by another process
		}

		return false, fmt.Errorf("try lock: %w", err)
	}

	l.file = f

	return true, nil
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close lock file: %w", err)
	}

	l.file = nil

	return nil
}

func (l *FileLock) open() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	return f, nil
}

// WithLock executes a function while holding an exclusive lock.
// The lock is automatically released when the function returns.
func WithLock(lockPath string, fn func() error) error {
	l := New(lockPath)
	if err := l.Lock(); err != nil {
		return err
	}
	defer func() { _ = l.Unlock() }()

	return fn()
}
