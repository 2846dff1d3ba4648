// Package lock serializes drushgen runs that share a scratch directory.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
)

// Lock is an advisory, PID-stamped file lock.
type Lock struct {
	path     string
	fileLock *flock.Flock
	locked   bool
}

// New returns a Lock on path. The file is created on first Acquire.
func New(path string) *Lock {
	return &Lock{
		path:     path,
		fileLock: flock.New(path),
	}
}

// Acquire takes the lock without blocking and writes the current PID into
// the lock file. A lock held elsewhere yields *errors.LockError.
func (l *Lock) Acquire() error {
	if l.locked {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return dgErrors.NewWriteError(filepath.Dir(l.path), "failed to create lock directory", err)
	}

	locked, err := l.fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		pid, _ := l.readPID()
		return dgErrors.NewLockError(l.path, pid)
	}

	if err := l.writePID(); err != nil {
		_ = l.fileLock.Unlock()
		return fmt.Errorf("failed to write PID to lock file: %w", err)
	}

	l.locked = true
	return nil
}

// Release drops the lock. The lock file stays on disk.
func (l *Lock) Release() error {
	if !l.locked {
		return nil
	}

	if err := l.fileLock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	l.locked = false
	return nil
}

func (l *Lock) readPID() (int, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func (l *Lock) writePID() error {
	return os.WriteFile(l.path, []byte(strconv.Itoa(os.Getpid())), 0644)
}
