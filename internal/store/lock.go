package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the data directory while a command runs.
const LockFileName = ".curator.lock"

// ErrLocked is returned when another curator command holds the data directory.
var ErrLocked = errors.New("data directory is locked by another curator run")

// Lock takes an exclusive, non-blocking lock on dir. Call Unlock on the
// result when the run ends.
func Lock(dir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrLocked)
	}
	return lock, nil
}
