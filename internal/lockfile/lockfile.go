// Package lockfile keeps a second importer from running against the same
// upload directory.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/pkg/utils"
)

// Guard owns the lock file until Release is called.
type Guard struct {
	path string
	once sync.Once
	err  error
}

// Acquire creates the lock file exclusively. An existing file means another
// instance holds the lock and yields apperrors.ErrLockHeld.
func Acquire(path string) (*Guard, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: lock file %s exists", apperrors.ErrLockHeld, path)
		}
		return nil, fmt.Errorf("failed to create lock file %s: %w", path, err)
	}

	_, writeErr := fmt.Fprintf(f, "Process started: %s\npid: %d\n", utils.FormatISO8601(utils.Now()), os.Getpid())
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file %s: %w", path, writeErr)
	}
	return &Guard{path: path}, nil
}

// Path returns the lock file location.
func (g *Guard) Path() string {
	return g.path
}

// Release removes the lock file. It is safe to call more than once; only the
// first call does any work.
func (g *Guard) Release() error {
	g.once.Do(func() {
		if err := os.Remove(g.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			g.err = fmt.Errorf("failed to remove lock file %s: %w", g.path, err)
		}
	})
	return g.err
}
