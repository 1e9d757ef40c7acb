// Package lock keeps two runs from writing into the same destination at once.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	appErrors "extsort/internal/errors"
)

// DestinationLock is an exclusive advisory lock tied to one destination root.
// The lock file lives in the OS temp dir so it never shows up in the output tree.
type DestinationLock struct {
	flock *flock.Flock
	path  string
}

// PathFor returns the lock file used for destRoot. The name is a stable
// UUIDv5 of the absolute destination path.
func PathFor(destRoot string) (string, error) {
	abs, err := filepath.Abs(destRoot)
	if err != nil {
		return "", err
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs))
	return filepath.Join(os.TempDir(), "extsort-"+id.String()+".lock"), nil
}

// Acquire takes the lock without blocking. A lock held elsewhere is reported
// as a Locked error.
func Acquire(destRoot string) (*DestinationLock, error) {
	path, err := PathFor(destRoot)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Internal, "lock", destRoot, err)
	}
	fl := flock.New(path)
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Internal, "lock", destRoot, fmt.Errorf("failed to try lock on %s: %w", path, err))
	}
	if !acquired {
		return nil, appErrors.Wrap(appErrors.Locked, "lock", destRoot, errors.New("lock held by another run"))
	}
	return &DestinationLock{flock: fl, path: path}, nil
}

func (l *DestinationLock) Path() string {
	return l.path
}

func (l *DestinationLock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
