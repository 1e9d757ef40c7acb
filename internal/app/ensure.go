package app

import (
	"sync"

	appErrors "extsort/internal/errors"
)

// DirEnsurer creates destination directories at most once per run. Tasks that
// share a parent wait on the same creation instead of racing each other.
type DirEnsurer struct {
	FS   FileSystem
	dirs sync.Map // path -> *ensureOnce
}

type ensureOnce struct {
	once sync.Once
	err  error
}

func (e *DirEnsurer) Ensure(dir string) error {
	value, _ := e.dirs.LoadOrStore(dir, &ensureOnce{})
	entry := value.(*ensureOnce)
	entry.once.Do(func() {
		entry.err = EnsureDir(e.FS, dir)
	})
	if entry.err != nil {
		// Let a later task retry instead of inheriting this failure forever.
		e.dirs.CompareAndDelete(dir, entry)
	}
	return entry.err
}

// EnsureDir creates dir and any missing parents. An existing directory,
// including one created concurrently by another caller, is not an error.
func EnsureDir(fsys FileSystem, dir string) error {
	err := fsys.MkdirAll(dir, 0o755)
	if err == nil {
		return nil
	}
	if info, statErr := fsys.Stat(dir); statErr == nil && info.IsDir() {
		return nil
	}
	return appErrors.Wrap(appErrors.Filesystem, "mkdir", dir, err)
}
