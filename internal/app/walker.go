package app

import (
	"context"
	"io/fs"
	"iter"
)

// WarningFunc is called for every entry the walker had to skip.
type WarningFunc func(path string, err error)

type Walker struct {
	FS        FileSystem
	OnWarning WarningFunc
}

// Walk lazily yields every regular file below root. Unreadable directories
// are reported through OnWarning and skipped. Symlinks are yielded only when
// they resolve to a regular file; linked directories are never descended.
// The walk stops when ctx is done or the consumer breaks out of the loop.
func (w Walker) Walk(ctx context.Context, root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		err := w.FS.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if walkErr != nil {
				w.warn(path, walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !w.isRegular(path, d) {
				return nil
			}
			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			w.warn(root, err)
		}
	}
}

func (w Walker) isRegular(path string, d fs.DirEntry) bool {
	mode := d.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 {
		return false
	}
	info, err := w.FS.Stat(path)
	if err != nil {
		w.warn(path, err)
		return false
	}
	return info.Mode().IsRegular()
}

func (w Walker) warn(path string, err error) {
	if w.OnWarning != nil {
		w.OnWarning(path, err)
	}
}
