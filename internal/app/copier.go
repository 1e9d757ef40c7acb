package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"extsort/internal/domain"
	appErrors "extsort/internal/errors"
	"extsort/internal/logging"
)

type Copier struct {
	FS      FileSystem
	Dirs    *DirEnsurer
	Exif    ExifReader
	Timeout time.Duration
	Logger  logging.Logger
}

// Copy runs one task and always returns its outcome; errors and panics from
// the filesystem are recorded as a Failure.
func (c *Copier) Copy(ctx context.Context, task domain.CopyTask) (outcome domain.CopyOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := appErrors.Wrap(appErrors.Internal, "copy", task.Source, fmt.Errorf("panic: %v", r))
			outcome = domain.Failure(task, err, time.Since(start))
		}
	}()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return domain.Failure(task, appErrors.Wrap(appErrors.Filesystem, "copy", task.Source, err), time.Since(start))
	}

	if err := c.ensure(filepath.Dir(task.Destination)); err != nil {
		return domain.Failure(task, err, time.Since(start))
	}

	n, err := c.FS.CopyFile(ctx, task.Source, task.Destination)
	if err != nil {
		return domain.Failure(task, appErrors.Wrap(appErrors.Filesystem, "copy", task.Source, err), time.Since(start))
	}

	c.stampCaptureTime(ctx, task)
	return domain.Success(task, n, time.Since(start))
}

func (c *Copier) ensure(dir string) error {
	if c.Dirs != nil {
		return c.Dirs.Ensure(dir)
	}
	return EnsureDir(c.FS, dir)
}

// stampCaptureTime replaces the copied mtime with the EXIF capture time when
// the file has one. Files without EXIF keep the source mtime. The copy itself
// already succeeded, so a failed stamp is logged rather than failing the task.
func (c *Copier) stampCaptureTime(ctx context.Context, task domain.CopyTask) {
	if c.Exif == nil || !domain.HasExif(task.Bucket) {
		return
	}
	takenAt, err := c.Exif.CaptureTime(ctx, task.Destination)
	if err != nil || takenAt.IsZero() {
		c.Logger.Verbosef("No capture time for %s: %v", task.Destination, err)
		return
	}
	if err := c.FS.Chtimes(task.Destination, takenAt, takenAt); err != nil {
		c.Logger.Warnf("Could not set capture time on %s: %v", task.Destination, err)
	}
}
