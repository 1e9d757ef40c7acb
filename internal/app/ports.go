package app

import (
	"context"
	"io/fs"
	"time"

	"extsort/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	// EvalSymlinks returns path with every symbolic link resolved.
	EvalSymlinks(path string) (string, error)
	MkdirAll(path string, perm fs.FileMode) error
	// CopyFile copies src over dst, keeping permission bits and modification
	// time, and returns the number of bytes written. dst's directory must exist.
	CopyFile(ctx context.Context, src, dst string) (int64, error)
	Chtimes(path string, atime, mtime time.Time) error
}

type ExifReader interface {
	CaptureTime(ctx context.Context, path string) (time.Time, error)
}

// Observer receives run events. Methods are called from several goroutines
// and must be safe for concurrent use.
type Observer interface {
	RunStarted(runID, source, destination string)
	FileDiscovered(task domain.CopyTask)
	FileFinished(outcome domain.CopyOutcome)
	TraversalWarning(path string, err error)
	RunCompleted(summary domain.RunSummary)
}

type NopObserver struct{}

func (NopObserver) RunStarted(string, string, string) {}
func (NopObserver) FileDiscovered(domain.CopyTask)    {}
func (NopObserver) FileFinished(domain.CopyOutcome)   {}
func (NopObserver) TraversalWarning(string, error)    {}
func (NopObserver) RunCompleted(domain.RunSummary)    {}
