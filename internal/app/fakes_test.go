package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"extsort/internal/domain"
)

type fakeEntry struct {
	path string
	mode fs.FileMode
	// target is what a symlink resolves to.
	target fs.FileMode
}

// fakeFS is a scripted FileSystem: walk order, failures and timing are all
// set up by the test.
type fakeFS struct {
	entries   []fakeEntry
	walkErrs  map[string]error
	copyErrs  map[string]error
	mkdirErrs map[string]error
	timeErrs  map[string]error
	copyDelay time.Duration
	onCopy    func(src string)
	panicOn   string

	mu          sync.Mutex
	walkCalls   int
	mkdirCalls  map[string]int
	madeDirs    map[string]bool
	copies      map[string]string
	copyCalls   int
	chtimes     map[string]time.Time
	inFlight    int
	maxInFlight int
}

func newFakeFS(entries ...fakeEntry) *fakeFS {
	return &fakeFS{
		entries:    entries,
		walkErrs:   map[string]error{},
		copyErrs:   map[string]error{},
		mkdirErrs:  map[string]error{},
		timeErrs:   map[string]error{},
		mkdirCalls: map[string]int{},
		madeDirs:   map[string]bool{},
		copies:     map[string]string{},
		chtimes:    map[string]time.Time{},
	}
}

func dirEntry(path string) fakeEntry  { return fakeEntry{path: path, mode: fs.ModeDir} }
func fileEntry(path string) fakeEntry { return fakeEntry{path: path} }

func (f *fakeFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	skipPrefix := ""
	for _, entry := range f.entries {
		if skipPrefix != "" && strings.HasPrefix(entry.path, skipPrefix) {
			continue
		}
		skipPrefix = ""

		f.mu.Lock()
		f.walkCalls++
		f.mu.Unlock()

		d := fakeDirEntry{name: filepath.Base(entry.path), mode: entry.mode}
		err := fn(entry.path, d, f.walkErrs[entry.path])
		switch {
		case err == nil:
		case errors.Is(err, fs.SkipAll):
			return nil
		case errors.Is(err, fs.SkipDir):
			if entry.mode.IsDir() {
				skipPrefix = entry.path + "/"
			}
		default:
			return err
		}
	}
	return nil
}

func (f *fakeFS) Stat(path string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.madeDirs[path] {
		return fakeFileInfo{name: filepath.Base(path), mode: fs.ModeDir}, nil
	}
	for _, entry := range f.entries {
		if entry.path != path {
			continue
		}
		mode := entry.mode
		if mode&fs.ModeSymlink != 0 {
			mode = entry.target
		}
		return fakeFileInfo{name: filepath.Base(path), mode: mode}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFS) EvalSymlinks(path string) (string, error) {
	return path, nil
}

func (f *fakeFS) MkdirAll(path string, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mkdirCalls[path]++
	if err := f.mkdirErrs[path]; err != nil {
		return err
	}
	f.madeDirs[path] = true
	return nil
}

func (f *fakeFS) CopyFile(ctx context.Context, src, dst string) (int64, error) {
	f.mu.Lock()
	f.copyCalls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if src == f.panicOn {
		panic("disk on fire")
	}
	if f.copyDelay > 0 {
		select {
		case <-time.After(f.copyDelay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if f.onCopy != nil {
		f.onCopy(src)
	}
	if err := f.copyErrs[src]; err != nil {
		return 0, err
	}

	f.mu.Lock()
	f.copies[dst] = src
	f.mu.Unlock()
	return int64(len(src)), nil
}

func (f *fakeFS) Chtimes(path string, atime, mtime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.timeErrs[path]; err != nil {
		return err
	}
	f.chtimes[path] = mtime
	return nil
}

type fakeDirEntry struct {
	name string
	mode fs.FileMode
}

func (m fakeDirEntry) Name() string      { return m.name }
func (m fakeDirEntry) IsDir() bool       { return m.mode.IsDir() }
func (m fakeDirEntry) Type() fs.FileMode { return m.mode.Type() }
func (m fakeDirEntry) Info() (fs.FileInfo, error) {
	return fakeFileInfo{name: m.name, mode: m.mode}, nil
}

type fakeFileInfo struct {
	name string
	mode fs.FileMode
}

func (m fakeFileInfo) Name() string       { return m.name }
func (m fakeFileInfo) Size() int64        { return 0 }
func (m fakeFileInfo) Mode() fs.FileMode  { return m.mode }
func (m fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (m fakeFileInfo) IsDir() bool        { return m.mode.IsDir() }
func (m fakeFileInfo) Sys() interface{}   { return nil }

type fakeExif struct {
	times map[string]time.Time
}

func (m fakeExif) CaptureTime(ctx context.Context, path string) (time.Time, error) {
	if ts, ok := m.times[path]; ok {
		return ts, nil
	}
	return time.Time{}, errors.New("missing exif")
}

// recordingObserver counts events; safe for concurrent use.
type recordingObserver struct {
	mu         sync.Mutex
	started    int
	discovered []domain.CopyTask
	finished   []domain.CopyOutcome
	warnings   []string
	completed  []domain.RunSummary
}

func (r *recordingObserver) RunStarted(runID, source, destination string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingObserver) FileDiscovered(task domain.CopyTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discovered = append(r.discovered, task)
}

func (r *recordingObserver) FileFinished(outcome domain.CopyOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, outcome)
}

func (r *recordingObserver) TraversalWarning(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, path)
}

func (r *recordingObserver) RunCompleted(summary domain.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, summary)
}
