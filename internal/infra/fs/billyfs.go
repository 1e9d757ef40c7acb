package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// BillyFS adapts a go-billy filesystem to the copy engine. Calls are
// serialized because memfs is not safe for concurrent mutation.
type BillyFS struct {
	mu sync.Mutex
	fs billy.Filesystem
}

func NewBillyFS(fsys billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fsys}
}

// NewInMemoryFS returns a BillyFS backed by memfs.
func NewInMemoryFS() *BillyFS {
	return NewBillyFS(memfs.New())
}

type walkEntry struct {
	path string
	d    fs.DirEntry
	err  error
}

// WalkDir snapshots the tree under the lock and then replays it to fn, so fn
// may call back into the filesystem.
func (b *BillyFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	var entries []walkEntry
	b.mu.Lock()
	err := util.Walk(b.fs, root, func(path string, info os.FileInfo, err error) error {
		var d fs.DirEntry
		if info != nil {
			d = fs.FileInfoToDirEntry(info)
		}
		entries = append(entries, walkEntry{path: path, d: d, err: err})
		return nil
	})
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("billy: walk %q: %w", root, err)
	}

	skipPrefix := ""
	for _, entry := range entries {
		if skipPrefix != "" {
			if strings.HasPrefix(entry.path, skipPrefix) {
				continue
			}
			skipPrefix = ""
		}
		err := fn(entry.path, entry.d, entry.err)
		switch {
		case err == nil:
		case errors.Is(err, fs.SkipAll):
			return nil
		case errors.Is(err, fs.SkipDir):
			if entry.d != nil && entry.d.IsDir() {
				skipPrefix = entry.path + string(filepath.Separator)
			}
		default:
			return err
		}
	}
	return nil
}

func (b *BillyFS) Stat(path string) (fs.FileInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	info, err := b.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", path, err)
	}
	return info, nil
}

// maxLinkHops bounds symlink chains the way the kernel's ELOOP limit does.
const maxLinkHops = 40

// EvalSymlinks follows links on the final path element. Filesystems without
// symlink support return path unchanged.
func (b *BillyFS) EvalSymlinks(path string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	links, ok := b.fs.(billy.Symlink)
	if !ok {
		return path, nil
	}
	for range maxLinkHops {
		info, err := links.Lstat(path)
		if err != nil {
			return "", fmt.Errorf("billy: lstat %q: %w", path, err)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}
		target, err := links.Readlink(path)
		if err != nil {
			return "", fmt.Errorf("billy: readlink %q: %w", path, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
	return "", fmt.Errorf("billy: resolve %q: too many links", path)
}

func (b *BillyFS) MkdirAll(path string, perm fs.FileMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("billy: mkdirall %q: %w", path, err)
	}
	return nil
}

func (b *BillyFS) Chtimes(path string, atime, mtime time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	change, ok := b.fs.(billy.Change)
	if !ok {
		return nil
	}
	if err := change.Chtimes(path, atime, mtime); err != nil {
		return fmt.Errorf("billy: chtimes %q: %w", path, err)
	}
	return nil
}

// CopyFile mirrors OSFS.CopyFile: temp file, then rename over dst.
func (b *BillyFS) CopyFile(ctx context.Context, src, dst string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.fs.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("billy: stat %q: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("billy: %q is not a regular file", src)
	}

	in, err := b.fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("billy: open %q: %w", src, err)
	}
	defer in.Close()

	tmp, err := b.fs.TempFile(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-")
	if err != nil {
		return 0, fmt.Errorf("billy: tempfile %q: %w", dst, err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, contextReader{ctx: ctx, r: in})
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = b.copyMetadata(tmpPath, info)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = b.fs.Rename(tmpPath, dst)
	}
	if err != nil {
		_ = b.fs.Remove(tmpPath)
		return n, fmt.Errorf("billy: copy %q: %w", src, err)
	}
	return n, nil
}

// copyMetadata applies the source mode and mtime. Filesystems that do not
// implement billy.Change keep their defaults.
func (b *BillyFS) copyMetadata(path string, info fs.FileInfo) error {
	change, ok := b.fs.(billy.Change)
	if !ok {
		return nil
	}
	if err := change.Chmod(path, info.Mode().Perm()); err != nil {
		return err
	}
	return change.Chtimes(path, info.ModTime(), info.ModTime())
}

// WriteFile and ReadFile seed and inspect in-memory trees.
func (b *BillyFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := util.WriteFile(b.fs, path, data, perm); err != nil {
		return fmt.Errorf("billy: writefile %q: %w", path, err)
	}
	return nil
}

func (b *BillyFS) ReadFile(path string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := util.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("billy: readfile %q: %w", path, err)
	}
	return data, nil
}
