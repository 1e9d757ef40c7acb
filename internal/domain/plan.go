package domain

import (
	"path/filepath"
	"sort"
)

// CopyTask is one source file and the destination it is copied to.
type CopyTask struct {
	Source      string
	Destination string
	Bucket      string
}

// NewCopyTask places source at destRoot/<bucket>/<name>. The source's
// directory structure below the walked root is not kept.
func NewCopyTask(source, destRoot string) CopyTask {
	meta := NewFileMeta(source)
	return CopyTask{
		Source:      source,
		Destination: filepath.Join(destRoot, meta.Bucket, meta.Name),
		Bucket:      meta.Bucket,
	}
}

// Plan is the result of a dry run: every task a run would schedule.
type Plan struct {
	Source      string
	Destination string
	Tasks       []CopyTask
	Warnings    []string
}

// BucketCounts returns the number of planned files per bucket.
func (p Plan) BucketCounts() map[string]int {
	counts := make(map[string]int)
	for _, task := range p.Tasks {
		counts[task.Bucket]++
	}
	return counts
}

// SortedBuckets returns bucket names in lexical order.
func SortedBuckets(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
