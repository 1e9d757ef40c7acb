package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"extsort/internal/domain"
	appErrors "extsort/internal/errors"
	"extsort/internal/logging"
)

type Dispatcher struct {
	FS          FileSystem
	Exif        ExifReader
	Observer    Observer
	Logger      logging.Logger
	Jobs        int
	FileTimeout time.Duration
}

// Run copies every regular file below sourceRoot into destRoot/<bucket>/.
// Only a missing or invalid source aborts the run; per-file errors end up in
// the summary. At most Jobs copies are in flight at any time.
func (d *Dispatcher) Run(ctx context.Context, sourceRoot, destRoot string) (domain.RunSummary, error) {
	if d.FS == nil {
		return domain.RunSummary{}, errors.New("dispatcher requires FS")
	}
	src, dst, err := d.validate(sourceRoot, destRoot)
	if err != nil {
		return domain.RunSummary{}, err
	}

	stop := d.Logger.Measure("Copy run")
	defer stop()

	observer := d.observer()
	summary := domain.RunSummary{
		RunID:       uuid.NewString(),
		Source:      src,
		Destination: dst,
		StartedAt:   time.Now(),
	}
	observer.RunStarted(summary.RunID, src, dst)

	workerCount := d.workerCount()
	d.Logger.Verbosef("Using %d copy workers", workerCount)

	copier := &Copier{
		FS:      d.FS,
		Dirs:    &DirEnsurer{FS: d.FS},
		Exif:    d.Exif,
		Timeout: d.FileTimeout,
		Logger:  d.Logger,
	}

	semaphore := make(chan struct{}, workerCount)
	results := make(chan domain.CopyOutcome, workerCount)

	var outcomes []domain.CopyOutcome
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for outcome := range results {
			outcomes = append(outcomes, outcome)
			observer.FileFinished(outcome)
		}
	}()

	walker := Walker{
		FS: d.FS,
		OnWarning: func(path string, err error) {
			warning := appErrors.Wrap(appErrors.Traversal, "walk", path, err)
			summary.Warnings = append(summary.Warnings, warning.Error())
			observer.TraversalWarning(path, err)
		},
	}

	var wg sync.WaitGroup
	for path := range walker.Walk(ctx, src) {
		task := domain.NewCopyTask(path, dst)
		observer.FileDiscovered(task)

		select {
		case <-ctx.Done():
			// Discovered but never scheduled; it still gets exactly one outcome.
			results <- domain.Failure(task, appErrors.Wrap(appErrors.Filesystem, "copy", task.Source, ctx.Err()), 0)
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(task domain.CopyTask) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results <- copier.Copy(ctx, task)
		}(task)
	}

	wg.Wait()
	close(results)
	<-collected

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Task.Source < outcomes[j].Task.Source
	})
	summary.Outcomes = outcomes
	summary.Canceled = ctx.Err() != nil
	summary.Elapsed = time.Since(summary.StartedAt)

	d.Logger.Verbosef("Processed %d files (%d failed, %d warnings)", summary.Discovered(), summary.Failed(), len(summary.Warnings))
	observer.RunCompleted(summary)
	return summary, nil
}

// Plan walks and classifies like Run but never touches the destination.
func (d *Dispatcher) Plan(ctx context.Context, sourceRoot, destRoot string) (domain.Plan, error) {
	if d.FS == nil {
		return domain.Plan{}, errors.New("dispatcher requires FS")
	}
	src, dst, err := d.validate(sourceRoot, destRoot)
	if err != nil {
		return domain.Plan{}, err
	}

	stop := d.Logger.Measure("Planning copy")
	defer stop()

	plan := domain.Plan{Source: src, Destination: dst}
	walker := Walker{
		FS: d.FS,
		OnWarning: func(path string, err error) {
			plan.Warnings = append(plan.Warnings, appErrors.Wrap(appErrors.Traversal, "walk", path, err).Error())
		},
	}
	for path := range walker.Walk(ctx, src) {
		plan.Tasks = append(plan.Tasks, domain.NewCopyTask(path, dst))
	}
	if err := ctx.Err(); err != nil {
		return domain.Plan{}, err
	}

	sort.Slice(plan.Tasks, func(i, j int) bool {
		return plan.Tasks[i].Source < plan.Tasks[j].Source
	})
	d.Logger.Verbosef("Planned %d files in %d buckets", len(plan.Tasks), len(plan.BucketCounts()))
	return plan, nil
}

// Validate runs the Validating state on its own, for callers that must check
// the roots before taking other side effects such as a lock.
func (d *Dispatcher) Validate(sourceRoot, destRoot string) error {
	if d.FS == nil {
		return errors.New("dispatcher requires FS")
	}
	_, _, err := d.validate(sourceRoot, destRoot)
	return err
}

// validate resolves both roots and checks the source before any work starts.
func (d *Dispatcher) validate(sourceRoot, destRoot string) (string, string, error) {
	if strings.TrimSpace(sourceRoot) == "" {
		return "", "", appErrors.Wrap(appErrors.Validation, "validate", sourceRoot, errors.New("source path is empty"))
	}
	if strings.TrimSpace(destRoot) == "" {
		return "", "", appErrors.Wrap(appErrors.Validation, "validate", destRoot, errors.New("destination path is empty"))
	}
	src, err := filepath.Abs(sourceRoot)
	if err != nil {
		return "", "", appErrors.Wrap(appErrors.Validation, "abs", sourceRoot, err)
	}
	dst, err := filepath.Abs(destRoot)
	if err != nil {
		return "", "", appErrors.Wrap(appErrors.Validation, "abs", destRoot, err)
	}

	// WalkDir does not follow a linked root, so walk the real directory.
	src, err = d.FS.EvalSymlinks(src)
	if err != nil {
		return "", "", appErrors.Wrap(appErrors.Validation, "resolve", sourceRoot, err)
	}
	info, err := d.FS.Stat(src)
	if err != nil {
		return "", "", appErrors.Wrap(appErrors.Validation, "stat", src, err)
	}
	if !info.IsDir() {
		return "", "", appErrors.Wrap(appErrors.Validation, "stat", src, errors.New("not a directory"))
	}
	if resolved, err := d.FS.EvalSymlinks(dst); err == nil {
		dst = resolved
	}
	if within(dst, src) {
		return "", "", appErrors.Wrap(appErrors.Validation, "validate", dst, fmt.Errorf("destination is inside source %s", src))
	}
	return src, dst, nil
}

func (d *Dispatcher) workerCount() int {
	workerCount := d.Jobs
	if workerCount <= 0 {
		workerCount = 2 * runtime.NumCPU()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	return workerCount
}

func (d *Dispatcher) observer() Observer {
	if d.Observer == nil {
		return NopObserver{}
	}
	return d.Observer
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
