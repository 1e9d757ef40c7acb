package logging

import (
	"time"

	"extsort/internal/domain"
)

// Observer writes run events to a Logger: one line per copied or failed file,
// one per traversal warning and a closing summary.
type Observer struct {
	Logger Logger
}

func (o Observer) RunStarted(runID, source, destination string) {
	o.Logger.Infof("run %s: sorting %s into %s", runID, source, destination)
}

func (o Observer) FileDiscovered(task domain.CopyTask) {
	o.Logger.Verbosef("found %s (bucket %s)", task.Source, task.Bucket)
}

func (o Observer) FileFinished(outcome domain.CopyOutcome) {
	if outcome.Succeeded() {
		o.Logger.Infof("copied %s -> %s", outcome.Task.Source, outcome.Task.Destination)
		return
	}
	o.Logger.Errorf("failed %s -> %s: %s", outcome.Task.Source, outcome.Task.Destination, outcome.Cause())
}

func (o Observer) TraversalWarning(path string, err error) {
	o.Logger.Warnf("skipped %s: %v", path, err)
}

func (o Observer) RunCompleted(summary domain.RunSummary) {
	status := "completed"
	if summary.Canceled {
		status = "canceled"
	}
	o.Logger.Infof("run %s %s: %d discovered, %d succeeded, %d failed, %d warnings in %s",
		summary.RunID, status, summary.Discovered(), summary.Succeeded(), summary.Failed(),
		len(summary.Warnings), summary.Elapsed.Round(time.Millisecond))
}
