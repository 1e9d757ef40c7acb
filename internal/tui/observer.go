package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"extsort/internal/domain"
)

// Observer forwards run events to a running program. Send is usually
// (*tea.Program).Send, which is safe to call from any goroutine.
type Observer struct {
	Send func(tea.Msg)
}

func (o Observer) RunStarted(runID, source, destination string) {
	o.Send(RunStartedMsg{RunID: runID})
}

func (o Observer) FileDiscovered(task domain.CopyTask) {
	o.Send(FileDiscoveredMsg{Task: task})
}

func (o Observer) FileFinished(outcome domain.CopyOutcome) {
	o.Send(FileFinishedMsg{Outcome: outcome})
}

func (o Observer) TraversalWarning(path string, err error) {
	o.Send(WarningMsg{Path: path, Err: err})
}

// RunCompleted is a no-op; the caller sends RunDoneMsg once Run returns so the
// view also learns about validation errors.
func (o Observer) RunCompleted(domain.RunSummary) {}
