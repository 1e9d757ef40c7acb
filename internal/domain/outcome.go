package domain

import "time"

type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

// CopyOutcome is the single recorded result of one CopyTask.
type CopyOutcome struct {
	Task    CopyTask
	Status  Status
	Err     error
	Bytes   int64
	Elapsed time.Duration
}

func Success(task CopyTask, bytes int64, elapsed time.Duration) CopyOutcome {
	return CopyOutcome{Task: task, Status: StatusSuccess, Bytes: bytes, Elapsed: elapsed}
}

func Failure(task CopyTask, err error, elapsed time.Duration) CopyOutcome {
	return CopyOutcome{Task: task, Status: StatusFailure, Err: err, Elapsed: elapsed}
}

func (o CopyOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// Cause is the human-readable failure reason, empty for successes.
func (o CopyOutcome) Cause() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// RunSummary collects one outcome per discovered file.
type RunSummary struct {
	RunID       string
	Source      string
	Destination string
	Outcomes    []CopyOutcome
	Warnings    []string
	Canceled    bool
	StartedAt   time.Time
	Elapsed     time.Duration
}

func (s RunSummary) Discovered() int {
	return len(s.Outcomes)
}

func (s RunSummary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

func (s RunSummary) Failed() int {
	return s.Discovered() - s.Succeeded()
}

func (s RunSummary) Failures() []CopyOutcome {
	var failures []CopyOutcome
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			failures = append(failures, o)
		}
	}
	return failures
}

func (s RunSummary) Bytes() int64 {
	var total int64
	for _, o := range s.Outcomes {
		total += o.Bytes
	}
	return total
}
