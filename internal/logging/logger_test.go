package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"extsort/internal/domain"
)

func TestVerbosefRespectsFlag(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Verbosef("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	New(&buf, true).Verbosef("shown %d", 2)
	if !strings.Contains(buf.String(), "DEBUG shown 2") {
		t.Fatalf("expected verbose line, got %q", buf.String())
	}
}

func TestNewDisablesColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	if logger.Color {
		t.Fatalf("expected colour off for non-terminal writer")
	}
	logger.Errorf("boom")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("unexpected escape codes in %q", buf.String())
	}
}

func TestZeroLoggerDiscards(t *testing.T) {
	var logger Logger
	logger.Infof("nothing")
	logger.Measure("noop")()
}

func TestObserverLinesPerOutcome(t *testing.T) {
	var buf bytes.Buffer
	observer := Observer{Logger: New(&buf, false)}

	ok := domain.NewCopyTask("/src/a.txt", "/out")
	bad := domain.NewCopyTask("/src/b.txt", "/out")
	observer.FileFinished(domain.Success(ok, 3, 0))
	observer.FileFinished(domain.Failure(bad, errors.New("permission denied"), 0))
	observer.TraversalWarning("/src/locked", errors.New("permission denied"))
	observer.RunCompleted(domain.RunSummary{
		RunID:    "run-1",
		Outcomes: []domain.CopyOutcome{domain.Success(ok, 3, 0), domain.Failure(bad, errors.New("x"), 0)},
	})

	out := buf.String()
	for _, want := range []string{
		"INFO  copied /src/a.txt -> /out/txt/a.txt",
		"ERROR failed /src/b.txt -> /out/txt/b.txt: permission denied",
		"WARN  skipped /src/locked",
		"run run-1 completed: 2 discovered, 1 succeeded, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
