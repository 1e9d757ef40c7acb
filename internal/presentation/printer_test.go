package presentation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"extsort/internal/domain"
)

func TestFormatCopyLinesTruncates(t *testing.T) {
	tasks := make([]domain.CopyTask, 0, 6)
	for i := 0; i < 6; i++ {
		tasks = append(tasks, domain.NewCopyTask(fmt.Sprintf("/src/f%d.txt", i), "/out"))
	}

	lines := formatCopyLines(tasks, false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[2] != "..." {
		t.Fatalf("expected ellipsis, got %q", lines[2])
	}

	if all := formatCopyLines(tasks, true); len(all) != 6 {
		t.Fatalf("expected all lines when verbose, got %d", len(all))
	}
}

func TestPrintDryRunListsBuckets(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	plan := domain.Plan{
		Tasks: []domain.CopyTask{
			domain.NewCopyTask("/src/a.txt", "/out"),
			domain.NewCopyTask("/src/b.txt", "/out"),
			domain.NewCopyTask("/src/README", "/out"),
		},
	}

	printer.PrintDryRun(plan)
	output := buf.String()
	for _, want := range []string{"Would copy:", "Copy /src/a.txt -> /out/txt/a.txt", "no_extension", "3 files in 2 buckets"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrintSummaryEnumeratesFailures(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf, Verbose: true}

	ok := domain.NewCopyTask("/src/a.txt", "/out")
	bad := domain.NewCopyTask("/src/b.txt", "/out")
	summary := domain.RunSummary{
		RunID: "abc",
		Outcomes: []domain.CopyOutcome{
			domain.Success(ok, 2048, time.Millisecond),
			domain.Failure(bad, errors.New("permission denied"), time.Millisecond),
		},
		Warnings: []string{"walk: /src/locked: permission denied"},
	}

	printer.PrintSummary(summary)
	output := buf.String()
	for _, want := range []string{"Run abc", "Discovered", "2.0 kB", "Failed:", "/src/b.txt", "permission denied", "Warnings:", "/src/locked"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrintSummaryWithoutFailures(t *testing.T) {
	var buf bytes.Buffer
	Printer{Writer: &buf}.PrintSummary(domain.RunSummary{
		Outcomes: []domain.CopyOutcome{domain.Success(domain.NewCopyTask("/src/a", "/out"), 1, 0)},
	})
	if strings.Contains(buf.String(), "Failed:") {
		t.Fatalf("did not expect failure section:\n%s", buf.String())
	}
}
