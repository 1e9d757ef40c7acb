package presentation

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"extsort/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintDryRun(plan domain.Plan) {
	fmt.Fprintln(p.Writer, "Would copy:")
	fmt.Fprintln(p.Writer)

	for _, line := range formatCopyLines(plan.Tasks, p.Verbose) {
		fmt.Fprintln(p.Writer, line)
	}

	fmt.Fprintln(p.Writer)
	counts := plan.BucketCounts()
	rows := make([][]string, 0, len(counts))
	for _, bucket := range domain.SortedBuckets(counts) {
		rows = append(rows, []string{bucket, humanize.Comma(int64(counts[bucket]))})
	}
	fmt.Fprintln(p.Writer, renderTable([]string{"Bucket", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Dry run: %d files in %d buckets, nothing was copied.\n", len(plan.Tasks), len(counts))
	p.printWarnings(plan.Warnings)
}

func (p Printer) PrintSummary(summary domain.RunSummary) {
	rows := [][]string{
		{"Discovered", humanize.Comma(int64(summary.Discovered()))},
		{"Succeeded", humanize.Comma(int64(summary.Succeeded()))},
		{"Failed", humanize.Comma(int64(summary.Failed()))},
		{"Copied", humanize.Bytes(uint64(summary.Bytes()))},
		{"Elapsed", summary.Elapsed.Round(time.Millisecond).String()},
	}
	if len(summary.Warnings) > 0 {
		rows = append(rows, []string{"Warnings", humanize.Comma(int64(len(summary.Warnings)))})
	}
	fmt.Fprintln(p.Writer, renderTable([]string{"Run " + summary.RunID, ""}, rows, []columnAlignment{alignLeft, alignRight}))

	if summary.Canceled {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Run was canceled; files not copied are listed as failures.")
	}

	if failures := summary.Failures(); len(failures) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Failed:")
		failRows := make([][]string, 0, len(failures))
		for _, failure := range failures {
			failRows = append(failRows, []string{failure.Task.Source, failure.Cause()})
		}
		fmt.Fprintln(p.Writer, renderTable([]string{"Source", "Cause"}, failRows, nil))
	}

	p.printWarnings(summary.Warnings)
}

func (p Printer) printWarnings(warnings []string) {
	if !p.Verbose || len(warnings) == 0 {
		return
	}
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, "Warnings:")
	for _, warning := range warnings {
		fmt.Fprintln(p.Writer, "- "+warning)
	}
}

// formatCopyLines lists planned copies, keeping only the first and last two
// unless verbose output was requested.
func formatCopyLines(tasks []domain.CopyTask, verbose bool) []string {
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		lines = append(lines, fmt.Sprintf("Copy %s -> %s", task.Source, task.Destination))
	}

	if verbose || len(lines) <= 4 {
		return lines
	}
	short := make([]string, 0, 5)
	short = append(short, lines[:2]...)
	short = append(short, "...")
	return append(short, lines[len(lines)-2:]...)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
