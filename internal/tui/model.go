package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"extsort/internal/domain"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseCopying Phase = iota
	PhaseDone
	PhaseError
)

type (
	RunStartedMsg struct {
		RunID string
	}
	FileDiscoveredMsg struct {
		Task domain.CopyTask
	}
	FileFinishedMsg struct {
		Outcome domain.CopyOutcome
	}
	WarningMsg struct {
		Path string
		Err  error
	}
	RunDoneMsg struct {
		Summary domain.RunSummary
		Err     error
	}
	tickMsg time.Time
)

type Config struct {
	SourceDir string
	TargetDir string
	Verbose   bool
	// Cancel stops the run when the user quits early.
	Cancel context.CancelFunc
}

type Model struct {
	config      Config
	Phase       Phase
	RunID       string
	Summary     domain.RunSummary
	spinner     spinner.Model
	progress    progress.Model
	discovered  int
	finished    int
	failed      int
	bytes       int64
	warnings    []string
	failures    []domain.CopyOutcome
	currentFile string
	Err         error
	Quitting    bool
	width       int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.spinner

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseCopying,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseCopying && m.config.Cancel != nil {
				m.config.Cancel()
			}
			m.Quitting = true
			return m, tea.Quit
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case RunStartedMsg:
		m.RunID = msg.RunID
		return m, nil

	case FileDiscoveredMsg:
		m.discovered++
		return m, nil

	case FileFinishedMsg:
		m.finished++
		m.bytes += msg.Outcome.Bytes
		m.currentFile = msg.Outcome.Task.Source
		if !msg.Outcome.Succeeded() {
			m.failed++
			m.failures = append(m.failures, msg.Outcome)
		}
		return m, nil

	case WarningMsg:
		m.warnings = append(m.warnings, fmt.Sprintf("%s: %v", msg.Path, msg.Err))
		return m, nil

	case RunDoneMsg:
		if msg.Err != nil {
			m.Phase = PhaseError
			m.Err = msg.Err
			return m, nil
		}
		m.Phase = PhaseDone
		m.Summary = msg.Summary
		return m, m.progress.SetPercent(1)

	case spinner.TickMsg:
		if m.Phase == PhaseCopying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseCopying {
			var cmds []tea.Cmd
			if m.discovered > 0 {
				cmds = append(cmds, m.progress.SetPercent(m.percent()))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// percent is finished over discovered; the walk is lazy, so the total grows
// while the bar moves.
func (m Model) percent() float64 {
	if m.discovered == 0 {
		return 0
	}
	return float64(m.finished) / float64(m.discovered)
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	sections := []string{m.header()}
	switch m.Phase {
	case PhaseCopying:
		sections = append(sections, m.copyingView())
	case PhaseDone:
		sections = append(sections, m.summaryView())
	case PhaseError:
		sections = append(sections, m.errorView())
	}
	sections = append(sections, m.helpLine())

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) header() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render("extsort"),
		styles.tagline.Render("Files sorted by extension"),
		"",
		styles.faint.Render(fmt.Sprintf("%s %s", glyphDir, shortenPath(m.config.SourceDir))),
		styles.faint.Render(fmt.Sprintf("%s %s", glyphActive, shortenPath(m.config.TargetDir))),
	)
}

func (m Model) copyingView() string {
	percent := m.percent()
	lines := []string{
		styles.heading.Render("Copying"),
		"",
		fmt.Sprintf("  %s %s %s",
			m.spinner.View(),
			styles.counter.Render(fmt.Sprintf("%d/%d files", m.finished, m.discovered)),
			styles.faint.Render(fmt.Sprintf("(%.0f%%, %s)", percent*100, humanize.Bytes(uint64(m.bytes)))),
		),
		"  " + m.progress.ViewAs(percent),
	}
	if m.failed > 0 {
		lines = append(lines, "  "+styles.fail.Render(fmt.Sprintf("%s %d failed", glyphFail, m.failed)))
	}
	if len(m.warnings) > 0 {
		lines = append(lines, "  "+styles.warn.Render(fmt.Sprintf("%s %d skipped", glyphWarn, len(m.warnings))))
	}
	if m.currentFile != "" {
		lines = append(lines, "", fmt.Sprintf("  %s %s", glyphActive, styles.path.Render(m.currentFile)))
	}
	return strings.Join(lines, "\n")
}

// maxListed caps the failures and buckets listed in the summary.
const maxListed = 5

func (m Model) summaryView() string {
	s := m.Summary
	lines := []string{styles.heading.Render("Done"), ""}

	switch {
	case s.Canceled:
		lines = append(lines, "  "+styles.warn.Render(glyphWarn+" Run canceled"))
	case s.Failed() > 0:
		lines = append(lines, "  "+styles.fail.Render(glyphFail+" Some files could not be copied"))
	default:
		lines = append(lines, "  "+styles.ok.Render(glyphOK+" All files copied"))
	}
	lines = append(lines, "",
		stat("Discovered", styles.value.Render(fmt.Sprint(s.Discovered()))),
		stat("Succeeded", styles.ok.Render(fmt.Sprint(s.Succeeded()))),
		stat("Failed", styles.fail.Render(fmt.Sprint(s.Failed()))),
		stat("Copied", styles.value.Render(humanize.Bytes(uint64(s.Bytes())))),
		stat("Elapsed", styles.value.Render(s.Elapsed.Round(time.Millisecond).String())),
	)

	if counts := bucketCounts(s); len(counts) > 0 {
		lines = append(lines, "", styles.faint.Render("  Buckets"))
		buckets := domain.SortedBuckets(counts)
		for i, bucket := range buckets {
			if i == maxListed {
				lines = append(lines, styles.faint.Render(fmt.Sprintf("  ... %d more", len(buckets)-maxListed)))
				break
			}
			lines = append(lines, fmt.Sprintf("  %s %d", styles.bucket.Render(bucket), counts[bucket]))
		}
	}

	if failures := s.Failures(); len(failures) > 0 {
		lines = append(lines, "", styles.fail.Render("  Failures"))
		for i, failure := range failures {
			if i == maxListed {
				lines = append(lines, styles.faint.Render(fmt.Sprintf("  ... %d more", len(failures)-maxListed)))
				break
			}
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				styles.fail.Render(glyphFail),
				styles.path.Render(failure.Task.Source),
				styles.faint.Render(failure.Cause())))
		}
	}

	if m.config.Verbose && len(m.warnings) > 0 {
		lines = append(lines, "", styles.warn.Render("  Warnings"))
		for _, w := range m.warnings {
			lines = append(lines, fmt.Sprintf("  %s %s", glyphWarn, w))
		}
	}

	return strings.Join(lines, "\n")
}

func stat(label, value string) string {
	return "  " + styles.label.Render(label) + " " + value
}

func (m Model) errorView() string {
	return styles.errorBox.Render(styles.fail.Render(fmt.Sprintf("%s %v", glyphFail, m.Err)))
}

func (m Model) helpLine() string {
	switch m.Phase {
	case PhaseCopying:
		return styles.help.Render("q: cancel")
	case PhaseDone:
		return styles.help.Render("enter: exit")
	default:
		return styles.help.Render("enter/q: exit")
	}
}

// bucketCounts counts successful copies per bucket.
func bucketCounts(s domain.RunSummary) map[string]int {
	counts := map[string]int{}
	for _, o := range s.Outcomes {
		if o.Succeeded() {
			counts[o.Task.Bucket]++
		}
	}
	return counts
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, home); ok {
		return "~" + rest
	}
	return path
}
