package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#E8A87C")
	good   = lipgloss.Color("#85DCB0")
	amber  = lipgloss.Color("#F6AE2D")
	bad    = lipgloss.Color("#E85D75")
	muted  = lipgloss.Color("#6B7280")
	faint  = lipgloss.Color("#9CA3AF")
	bright = lipgloss.Color("#F3F4F6")
)

// theme groups the styles by the role they play in the copy view.
type theme struct {
	title    lipgloss.Style
	tagline  lipgloss.Style
	heading  lipgloss.Style
	faint    lipgloss.Style
	path     lipgloss.Style
	bucket   lipgloss.Style
	counter  lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	fail     lipgloss.Style
	errorBox lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	spinner  lipgloss.Style
	help     lipgloss.Style
}

func newTheme() theme {
	bold := lipgloss.NewStyle().Bold(true)
	return theme{
		title:   bold.Foreground(accent).MarginBottom(1),
		tagline: lipgloss.NewStyle().Foreground(faint).Italic(true),
		heading: bold.Foreground(good).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(muted).
			MarginTop(1),
		faint:   lipgloss.NewStyle().Foreground(faint),
		path:    lipgloss.NewStyle().Foreground(bright),
		bucket:  bold.Foreground(accent).Width(14),
		counter: bold.Foreground(accent),
		ok:      bold.Foreground(good),
		warn:    lipgloss.NewStyle().Foreground(amber),
		fail:    bold.Foreground(bad),
		errorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(bad).
			Padding(1, 2).
			MarginTop(1),
		label:   lipgloss.NewStyle().Foreground(faint).Width(12),
		value:   bold.Foreground(bright),
		spinner: lipgloss.NewStyle().Foreground(accent),
		help:    lipgloss.NewStyle().Foreground(muted).Italic(true).MarginTop(1),
	}
}

var styles = newTheme()

const (
	glyphOK     = "✓"
	glyphFail   = "✗"
	glyphWarn   = "⚠"
	glyphActive = "→"
	glyphDir    = "📁"
)
