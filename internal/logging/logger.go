package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger provides levelled, optionally coloured output plus the verbose and
// timing helpers. The zero value discards everything.
type Logger struct {
	Writer  io.Writer
	Verbose bool
	Color   bool
	mu      *sync.Mutex
}

// New colours level prefixes only when writer is a terminal.
func New(writer io.Writer, verbose bool) Logger {
	return Logger{
		Writer:  writer,
		Verbose: verbose,
		Color:   isTerminal(writer),
		mu:      &sync.Mutex{},
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func (l Logger) Infof(format string, args ...any) {
	l.printf(color.FgGreen, "INFO", format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	l.printf(color.FgYellow, "WARN", format, args...)
}

func (l Logger) Errorf(format string, args ...any) {
	l.printf(color.FgRed, "ERROR", format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose {
		return
	}
	l.printf(color.FgCyan, "DEBUG", format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}

func (l Logger) printf(attr color.Attribute, level, format string, args ...any) {
	if l.Writer == nil {
		return
	}
	prefix := fmt.Sprintf("%-5s", level)
	if l.Color {
		c := color.New(attr, color.Bold)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	line := fmt.Sprintf("%s %s %s\n", time.Now().Format("2006-01-02 15:04:05"), prefix, fmt.Sprintf(format, args...))
	if l.mu != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	io.WriteString(l.Writer, line)
}
