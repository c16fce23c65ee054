// Package cli holds the small terminal-presentation helpers shared by
// cmd/tcdesugar: isatty-gated color output for diagnostics, grounded on
// the teacher's internal/evaluator/builtins_term.go detectColorLevel.
package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

var (
	colorOnce    sync.Once
	colorEnabled bool
)

// ColorEnabled reports whether diagnostic output should be ANSI-colored,
// honoring NO_COLOR (https://no-color.org/), TERM=dumb, and the
// teacher's IsTerminal/IsCygwinTerminal pair for the std* fd in use.
func ColorEnabled() bool {
	colorOnce.Do(func() {
		colorEnabled = detectColor(os.Stderr)
	})
	return colorEnabled
}

// Override forces ColorEnabled's result, used when a config file sets
// color explicitly rather than leaving it to terminal detection.
func Override(enabled bool) {
	colorOnce.Do(func() {})
	colorEnabled = enabled
}

func detectColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

func paint(code, s string) string {
	if !ColorEnabled() {
		return s
	}
	return code + s + reset
}

// Error renders s as an error-severity diagnostic prefix.
func Error(s string) string { return paint(bold+red, s) }

// Warning renders s as a warning-severity diagnostic prefix.
func Warning(s string) string { return paint(yellow, s) }

// Info renders s as an informational label, e.g. a module or run name.
func Info(s string) string { return paint(cyan, s) }

// Fprintf writes format and args to w as fmt.Fprintf does, adding no
// color and no newline of its own; any ANSI sequences come from args
// already passed through Error, Warning or Info.
func Fprintf(w *os.File, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
