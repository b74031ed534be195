// Package terminal provides the box drawing, colors and bars used by the
// text report.
package terminal

import (
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/Sumatoshi-tech/codecortex/pkg/safeconv"
)

// Width limits.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 120
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig builds a Config for stdout. A zero width is detected; colors
// are off when noColor is set, NO_COLOR is present or stdout is not a
// terminal.
func NewConfig(width int, noColor bool) Config {
	if width <= 0 {
		width = DetectWidth()
	}

	return Config{
		Width:   width,
		NoColor: noColor || os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(safeconv.FdToInt(f.Fd()))
}

// DetectWidth returns the stdout terminal width, then $COLUMNS, clamped to
// [MinWidth, MaxWidth]. DefaultWidth is used when neither is available.
func DetectWidth() int {
	width := DefaultWidth

	if w, _, err := term.GetSize(safeconv.FdToInt(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	} else if cols, convErr := strconv.Atoi(os.Getenv("COLUMNS")); convErr == nil && cols > 0 {
		width = cols
	}

	return clamp(width)
}

func clamp(width int) int {
	return min(max(width, MinWidth), MaxWidth)
}
