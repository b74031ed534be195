package terminal

import (
	"fmt"
	"strings"
)

// Ellipsis is appended to truncated strings.
const Ellipsis = "..."

// TruncateWithEllipsis shortens s to maxWidth bytes, ending in "...".
func TruncateWithEllipsis(s string, maxWidth int) string {
	if len(s) <= maxWidth {
		return s
	}

	if maxWidth <= len(Ellipsis) {
		return strings.Repeat(".", max(maxWidth, 0))
	}

	return s[:maxWidth-len(Ellipsis)] + Ellipsis
}

// PadRight pads s with spaces to width.
func PadRight(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}

// Progress bar characters.
const (
	ProgressFilled = "█"
	ProgressEmpty  = "░"
)

// DrawProgressBar draws value, clamped to [0, 1], as a bar of width cells.
func DrawProgressBar(value float64, width int) string {
	value = min(max(value, 0), 1)
	filled := int(value * float64(width))

	return strings.Repeat(ProgressFilled, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// ScoreMax is the top of the quality scale.
const ScoreMax = 100

// FormatScoreBar formats a 0-100 score as "[████████░░] 80/100".
func FormatScoreBar(score, barWidth int) string {
	return fmt.Sprintf("[%s] %d/%d", DrawProgressBar(float64(score)/ScoreMax, barWidth), score, ScoreMax)
}
