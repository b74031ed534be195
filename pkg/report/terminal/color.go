package terminal

import "github.com/fatih/color"

// Color names the palette of the report.
type Color int

// Colors.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorCyan
	ColorGray
)

// Score thresholds on the 0-100 quality scale.
const (
	ScoreThresholdGood = 80
	ScoreThresholdFair = 60
)

var attributes = map[Color]color.Attribute{
	ColorGreen:  color.FgGreen,
	ColorYellow: color.FgYellow,
	ColorRed:    color.FgRed,
	ColorBlue:   color.FgBlue,
	ColorCyan:   color.FgCyan,
	ColorGray:   color.FgHiBlack,
}

// Colorize wraps text in the escape codes of c. With NoColor set, or for
// ColorNone, text is returned unchanged.
func (c Config) Colorize(text string, col Color) string {
	attr, ok := attributes[col]
	if c.NoColor || !ok {
		return text
	}

	painter := color.New(attr)
	painter.EnableColor()

	return painter.Sprint(text)
}

// Bold renders text in bold unless colors are off.
func (c Config) Bold(text string) string {
	if c.NoColor {
		return text
	}

	painter := color.New(color.Bold)
	painter.EnableColor()

	return painter.Sprint(text)
}

// ColorForScore picks the color of a 0-100 quality score.
func ColorForScore(score int) Color {
	switch {
	case score >= ScoreThresholdGood:
		return ColorGreen
	case score >= ScoreThresholdFair:
		return ColorYellow
	default:
		return ColorRed
	}
}

// ColorForSeverity maps a finding severity to a color.
func ColorForSeverity(severity string) Color {
	switch severity {
	case "high":
		return ColorRed
	case "medium":
		return ColorYellow
	case "low":
		return ColorBlue
	default:
		return ColorNone
	}
}
