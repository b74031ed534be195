package terminal //nolint:testpackage // clamp is unexported.

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawHeader(t *testing.T) {
	t.Parallel()

	out := DrawHeader("CODECORTEX", "v1", 30)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], BoxHeavyTopLeft))
	assert.Contains(t, lines[1], "CODECORTEX")
	assert.True(t, strings.HasSuffix(lines[1], "v1 "+BoxHeavyVertical))
	assert.Equal(t, 30, len([]rune(lines[1])))
}

func TestDrawHeader_GrowsToFit(t *testing.T) {
	t.Parallel()

	out := DrawHeader("A VERY LONG TITLE", "RIGHT", 5)

	assert.Contains(t, out, "A VERY LONG TITLE  RIGHT")
}

func TestDrawProgressBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "███████░░░", DrawProgressBar(0.7, 10))
	assert.Equal(t, "░░░░", DrawProgressBar(-1, 4))
	assert.Equal(t, "████", DrawProgressBar(2, 4))
}

func TestFormatScoreBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[████████░░] 80/100", FormatScoreBar(80, 10))
}

func TestColorize(t *testing.T) {
	t.Parallel()

	plain := Config{NoColor: true}
	assert.Equal(t, "ok", plain.Colorize("ok", ColorGreen))
	assert.Equal(t, "ok", plain.Bold("ok"))

	colored := Config{}
	assert.Equal(t, "ok", colored.Colorize("ok", ColorNone))
	assert.Equal(t, "\x1b[32mok\x1b[0m", colored.Colorize("ok", ColorGreen))
}

func TestColorForScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ColorGreen, ColorForScore(95))
	assert.Equal(t, ColorYellow, ColorForScore(60))
	assert.Equal(t, ColorRed, ColorForScore(59))
}

func TestColorForSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ColorRed, ColorForSeverity("high"))
	assert.Equal(t, ColorYellow, ColorForSeverity("medium"))
	assert.Equal(t, ColorBlue, ColorForSeverity("low"))
	assert.Equal(t, ColorNone, ColorForSeverity("other"))
}

func TestTextHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc  ", PadRight("abc", 5))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
	assert.Equal(t, "abc...", TruncateWithEllipsis("abcdefghij", 6))
	assert.Equal(t, "..", TruncateWithEllipsis("abcdefghij", 2))
	assert.Equal(t, "short", TruncateWithEllipsis("short", 10))
}

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MinWidth, clamp(10))
	assert.Equal(t, MaxWidth, clamp(500))
	assert.Equal(t, 100, clamp(100))
}
