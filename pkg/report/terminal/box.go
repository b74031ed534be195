package terminal

import "strings"

// Box drawing characters.
const (
	BoxHorizontal = "─"

	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// HeaderPadding is the space around header content.
const HeaderPadding = 1

// DrawSeparator draws a thin horizontal line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(BoxHorizontal, width)
}

// DrawHeader draws a heavy-bordered header with title on the left and
// rightText on the right. Lengths are measured on the plain strings, so
// pass uncolored text and colorize the result.
//
//	┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
//	┃ TITLE                    rightText ┃
//	┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func DrawHeader(title, rightText string, width int) string {
	minRequired := len(title) + len(rightText) + 4 + (HeaderPadding * 2)
	if width < minRequired {
		width = minRequired
	}

	innerWidth := width - 2
	contentWidth := innerWidth - (HeaderPadding * 2)

	var content string
	if rightText == "" {
		content = PadRight(title, contentWidth)
	} else {
		gap := max(contentWidth-len(title)-len(rightText), 1)
		content = title + strings.Repeat(" ", gap) + rightText
	}

	pad := strings.Repeat(" ", HeaderPadding)

	return BoxHeavyTopLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyTopRight + "\n" +
		BoxHeavyVertical + pad + content + pad + BoxHeavyVertical + "\n" +
		BoxHeavyBottomLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyBottomRight
}
