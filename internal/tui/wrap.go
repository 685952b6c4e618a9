// Package tui provides the Bubble Tea labeling interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps text to the given display width, breaking on spaces and
// hard-breaking words wider than a full line. Widths are display widths,
// not rune counts.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out strings.Builder
	lineWidth := 0
	for i, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+wordWidth > width {
			out.WriteByte('\n')
			lineWidth = 0
		} else if i > 0 && lineWidth > 0 {
			out.WriteByte(' ')
			lineWidth++
		}
		if wordWidth > width {
			lineWidth = writeBrokenWord(&out, word, width, lineWidth)
			continue
		}
		out.WriteString(word)
		lineWidth += wordWidth
	}
	return out.String()
}

func writeBrokenWord(out *strings.Builder, word string, width, lineWidth int) int {
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if lineWidth+rw > width {
			out.WriteByte('\n')
			lineWidth = 0
		}
		out.WriteRune(r)
		lineWidth += rw
	}
	return lineWidth
}
