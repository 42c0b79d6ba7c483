package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/rogerjs93/rsvp/reader"
)

// focusIndex picks the rune the eye should land on. Shorter words focus
// near the front, longer words a bit deeper in.
func focusIndex(runes []rune) int {
	switch n := len(runes); {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return 4
	}
}

// renderWord renders a single token with its focus rune highlighted and
// aligned to the pivot column so consecutive words don't jitter.
func renderWord(tok reader.Token, width int) string {
	runes := []rune(tok.Text)
	if len(runes) == 0 {
		return ""
	}
	fi := focusIndex(runes)

	pre := string(runes[:fi])
	focus := string(runes[fi])
	post := string(runes[fi+1:])

	pivot := width / 2
	pad := pivot - runewidth.StringWidth(pre)
	if pad < 0 {
		pad = 0
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(wordStyle.Render(pre))
	b.WriteString(focusStyle.Render(focus))
	b.WriteString(wordStyle.Render(post))
	return b.String()
}

// renderGuide renders the alignment ruler above and below the word.
func renderGuide(width int) string {
	pivot := width / 2
	if pivot < 1 {
		pivot = 1
	}
	span := 10
	left := pivot - span
	if left < 0 {
		left = 0
	}
	line := strings.Repeat(" ", left) +
		strings.Repeat("─", pivot-left) + "┬" + strings.Repeat("─", span)
	return guideStyle.Render(line)
}

func renderGuideBottom(width int) string {
	pivot := width / 2
	if pivot < 1 {
		pivot = 1
	}
	span := 10
	left := pivot - span
	if left < 0 {
		left = 0
	}
	line := strings.Repeat(" ", left) +
		strings.Repeat("─", pivot-left) + "┴" + strings.Repeat("─", span)
	return guideStyle.Render(line)
}
