package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a text input as one line on the input background.
func renderInputLine(bodyW int, inputView string) string {
	bodyW = max(bodyW, 10)

	// A wrapped input looks like the cursor inserted a newline.
	inputView = strings.NewReplacer("\n", " ", "\r", " ").Replace(inputView)

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

// renderField is a labelled input line; the label is accented while focused.
func renderField(bodyW int, label, inputView string, focused bool) string {
	lbl := styleMuted().Render(label)
	if focused {
		lbl = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label)
	}
	return lbl + "\n" + renderInputLine(bodyW, inputView)
}
