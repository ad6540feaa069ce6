package tui

import (
	"fmt"
	"strings"

	"seller-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

func modalWidth(width int) int {
	return min(max(width-8, 30), 64)
}

// modalBodyWidth is the content width inside renderModalBox's padding.
func modalBodyWidth(width int) int {
	return modalWidth(width) - 4
}

func renderModalBox(width int, title, content string) string {
	w := modalWidth(width)
	header := lipgloss.NewStyle().
		Width(w).
		Padding(0, 2).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Render(title)
	body := lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func renderButtons(confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// No borders: nested borders on a colored modal leave artifacts in some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	return lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	help := styleMuted().Width(modalBodyWidth(width)).Render("tab: focus   enter: select   esc: cancel")
	content := strings.Join([]string{
		body,
		"",
		renderButtons(confirmLabel, cancelLabel, focus),
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

// renderEditModal shows the draft's lines with the cursor on line `cursor`.
func renderEditModal(width int, draft model.Order, cursor int) string {
	bodyW := modalBodyWidth(width)
	sel := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	var b strings.Builder
	if len(draft.Items) == 0 {
		b.WriteString(styleMuted().Render("(no items left)"))
		b.WriteString("\n")
	}
	for i, it := range draft.Items {
		line := fitLine(fmt.Sprintf(" %d%s %s  %s", it.Quantity, glyphTimes(), it.Menu.Name, formatPrice(it.Menu.Price*float64(it.Quantity))), bodyW)
		if i == cursor {
			line = sel.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(fmt.Sprintf("Total %s %s", glyphArrow(), formatPrice(draft.TotalPrice()))))

	help := styleMuted().Width(bodyW).Render("↑/↓: line   d: remove   s: send   esc: cancel")
	return renderModalBox(width, "Edit order "+draft.ShortID(), b.String()+"\n\n"+help)
}

// overlay centers box over the screen.
func overlay(width, height int, box string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
