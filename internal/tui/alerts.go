package tui

import (
	"time"

	"seller-cli/internal/orders"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const alertTTL = 4 * time.Second

type alertMsg orders.Alert

type alertExpiredMsg struct{ seq int }

// chanNotifier hands view-model alerts to the UI loop. Alerts raised while
// the buffer is full are dropped.
type chanNotifier chan orders.Alert

func (c chanNotifier) Notify(a orders.Alert) {
	select {
	case c <- a:
	default:
	}
}

func waitForAlert(c chanNotifier) tea.Cmd {
	return func() tea.Msg { return alertMsg(<-c) }
}

func expireAlert(seq int) tea.Cmd {
	return tea.Tick(alertTTL, func(time.Time) tea.Msg { return alertExpiredMsg{seq: seq} })
}

func renderAlert(a orders.Alert) string {
	fg := colorInfo
	mark := glyphBullet()
	switch a.Kind {
	case orders.AlertSuccess:
		fg = colorSuccess
		mark = glyphCheck()
	case orders.AlertError:
		fg = colorError
		mark = "!"
	}
	title := lipgloss.NewStyle().Foreground(fg).Bold(true).Render(mark + " " + a.Title)
	if a.Message == "" {
		return title
	}
	return title + "  " + a.Message
}
