package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"seller-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type badge int

const (
	badgeNone badge = iota
	// badgeNext marks the first editable order on the new tab.
	badgeNext
	badgeHold
)

// orderItem is one list row. order keeps the full server record; view is
// the display projection.
type orderItem struct {
	order model.Order
	view  model.OrderView
	badge badge
}

func newOrderItem(o model.Order, b badge) orderItem {
	return orderItem{order: o, view: model.ToView(o), badge: b}
}

func (it orderItem) FilterValue() string { return it.view.ID }

func (it orderItem) Title() string {
	parts := make([]string, 0, len(it.view.Items))
	for _, vi := range it.view.Items {
		parts = append(parts, fmt.Sprintf("%d%s %s", vi.Qty, glyphTimes(), vi.Name))
	}
	return strings.Join(parts, ", ")
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func newOrderList() list.Model {
	l := list.New(nil, newOrderDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("order", "orders")
	// q quits the app, not the list; esc is "back".
	l.KeyMap.Quit.SetKeys()
	l.KeyMap.ForceQuit.SetKeys()
	cursorUp := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUp, "ctrl+p")...)
	cursorDown := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDown, "ctrl+n")...)
	return l
}

type orderDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	id       lipgloss.Style
	next     lipgloss.Style
	hold     lipgloss.Style
	fast     lipgloss.Style
	status   lipgloss.Style
}

func newOrderDelegate() orderDelegate {
	return orderDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		id:     lipgloss.NewStyle().Bold(true),
		next:   lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1),
		hold:   lipgloss.NewStyle().Foreground(colorHold),
		fast:   lipgloss.NewStyle().Foreground(colorHold).Bold(true),
		status: styleMuted(),
	}
}

func (d orderDelegate) Height() int                             { return 1 }
func (d orderDelegate) Spacing() int                            { return 0 }
func (d orderDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d orderDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(orderItem)
	if !ok {
		fmt.Fprint(w, fitLine(fmt.Sprint(item), contentW))
		return
	}

	var b strings.Builder
	b.WriteString(d.id.Render("#" + it.view.ID))
	b.WriteString(" ")
	switch it.badge {
	case badgeNext:
		b.WriteString(d.next.Render(glyphNext() + " next"))
		b.WriteString(" ")
	case badgeHold:
		b.WriteString(d.hold.Render(glyphPause() + " hold"))
		b.WriteString(" ")
	}
	if it.order.HasFastLane() {
		b.WriteString(d.fast.Render(glyphFastLane()))
		b.WriteString(" ")
	}
	b.WriteString(it.Title())
	b.WriteString(" ")
	b.WriteString(d.status.Render(glyphSeparator() + " " + formatPrice(it.order.TotalPrice()) + " " + glyphSeparator() + " " + it.view.Status.Label()))

	line := b.String()
	if index == m.Index() {
		// Re-render plain so the selection background spans the whole row.
		line = d.selected.Render(fitLine(xansi.Strip(line), contentW))
	} else {
		line = d.normal.Render(fitLine(line, contentW))
	}
	fmt.Fprint(w, line)
}
