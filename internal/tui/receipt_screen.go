package tui

import (
	"seller-cli/internal/receipt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) openReceipt() (tea.Model, tea.Cmd) {
	it, ok := m.selected()
	if !ok || !m.guard.TryEnter() {
		return m, nil
	}
	m.receiptOrder = it.order
	m.screen = screenReceipt
	m.renderReceipt()
	m.receiptVP.GotoTop()
	return m, nil
}

func (m *appModel) renderReceipt() {
	md := receipt.Markdown(m.receiptOrder, receipt.Options{ShowFullID: true})
	m.receiptVP.SetContent(receipt.Terminal(md, max(m.width-2, 20), receiptStyle()))
}

func (m appModel) updateReceipt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q", "backspace":
			m.screen = screenOrders
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.receiptVP, cmd = m.receiptVP.Update(msg)
	return m, cmd
}

func (m appModel) viewReceipt() string {
	title := headerLine(m.width, "receipt #"+m.receiptOrder.ShortID())
	help := styleMuted().Render("↑/↓: scroll   esc: back")
	return title + "\n" + fitBlock(m.receiptVP.View(), m.width, m.receiptVP.Height) + "\n" + fitLine(help, m.width)
}
