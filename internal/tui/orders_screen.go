package tui

import (
	"fmt"
	"strings"

	"seller-cli/internal/model"
	"seller-cli/internal/orders"
	"seller-cli/internal/slide"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) fetchCmd(t tab) tea.Cmd {
	ctx := m.ctx
	switch t {
	case tabCook:
		v := m.cook
		return func() tea.Msg { return fetchedMsg{tab: t, err: v.Focus(ctx)} }
	case tabToSend:
		v := m.toSend
		return func() tea.Msg { return fetchedMsg{tab: t, err: v.Focus(ctx)} }
	default:
		v := m.newOrders
		return func() tea.Msg { return fetchedMsg{tab: t, err: v.Refresh(ctx)} }
	}
}

func (m appModel) fetchAll() tea.Cmd {
	return tea.Batch(m.fetchCmd(tabNew), m.fetchCmd(tabCook), m.fetchCmd(tabToSend))
}

func (m appModel) pageCmd(next bool) tea.Cmd {
	ctx, t := m.ctx, m.tab
	switch t {
	case tabNew:
		v := m.newOrders
		return func() tea.Msg {
			if next {
				return fetchedMsg{tab: t, err: v.NextPage(ctx)}
			}
			return fetchedMsg{tab: t, err: v.PrevPage(ctx)}
		}
	case tabToSend:
		v := m.toSend
		st := v.State()
		offset := st.CurrentPage - st.Limit
		if next {
			if !st.HasNext() {
				return nil
			}
			offset = st.CurrentPage + st.Limit
		} else if !st.HasPrev() {
			return nil
		}
		return func() tea.Msg { return fetchedMsg{tab: t, err: v.Fetch(ctx, max(offset, 0), st.Limit)} }
	}
	return nil
}

func (m appModel) completeCmd(orderID string) tea.Cmd {
	ctx, v := m.ctx, m.cook
	return func() tea.Msg { return completedMsg{orderID: orderID, err: v.Complete(ctx, orderID)} }
}

func (m appModel) closeCmd(orderID string) tea.Cmd {
	ctx, v := m.ctx, m.toSend
	return func() tea.Msg { return closedMsg{orderID: orderID, err: v.Close(ctx, orderID)} }
}

func (m appModel) tabState(t tab) orders.State {
	switch t {
	case tabCook:
		return m.cook.State()
	case tabToSend:
		return m.toSend.State()
	default:
		return m.newOrders.State()
	}
}

// syncList rebuilds a tab's rows from its view-model, keeping the selection
// on the same order when it is still listed.
func (m *appModel) syncList(t tab) {
	l := &m.lists[t]
	selected := ""
	if it, ok := l.SelectedItem().(orderItem); ok {
		selected = it.order.ID
	}

	st := m.tabState(t)
	first := -1
	if t == tabNew {
		first = orders.FirstEditable(st.Orders)
	}
	items := make([]list.Item, 0, len(st.Orders))
	for i, o := range st.Orders {
		b := badgeNone
		switch {
		case t != tabNew:
		case i == first:
			b = badgeNext
		case o.WaitEdit:
			b = badgeHold
		}
		items = append(items, newOrderItem(o, b))
	}
	l.SetItems(items)

	idx := 0
	if t == tabNew && first >= 0 {
		idx = first
	}
	for i, it := range items {
		if it.(orderItem).order.ID == selected {
			idx = i
			break
		}
	}
	if len(items) > 0 {
		l.Select(idx)
	}
	if t == tabCook {
		m.bindSlider()
	}
}

func (m *appModel) bindSlider() {
	if it, ok := m.lists[tabCook].SelectedItem().(orderItem); ok {
		m.slider.bind(it.order.ID)
		return
	}
	m.slider.bind("")
}

func (m *appModel) selected() (orderItem, bool) {
	it, ok := m.lists[m.tab].SelectedItem().(orderItem)
	return it, ok
}

func (m appModel) focusTab(t tab) (appModel, tea.Cmd) {
	if m.tab == tabCook && t != tabCook {
		m.slider.cancel()
	}
	m.tab = t
	m.loading[t] = true
	cmds := []tea.Cmd{m.fetchCmd(t)}
	if t == tabCook {
		// The summary row counts the to-send list as done.
		m.loading[tabToSend] = true
		cmds = append(cmds, m.fetchCmd(tabToSend))
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) updateOrders(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.updateModal(msg)
	}

	if mm, ok := msg.(tea.MouseMsg); ok {
		if m.tab != tabCook {
			return m, nil
		}
		onRow := mm.Y == m.sliderRow()
		cmd := m.slider.handleMouse(mm, sliderX0, onRow)
		if id := m.slider.takeConfirmed(); id != "" {
			m.loading[tabCook] = true
			return m, m.completeCmd(id)
		}
		return m, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.tab == tabCook {
		if handled, cmd := m.slider.handleKey(k); handled {
			if id := m.slider.takeConfirmed(); id != "" {
				m.loading[tabCook] = true
				return m, m.completeCmd(id)
			}
			return m, cmd
		}
	}

	switch k.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		return m.focusTab((m.tab + 1) % tabCount)
	case "shift+tab":
		return m.focusTab((m.tab + tabCount - 1) % tabCount)
	case "1", "2", "3":
		return m.focusTab(tab(k.String()[0] - '1'))
	case "r":
		return m.focusTab(m.tab)
	case "n", "pgdown":
		if cmd := m.pageCmd(true); cmd != nil {
			m.loading[m.tab] = true
			return m, cmd
		}
		return m, nil
	case "p", "pgup":
		if cmd := m.pageCmd(false); cmd != nil {
			m.loading[m.tab] = true
			return m, cmd
		}
		return m, nil
	case "e":
		return m.openEdit()
	case "c":
		if m.tab != tabToSend {
			return m, nil
		}
		it, ok := m.selected()
		if !ok || !m.guard.TryEnter() {
			return m, nil
		}
		m.pendingClose = it.order.ID
		m.confirmFocus = confirmFocusConfirm
		m.modal = modalConfirmClose
		return m, nil
	case "enter", "v":
		return m.openReceipt()
	case "L":
		if !m.guard.TryEnter() {
			return m, nil
		}
		m.confirmFocus = confirmFocusCancel
		m.modal = modalConfirmLogout
		return m, nil
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	if m.tab == tabCook {
		m.bindSlider()
	}
	return m, cmd
}

func (m appModel) openEdit() (tea.Model, tea.Cmd) {
	if m.tab != tabNew {
		return m, nil
	}
	it, ok := m.selected()
	if !ok {
		return m, nil
	}
	if !m.newOrders.Actionable(it.order.ID) {
		return m, m.showAlert(orders.Alert{Kind: orders.AlertInfo, Title: "Not editable", Message: "Only the next order in line can be edited"})
	}
	if !m.guard.TryEnter() {
		return m, nil
	}
	if err := m.newOrders.BeginEdit(it.order.ID); err != nil {
		return m, m.showAlert(orders.Alert{Kind: orders.AlertError, Title: "Edit failed", Message: err.Error()})
	}
	m.editCursor = 0
	m.modal = modalEdit
	return m, nil
}

func (m appModel) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal == modalEdit {
		draft, _ := m.newOrders.Draft()
		switch k.String() {
		case "up", "k":
			m.editCursor = max(m.editCursor-1, 0)
		case "down", "j":
			m.editCursor = min(m.editCursor+1, max(len(draft.Items)-1, 0))
		case "d", "x", "delete":
			if err := m.newOrders.RemoveDraftItem(m.editCursor); err != nil {
				return m, nil
			}
			m.editCursor = min(m.editCursor, max(len(draft.Items)-2, 0))
		case "s", "ctrl+s":
			if err := m.newOrders.SendDraft(); err != nil {
				return m, m.showAlert(orders.Alert{Kind: orders.AlertError, Title: "Send failed", Message: err.Error()})
			}
			m.modal = modalNone
			m.guard.Reset()
			m.syncList(tabNew)
		case "esc":
			m.newOrders.CancelDraft()
			m.modal = modalNone
			m.guard.Reset()
		}
		return m, nil
	}

	switch k.String() {
	case "tab", "shift+tab", "left", "right":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "esc", "n":
		m.modal = modalNone
		m.pendingClose = ""
		m.guard.Reset()
		return m, nil
	case "y":
		m.confirmFocus = confirmFocusConfirm
		fallthrough
	case "enter":
		kind := m.modal
		m.modal = modalNone
		m.guard.Reset()
		if m.confirmFocus != confirmFocusConfirm {
			m.pendingClose = ""
			return m, nil
		}
		switch kind {
		case modalConfirmClose:
			id := m.pendingClose
			m.pendingClose = ""
			m.loading[tabToSend] = true
			return m, m.closeCmd(id)
		case modalConfirmLogout:
			return m.logout()
		}
	}
	return m, nil
}

func (m appModel) logout() (tea.Model, tea.Cmd) {
	m.sess.Logout(m.ctx)
	m.log.Info().Msg("tui.logout")
	m.slider.cancel()
	m.slider.bind("")
	for i := range m.lists {
		m.lists[i].SetItems(nil)
		m.loading[i] = false
	}
	m.newOrders.CancelDraft()
	m.login = newLoginForm()
	m.screen = screenLogin
	m.tab = tabNew
	return m, m.showAlert(orders.Alert{Kind: orders.AlertInfo, Title: "Signed out"})
}

func (m *appModel) sliderRow() int {
	return headerRows + m.bodyHeight()
}

func (m appModel) viewOrders() string {
	merchant, _ := m.sess.MerchantID()
	lines := []string{
		headerLine(m.width, "merchant "+emptyAsDash(merchant)),
		fitLine(m.viewTabs(), m.width),
		fitLine(m.viewInfoLine(), m.width),
		styleMuted().Render(strings.Repeat(glyphRule(), max(m.width, 0))),
	}

	body := m.lists[m.tab].View()
	if len(m.lists[m.tab].Items()) == 0 && !m.loading[m.tab] {
		body = styleMuted().Render(" No orders.")
	}
	lines = append(lines, fitBlock(body, m.width, m.bodyHeight()))

	sliderLine := ""
	if m.tab == tabCook {
		label := styleMuted().Render("slide to confirm")
		if it, ok := m.lists[tabCook].SelectedItem().(orderItem); ok {
			label = styleMuted().Render("slide to confirm #" + it.view.ID)
			if m.slider.ctrl.State() == slide.Dragging && m.slider.ctrl.Offset() > m.slider.ctrl.Threshold() {
				label = lipgloss.NewStyle().Foreground(colorSuccess).Render("release to confirm #" + it.view.ID)
			}
		}
		sliderLine = strings.Repeat(" ", sliderX0) + m.slider.view(label)
	}
	lines = append(lines,
		fitLine(sliderLine, m.width),
		fitLine(m.statusLine(), m.width),
		fitLine(styleMuted().Render(m.helpLine()), m.width),
	)
	view := strings.Join(lines, "\n")

	switch m.modal {
	case modalEdit:
		if draft, ok := m.newOrders.Draft(); ok {
			return overlay(m.width, m.height, renderEditModal(m.width, draft, m.editCursor))
		}
	case modalConfirmClose:
		body := fmt.Sprintf("Hand over order #%s to the customer?", model.ShortOrderID(m.pendingClose))
		return overlay(m.width, m.height, renderConfirmModal(m.width, "Send order", body, "Send", "Cancel", m.confirmFocus))
	case modalConfirmLogout:
		return overlay(m.width, m.height, renderConfirmModal(m.width, "Sign out", "Sign out of this device?", "Sign out", "Stay", m.confirmFocus))
	}
	return view
}

func (m appModel) viewTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(colorChromeFg).Padding(0, 1)
	parts := make([]string, 0, tabCount)
	for t := tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s (%d)", t+1, t.title(), len(m.lists[t].Items()))
		if t == m.tab {
			parts = append(parts, active.Render(label))
		} else {
			parts = append(parts, inactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// viewInfoLine is the summary row on the cook tab and the pager elsewhere.
func (m appModel) viewInfoLine() string {
	if m.tab == tabCook {
		s := orders.Summarize(m.cook.State().Orders, m.toSend.State().Orders)
		return styleChrome().Render(fmt.Sprintf(" Done %d %s Remaining %d %s Total %d",
			s.Done, glyphBullet(), s.Remaining, glyphBullet(), s.Total))
	}
	st := m.tabState(m.tab)
	page := 1
	if st.Limit > 0 {
		page = st.CurrentPage/st.Limit + 1
	}
	info := fmt.Sprintf(" Page %d/%d", page, max(st.TotalPages, 1))
	if st.HasPrev() {
		info += "  p: prev"
	}
	if st.HasNext() {
		info += "  n: next"
	}
	return styleChrome().Render(info)
}

func (m appModel) helpLine() string {
	switch m.tab {
	case tabCook:
		return "←/→: slide  enter: confirm/receipt  ↑/↓: move  tab: switch  r: refresh  L: sign out  q: quit"
	case tabToSend:
		return "c: send  enter: receipt  ↑/↓: move  n/p: page  tab: switch  r: refresh  L: sign out  q: quit"
	default:
		return "e: edit next  enter: receipt  ↑/↓: move  n/p: page  tab: switch  r: refresh  L: sign out  q: quit"
	}
}
