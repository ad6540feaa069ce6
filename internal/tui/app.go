package tui

import (
	"context"
	"fmt"
	"strings"

	"seller-cli/internal/model"
	"seller-cli/internal/navguard"
	"seller-cli/internal/orders"
	"seller-cli/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type screen int

const (
	screenLogin screen = iota
	screenOrders
	screenReceipt
)

type tab int

const (
	tabNew tab = iota
	tabCook
	tabToSend
	tabCount
)

func (t tab) title() string {
	switch t {
	case tabCook:
		return "Cooking"
	case tabToSend:
		return "To send"
	default:
		return "New"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalEdit
	modalConfirmClose
	modalConfirmLogout
)

// Rows above and below the order list on the orders screen.
const (
	headerRows = 4
	footerRows = 3
	// sliderX0 is the column where the slide track starts.
	sliderX0 = 1
)

type fetchedMsg struct {
	tab tab
	err error
}

type completedMsg struct {
	orderID string
	err     error
}

type closedMsg struct {
	orderID string
	err     error
}

type appModel struct {
	ctx  context.Context
	sess *session.Session
	api  backend
	log  zerolog.Logger

	width  int
	height int

	screen screen
	tab    tab
	guard  *navguard.Guard

	login loginForm

	newOrders *orders.NewOrders
	cook      *orders.Cook
	toSend    *orders.ToSend
	lists     [tabCount]list.Model
	loading   [tabCount]bool
	spinner   spinner.Model
	slider    *slideBar

	modal        modalKind
	editCursor   int
	confirmFocus confirmModalFocus
	pendingClose string

	receiptVP    viewport.Model
	receiptOrder model.Order

	alerts   chanNotifier
	alert    *orders.Alert
	alertSeq int
}

func newAppModel(ctx context.Context, sess *session.Session, client backend, d Deps) appModel {
	alerts := make(chanNotifier, 16)
	opts := orders.Options{Logger: d.Logger, Notifier: alerts, PageSize: d.PageSize}
	cookOpts := d.Cook
	cookOpts.Options = opts

	m := appModel{
		ctx:       ctx,
		sess:      sess,
		api:       client,
		log:       d.Logger,
		width:     80,
		height:    24,
		guard:     navguard.New(),
		login:     newLoginForm(),
		newOrders: orders.NewNewOrders(client, opts),
		cook:      orders.NewCook(client, cookOpts),
		toSend:    orders.NewToSend(client, opts),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		slider:    newSlideBar(d.Slide.TrackWidth, d.Slide.Height),
		receiptVP: viewport.New(80, 20),
		alerts:    alerts,
	}
	for i := range m.lists {
		m.lists[i] = newOrderList()
	}
	m.resize()

	if sess.IsAuthenticated() {
		m.screen = screenOrders
		for i := range m.loading {
			m.loading[i] = true
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForAlert(m.alerts), m.spinner.Tick}
	if m.screen == screenOrders {
		cmds = append(cmds, m.fetchAll())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.screen == screenReceipt {
			m.renderReceipt()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case alertMsg:
		return m, tea.Batch(m.showAlert(orders.Alert(msg)), waitForAlert(m.alerts))

	case alertExpiredMsg:
		if msg.seq == m.alertSeq {
			m.alert = nil
		}
		return m, nil

	case snapFrameMsg:
		return m, m.slider.advance(msg)

	case otpRequestedMsg, loggedInMsg:
		return m.updateLoginResult(msg)

	case fetchedMsg:
		m.loading[msg.tab] = false
		if msg.err != nil {
			m.log.Warn().Str("tab", msg.tab.title()).Err(msg.err).Msg("tui.fetch")
		}
		m.syncList(msg.tab)
		return m, nil

	case completedMsg:
		m.loading[tabCook] = false
		m.syncList(tabCook)
		if msg.err != nil {
			return m, nil
		}
		// Done counts come from the to-send list.
		m.loading[tabToSend] = true
		return m, m.fetchCmd(tabToSend)

	case closedMsg:
		m.loading[tabToSend] = false
		m.syncList(tabToSend)
		return m, nil
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenReceipt:
		return m.updateReceipt(msg)
	default:
		return m.updateOrders(msg)
	}
}

func (m appModel) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.viewLogin()
	case screenReceipt:
		body = m.viewReceipt()
	default:
		body = m.viewOrders()
	}
	return body
}

func (m *appModel) showAlert(a orders.Alert) tea.Cmd {
	m.alertSeq++
	m.alert = &a
	return expireAlert(m.alertSeq)
}

func (m *appModel) bodyHeight() int {
	return max(m.height-headerRows-footerRows, 3)
}

func (m *appModel) resize() {
	for i := range m.lists {
		m.lists[i].SetSize(m.width, m.bodyHeight())
	}
	m.receiptVP.Width = m.width
	m.receiptVP.Height = max(m.height-2, 3)
}

// statusLine is the transient row above the help: alert, then spinner, then
// the current tab's error.
func (m appModel) statusLine() string {
	if m.alert != nil {
		return renderAlert(*m.alert)
	}
	if m.screen == screenLogin && m.login.busy {
		return m.spinner.View() + " Working…"
	}
	if m.screen == screenOrders && m.loading[m.tab] {
		return m.spinner.View() + " Loading " + strings.ToLower(m.tab.title()) + "…"
	}
	if m.screen == screenOrders {
		if st := m.tabState(m.tab); st.Phase == orders.PhaseError {
			return lipgloss.NewStyle().Foreground(colorError).Render("! "+st.Err) + "  " + styleMuted().Render("r: retry")
		}
	}
	return ""
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func headerLine(width int, parts ...string) string {
	title := lipgloss.NewStyle().Bold(true).Render("Seller POS")
	rest := styleChrome().Render(strings.Join(parts, fmt.Sprintf(" %s ", glyphSeparator())))
	return fitLine(title+"  "+rest, width)
}
