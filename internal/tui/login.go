package tui

import (
	"errors"
	"strings"

	"seller-cli/internal/orders"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginStep int

const (
	stepPhone loginStep = iota
	stepOTP
)

var errNoToken = errors.New("verification succeeded but no token was returned")

type otpRequestedMsg struct {
	phone string
	err   error
}

type loggedInMsg struct {
	err error
}

type loginForm struct {
	step   loginStep
	phone  textinput.Model
	otp    textinput.Model
	busy   bool
	err    string
	sentTo string
}

func newLoginForm() loginForm {
	phone := textinput.New()
	phone.Placeholder = "+66812345678"
	phone.Prompt = ""
	phone.CharLimit = 20
	phone.Focus()

	otp := textinput.New()
	otp.Placeholder = "6-digit code"
	otp.Prompt = ""
	otp.CharLimit = 6
	otp.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return errors.New("digits only")
			}
		}
		return nil
	}
	return loginForm{phone: phone, otp: otp}
}

func (m appModel) requestOTPCmd(phone string) tea.Cmd {
	client, ctx := m.api, m.ctx
	return func() tea.Msg {
		_, err := client.RequestOTP(ctx, phone)
		return otpRequestedMsg{phone: phone, err: err}
	}
}

// verifyCmd checks the code and stores the token (and any cookies) in the session.
func (m appModel) verifyCmd(phone, code string) tea.Cmd {
	client, sess, ctx := m.api, m.sess, m.ctx
	return func() tea.Msg {
		res, err := client.VerifyOTP(ctx, phone, code)
		if err != nil {
			return loggedInMsg{err: err}
		}
		tok := res.BearerToken()
		if tok == "" {
			return loggedInMsg{err: errNoToken}
		}
		if err := sess.Login(ctx, tok); err != nil {
			return loggedInMsg{err: err}
		}
		if res.Cookies != "" {
			if err := sess.SetCookies(ctx, res.Cookies); err != nil {
				return loggedInMsg{err: err}
			}
		}
		return loggedInMsg{}
	}
}

func (m appModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.login.step == stepOTP && !m.login.busy {
			m.login.step = stepPhone
			m.login.err = ""
			m.login.otp.Reset()
			m.login.otp.Blur()
			m.login.phone.Focus()
		}
		return m, nil
	case "enter":
		if m.login.busy {
			return m, nil
		}
		m.login.err = ""
		if m.login.step == stepPhone {
			phone := strings.TrimSpace(m.login.phone.Value())
			if phone == "" {
				m.login.err = "Enter a phone number"
				return m, nil
			}
			m.login.busy = true
			return m, m.requestOTPCmd(phone)
		}
		code := strings.TrimSpace(m.login.otp.Value())
		if len(code) != 6 {
			m.login.err = "The code has 6 digits"
			return m, nil
		}
		m.login.busy = true
		return m, m.verifyCmd(m.login.sentTo, code)
	}

	var cmd tea.Cmd
	if m.login.step == stepPhone {
		m.login.phone, cmd = m.login.phone.Update(k)
	} else {
		m.login.otp, cmd = m.login.otp.Update(k)
	}
	return m, cmd
}

func (m appModel) updateLoginResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	switch msg := msg.(type) {
	case otpRequestedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("tui.login.request_otp")
			m.login.err = msg.err.Error()
			return m, nil
		}
		m.login.sentTo = msg.phone
		m.login.step = stepOTP
		m.login.phone.Blur()
		m.login.otp.Reset()
		m.login.otp.Focus()
		return m, m.showAlert(orders.Alert{Kind: orders.AlertInfo, Title: "Code sent", Message: "Check " + msg.phone})

	case loggedInMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("tui.login.verify")
			m.login.err = msg.err.Error()
			return m, nil
		}
		m.log.Info().Msg("tui.login")
		m.login = newLoginForm()
		m.screen = screenOrders
		m.tab = tabNew
		for i := range m.loading {
			m.loading[i] = true
		}
		return m, tea.Batch(
			m.showAlert(orders.Alert{Kind: orders.AlertSuccess, Title: "Signed in"}),
			m.fetchAll(),
		)
	}
	return m, nil
}

func (m appModel) viewLogin() string {
	bodyW := modalBodyWidth(m.width)
	var parts []string
	parts = append(parts, renderField(bodyW, "Phone", m.login.phone.View(), m.login.step == stepPhone))
	if m.login.step == stepOTP {
		parts = append(parts, "", renderField(bodyW, "Code sent to "+m.login.sentTo, m.login.otp.View(), true))
	}
	if m.login.err != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(colorError).Width(bodyW).Render(m.login.err))
	}
	help := "enter: send code   ctrl+c: quit"
	if m.login.step == stepOTP {
		help = "enter: verify   esc: change phone   ctrl+c: quit"
	}
	parts = append(parts, "", styleMuted().Width(bodyW).Render(help))

	box := renderModalBox(m.width, "Sign in", strings.Join(parts, "\n"))
	screenH := max(m.height-1, 1)
	return overlay(m.width, screenH, box) + "\n" + fitLine(m.statusLine(), m.width)
}
