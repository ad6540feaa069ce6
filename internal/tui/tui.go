// Package tui is the interactive point-of-sale screen: OTP login, the three
// order tabs, the slide-to-confirm control and receipts.
package tui

import (
	"context"

	"seller-cli/internal/api"
	"seller-cli/internal/orders"
	"seller-cli/internal/session"
	"seller-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type Deps struct {
	Session  *session.Session
	Client   *api.Client
	Logger   zerolog.Logger
	PageSize int
	Slide    store.SlideConfig
	Cook     orders.CookOptions
}

// backend is the part of *api.Client the screens call.
type backend interface {
	orders.Source
	RequestOTP(ctx context.Context, phone string) (api.Result, error)
	VerifyOTP(ctx context.Context, phone, otp string) (api.VerifyResponse, error)
}

func Run(d Deps) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(context.Background(), d.Session, d.Client, d)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
