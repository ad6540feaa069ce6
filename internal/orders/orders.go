// Package orders holds the screen state for the three order lists: new orders,
// the cook queue and orders waiting to be handed over.
//
// A view-model fetches through a Source, keeps the result behind a mutex and
// reports action outcomes through a Notifier. API calls never run under the
// lock, so overlapping fetches race and whichever settles last wins.
package orders

import (
	"context"

	"seller-cli/internal/api"
	"seller-cli/internal/model"

	"github.com/rs/zerolog"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "loading"
	}
}

// Source is the slice of the API client the view-models use.
type Source interface {
	NewOrders(ctx context.Context, offset, limit int) (model.OrderPage, error)
	CompletedOrders(ctx context.Context, offset, limit int) (model.OrderPage, error)
	CookOrders(ctx context.Context) (api.CookQueue, error)
	CompleteOrder(ctx context.Context, orderID string) (api.Result, error)
	CloseOrder(ctx context.Context, orderID string) (api.Result, error)
}

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
	AlertInfo    AlertKind = "info"
)

type Alert struct {
	Kind    AlertKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Notifier shows transient action outcomes to the user.
type Notifier interface {
	Notify(Alert)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Alert)

func (f NotifierFunc) Notify(a Alert) { f(a) }

type discardNotifier struct{}

func (discardNotifier) Notify(Alert) {}

// State is a snapshot of one list screen.
type State struct {
	Phase       Phase         `json:"phase"`
	Orders      []model.Order `json:"orders"`
	Err         string        `json:"error,omitempty"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Limit       int           `json:"limit"`
}

// HasNext reports whether another page follows CurrentPage (an offset).
func (s State) HasNext() bool {
	if s.Limit <= 0 {
		return false
	}
	return s.CurrentPage/s.Limit+1 < s.TotalPages
}

func (s State) HasPrev() bool { return s.CurrentPage > 0 }

func (s State) clone() State {
	out := s
	out.Orders = make([]model.Order, len(s.Orders))
	for i, o := range s.Orders {
		out.Orders[i] = o.Clone()
	}
	return out
}

// Options are shared by every view-model constructor.
type Options struct {
	Logger   zerolog.Logger
	Notifier Notifier
	// PageSize is the default limit for paginated screens.
	PageSize int
}

func (o Options) withDefaults() Options {
	if o.Notifier == nil {
		o.Notifier = discardNotifier{}
	}
	if o.PageSize <= 0 {
		o.PageSize = 10
	}
	return o
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
