package orders

import (
	"context"
	"net/http"
	"sync"

	"seller-cli/internal/api"
	"seller-cli/internal/model"

	"github.com/rs/zerolog"
)

// CookOptions configures the cook-queue screen.
type CookOptions struct {
	Options
	// EmptyOnServerError turns HTTP 500/404 and "no data" failures into an
	// empty, non-error list.
	EmptyOnServerError bool
}

// Cook is the cook-queue screen. Completing an order is a slide gesture in the UI.
type Cook struct {
	src     Source
	log     zerolog.Logger
	notify  Notifier
	lenient bool

	mu    sync.Mutex
	state State
	shape string
}

func NewCook(src Source, opts CookOptions) *Cook {
	o := opts.Options.withDefaults()
	return &Cook{
		src:     src,
		log:     o.Logger,
		notify:  o.Notifier,
		lenient: opts.EmptyOnServerError,
		state:   State{Phase: PhaseLoading, Orders: []model.Order{}},
	}
}

func (v *Cook) Fetch(ctx context.Context) error {
	v.mu.Lock()
	v.state.Phase = PhaseLoading
	v.state.Err = ""
	v.mu.Unlock()

	q, err := v.src.CookOrders(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		if v.lenient && treatAsEmpty(err) {
			v.log.Warn().Int("status", api.StatusOf(err)).Err(err).Msg("orders.cook.empty_on_error")
			v.state = State{Phase: PhaseReady, Orders: []model.Order{}}
			v.shape = api.ShapeEmpty
			return nil
		}
		v.state.Phase = PhaseError
		v.state.Err = errText(err)
		v.log.Warn().Err(err).Msg("orders.cook.fetch")
		return err
	}
	orders := q.Orders
	if orders == nil {
		orders = []model.Order{}
	}
	v.state = State{Phase: PhaseReady, Orders: orders}
	v.shape = q.Shape
	return nil
}

func treatAsEmpty(err error) bool {
	switch api.StatusOf(err) {
	case http.StatusInternalServerError, http.StatusNotFound:
		return true
	}
	return api.IsNoData(err)
}

func (v *Cook) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// Shape is the cook-queue body shape seen on the last successful fetch.
func (v *Cook) Shape() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shape
}

// Views is the UI projection of the current queue.
func (v *Cook) Views() []model.OrderView {
	return model.ToViews(v.State().Orders)
}

// Complete marks orderID (the full id) complete, refetches the queue and
// alerts either way. Nothing is rolled back on failure.
func (v *Cook) Complete(ctx context.Context, orderID string) error {
	if _, err := v.src.CompleteOrder(ctx, orderID); err != nil {
		v.log.Error().Str("order_id", orderID).Err(err).Msg("orders.cook.complete")
		v.notify.Notify(Alert{Kind: AlertError, Title: "Complete failed", Message: "Could not confirm order " + model.ShortOrderID(orderID) + ": " + err.Error()})
		return err
	}
	if err := v.Fetch(ctx); err != nil {
		v.log.Warn().Err(err).Msg("orders.cook.refetch")
	}
	v.log.Info().Str("order_id", orderID).Msg("orders.cook.complete")
	v.notify.Notify(Alert{Kind: AlertSuccess, Title: "Order confirmed", Message: "Order " + model.ShortOrderID(orderID) + " confirmed"})
	return nil
}

// Focus refetches when the screen becomes visible again.
func (v *Cook) Focus(ctx context.Context) error { return v.Fetch(ctx) }
