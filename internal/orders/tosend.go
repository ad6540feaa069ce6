package orders

import (
	"context"
	"sync"

	"seller-cli/internal/model"

	"github.com/rs/zerolog"
)

// ToSend lists completed orders waiting to be handed over.
type ToSend struct {
	src    Source
	log    zerolog.Logger
	notify Notifier
	limit  int

	mu    sync.Mutex
	state State
}

func NewToSend(src Source, opts Options) *ToSend {
	opts = opts.withDefaults()
	return &ToSend{
		src:    src,
		log:    opts.Logger,
		notify: opts.Notifier,
		limit:  opts.PageSize,
		state:  State{Phase: PhaseLoading, Orders: []model.Order{}, Limit: opts.PageSize},
	}
}

func (v *ToSend) Fetch(ctx context.Context, offset, limit int) error {
	if limit <= 0 {
		limit = v.limit
	}
	if offset < 0 {
		offset = 0
	}
	v.mu.Lock()
	v.state.Phase = PhaseLoading
	v.state.Err = ""
	v.mu.Unlock()

	page, err := v.src.CompletedOrders(ctx, offset, limit)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state.Phase = PhaseError
		v.state.Err = errText(err)
		v.log.Warn().Int("offset", offset).Err(err).Msg("orders.tosend.fetch")
		return err
	}
	orders := page.Orders
	if orders == nil {
		orders = []model.Order{}
	}
	v.state = State{
		Phase:       PhaseReady,
		Orders:      orders,
		TotalPages:  page.TotalPage,
		CurrentPage: offset,
		Limit:       limit,
	}
	return nil
}

func (v *ToSend) Refresh(ctx context.Context) error {
	s := v.State()
	return v.Fetch(ctx, s.CurrentPage, s.Limit)
}

func (v *ToSend) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// Close hands orderID over, refetches and alerts either way.
func (v *ToSend) Close(ctx context.Context, orderID string) error {
	if _, err := v.src.CloseOrder(ctx, orderID); err != nil {
		v.log.Error().Str("order_id", orderID).Err(err).Msg("orders.tosend.close")
		v.notify.Notify(Alert{Kind: AlertError, Title: "Send failed", Message: "Could not send order " + model.ShortOrderID(orderID) + ": " + err.Error()})
		return err
	}
	if err := v.Refresh(ctx); err != nil {
		v.log.Warn().Err(err).Msg("orders.tosend.refetch")
	}
	v.notify.Notify(Alert{Kind: AlertSuccess, Title: "Order sent", Message: "Order " + model.ShortOrderID(orderID) + " sent"})
	return nil
}

func (v *ToSend) Focus(ctx context.Context) error { return v.Refresh(ctx) }
