package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"seller-cli/internal/model"

	"github.com/rs/zerolog"
)

var (
	ErrNotEditable = errors.New("only the first order not waiting for edit can be edited")
	ErrNoDraft     = errors.New("no order is being edited")
)

// NewOrders is the new-orders screen: a paginated list plus a local edit draft.
type NewOrders struct {
	src    Source
	log    zerolog.Logger
	notify Notifier
	limit  int

	mu    sync.Mutex
	state State
	draft *model.Order
}

func NewNewOrders(src Source, opts Options) *NewOrders {
	opts = opts.withDefaults()
	return &NewOrders{
		src:    src,
		log:    opts.Logger,
		notify: opts.Notifier,
		limit:  opts.PageSize,
		state:  State{Phase: PhaseLoading, Orders: []model.Order{}, Limit: opts.PageSize},
	}
}

// Fetch loads one page. On failure the previous orders are kept and the error
// text is stored for display.
func (v *NewOrders) Fetch(ctx context.Context, offset, limit int) error {
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

	page, err := v.src.NewOrders(ctx, offset, limit)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state.Phase = PhaseError
		v.state.Err = errText(err)
		v.log.Warn().Int("offset", offset).Err(err).Msg("orders.new.fetch")
		return err
	}
	v.state = State{
		Phase:       PhaseReady,
		Orders:      page.Orders,
		TotalPages:  page.TotalPage,
		CurrentPage: offset,
		Limit:       limit,
	}
	if v.state.Orders == nil {
		v.state.Orders = []model.Order{}
	}
	return nil
}

// Refresh refetches the current page.
func (v *NewOrders) Refresh(ctx context.Context) error {
	s := v.State()
	return v.Fetch(ctx, s.CurrentPage, s.Limit)
}

func (v *NewOrders) NextPage(ctx context.Context) error {
	s := v.State()
	if !s.HasNext() {
		return nil
	}
	return v.Fetch(ctx, s.CurrentPage+s.Limit, s.Limit)
}

func (v *NewOrders) PrevPage(ctx context.Context) error {
	s := v.State()
	if !s.HasPrev() {
		return nil
	}
	prev := s.CurrentPage - s.Limit
	if prev < 0 {
		prev = 0
	}
	return v.Fetch(ctx, prev, s.Limit)
}

func (v *NewOrders) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// FirstEditable is the index of the first order not held for edit, or -1.
func FirstEditable(orders []model.Order) int {
	for i, o := range orders {
		if !o.WaitEdit {
			return i
		}
	}
	return -1
}

func (v *NewOrders) FirstEditable() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FirstEditable(v.state.Orders)
}

// Actionable reports whether accept/edit/cancel apply to orderID.
func (v *NewOrders) Actionable(orderID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := FirstEditable(v.state.Orders)
	return i >= 0 && v.state.Orders[i].ID == orderID
}

// BeginEdit opens a draft copy of the first editable order.
func (v *NewOrders) BeginEdit(orderID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := FirstEditable(v.state.Orders)
	if i < 0 || v.state.Orders[i].ID != orderID {
		return ErrNotEditable
	}
	d := v.state.Orders[i].Clone()
	v.draft = &d
	return nil
}

// Draft returns a copy of the order being edited.
func (v *NewOrders) Draft() (model.Order, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.draft == nil {
		return model.Order{}, false
	}
	return v.draft.Clone(), true
}

// RemoveDraftItem drops line i from the draft only.
func (v *NewOrders) RemoveDraftItem(i int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.draft == nil {
		return ErrNoDraft
	}
	if i < 0 || i >= len(v.draft.Items) {
		return fmt.Errorf("item index %d out of range (0..%d)", i, len(v.draft.Items)-1)
	}
	items := make([]model.OrderItem, 0, len(v.draft.Items)-1)
	items = append(items, v.draft.Items[:i]...)
	items = append(items, v.draft.Items[i+1:]...)
	v.draft.Items = items
	return nil
}

// SendDraft swaps the draft into the list by order_id and closes the editor.
// The change is local; no request is made.
func (v *NewOrders) SendDraft() error {
	v.mu.Lock()
	if v.draft == nil {
		v.mu.Unlock()
		return ErrNoDraft
	}
	d := *v.draft
	v.draft = nil
	for i := range v.state.Orders {
		if v.state.Orders[i].ID == d.ID {
			v.state.Orders[i] = d
		}
	}
	v.mu.Unlock()

	v.log.Info().Str("order_id", d.ID).Int("items", len(d.Items)).Msg("orders.new.draft_applied")
	v.notify.Notify(Alert{Kind: AlertInfo, Title: "Order updated", Message: "Order " + d.ShortID() + " updated locally"})
	return nil
}

func (v *NewOrders) CancelDraft() {
	v.mu.Lock()
	v.draft = nil
	v.mu.Unlock()
}

func (v *NewOrders) Editing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft != nil
}
