package model

// ViewStatus is the UI-side order state.
type ViewStatus string

const (
	ViewPending    ViewStatus = "pending"
	ViewInProgress ViewStatus = "in-progress"
	ViewDone       ViewStatus = "done"
)

// ViewStatusFor maps a server status to its UI state. Unknown statuses are pending.
func ViewStatusFor(s OrderStatus) ViewStatus {
	switch s {
	case OrderStatusCook:
		return ViewInProgress
	case OrderStatusComplete, OrderStatusClose:
		return ViewDone
	default:
		return ViewPending
	}
}

// ServerStatus is the inverse of ViewStatusFor.
func (s ViewStatus) ServerStatus() OrderStatus {
	switch s {
	case ViewInProgress:
		return OrderStatusCook
	case ViewDone:
		return OrderStatusComplete
	default:
		return OrderStatusNew
	}
}

func (s ViewStatus) Label() string {
	switch s {
	case ViewInProgress:
		return "cooking"
	case ViewDone:
		return "done"
	default:
		return "waiting for acceptance"
	}
}

type ViewItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// OrderView is the record a screen renders. OrderID keeps the full id for mutation calls.
type OrderView struct {
	ID      string     `json:"id"`
	OrderID string     `json:"orderId"`
	Items   []ViewItem `json:"items"`
	Status  ViewStatus `json:"status"`
}

func ToView(o Order) OrderView {
	items := make([]ViewItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ViewItem{Name: it.Menu.Name, Qty: it.Quantity, Price: it.Menu.Price})
	}
	return OrderView{
		ID:      o.ShortID(),
		OrderID: o.ID,
		Items:   items,
		Status:  ViewStatusFor(o.Status),
	}
}

func ToViews(orders []Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToView(o))
	}
	return out
}
