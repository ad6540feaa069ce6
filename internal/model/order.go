package model

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "new"
	OrderStatusCook     OrderStatus = "cook"
	OrderStatusComplete OrderStatus = "complete"
	OrderStatusClose    OrderStatus = "close"
)

type Menu struct {
	Name  string  `json:"menu_name"`
	Price float64 `json:"menu_price"`
}

type OrderItem struct {
	ID       string       `json:"order_item_id"`
	Menu     Menu         `json:"menu"`
	Quantity int          `json:"quantity"`
	Options  []ItemOption `json:"order_item_option"`
}

// Order is the server-shaped order record returned by the list endpoints.
type Order struct {
	ID            string      `json:"order_id"`
	Status        OrderStatus `json:"order_status"`
	FastLanePrice string      `json:"fast_lane_price"`
	PickupAt      string      `json:"pickup_at"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     *string     `json:"updated_at"`
	Items         []OrderItem `json:"order_item"`

	// WaitEdit marks an order held for manual review. Such orders are never actionable.
	WaitEdit bool `json:"waitEdit,omitempty"`
}

// OrderPage is the paginated list envelope used by the new/completed endpoints.
type OrderPage struct {
	Orders    []Order `json:"Orders"`
	TotalPage int     `json:"TotalPage"`
}

// ShortID is the display form of an order id. It is never used as a key.
func (o Order) ShortID() string {
	return ShortOrderID(o.ID)
}

func ShortOrderID(id string) string {
	r := []rune(id)
	if len(r) <= 8 {
		return id
	}
	return string(r[:8])
}

// HasFastLane reports whether the fast-lane surcharge should be shown.
func (o Order) HasFastLane() bool {
	p := strings.TrimSpace(o.FastLanePrice)
	return p != "" && p != "0"
}

func (o Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func (o Order) TotalPrice() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += float64(it.Quantity) * it.Menu.Price
	}
	return sum
}

func (o Order) Created() (time.Time, bool) { return parseServerTime(o.CreatedAt) }
func (o Order) Pickup() (time.Time, bool)  { return parseServerTime(o.PickupAt) }

// Clone returns a deep copy suitable for use as an edit draft.
func (o Order) Clone() Order {
	out := o
	if o.UpdatedAt != nil {
		v := *o.UpdatedAt
		out.UpdatedAt = &v
	}
	if o.Items != nil {
		out.Items = make([]OrderItem, len(o.Items))
		for i, it := range o.Items {
			cp := it
			if it.Options != nil {
				cp.Options = append([]ItemOption(nil), it.Options...)
			}
			out.Items[i] = cp
		}
	}
	return out
}

var serverTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseServerTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
