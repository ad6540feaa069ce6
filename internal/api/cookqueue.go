package api

import (
	"bytes"
	"encoding/json"

	"seller-cli/internal/model"
)

// Cook queue shapes seen from the backend.
const (
	ShapeEmpty       = "empty"
	ShapeSingleOrder = "order-object"
	ShapeOrdersLower = "orders-array"
	ShapeOrdersUpper = "Orders-array"
	ShapeBareArray   = "bare-array"
	ShapeOrderArray  = "order-array"
)

// CookQueue is the normalized cook-queue response.
type CookQueue struct {
	Shape  string        `json:"shape"`
	Orders []model.Order `json:"orders"`
	// Dropped counts entries that were present but did not decode as an order.
	Dropped int `json:"dropped,omitempty"`
}

type cookMatcher struct {
	shape   string
	extract func(json.RawMessage) (orders []model.Order, dropped int, ok bool)
}

// Matchers run in order; the first one that recognizes the body wins.
var cookMatchers = []cookMatcher{
	{ShapeSingleOrder, func(b json.RawMessage) ([]model.Order, int, bool) {
		v, ok := objectField(b, "order")
		if !ok || !isObject(v) {
			return nil, 0, false
		}
		var o model.Order
		if json.Unmarshal(v, &o) != nil {
			return []model.Order{}, 1, true
		}
		return []model.Order{o}, 0, true
	}},
	{ShapeOrdersLower, func(b json.RawMessage) ([]model.Order, int, bool) {
		return orderArrayField(b, "orders")
	}},
	{ShapeOrdersUpper, func(b json.RawMessage) ([]model.Order, int, bool) {
		return orderArrayField(b, "Orders")
	}},
	{ShapeBareArray, func(b json.RawMessage) ([]model.Order, int, bool) {
		if !isArray(b) {
			return nil, 0, false
		}
		return decodeWrappedOrders(b)
	}},
	{ShapeOrderArray, func(b json.RawMessage) ([]model.Order, int, bool) {
		return orderArrayField(b, "order")
	}},
}

// NormalizeCookQueue maps any known cook-queue body to a flat order list.
// Entries without an order_id are dropped. A JSON object that carries no
// order list (missing keys, null or scalar values) is an empty queue; only
// bodies that are neither objects nor arrays are rejected.
func NormalizeCookQueue(body []byte) (CookQueue, error) {
	b := bytes.TrimSpace(body)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return emptyCookQueue(), nil
	}
	for _, m := range cookMatchers {
		orders, dropped, ok := m.extract(b)
		if !ok {
			continue
		}
		kept := make([]model.Order, 0, len(orders))
		for _, o := range orders {
			if o.ID != "" {
				kept = append(kept, o)
			}
		}
		return CookQueue{Shape: m.shape, Orders: kept, Dropped: dropped}, nil
	}
	if isObject(b) && json.Valid(b) {
		return emptyCookQueue(), nil
	}
	return CookQueue{}, ErrUnrecognizedShape
}

func emptyCookQueue() CookQueue {
	return CookQueue{Shape: ShapeEmpty, Orders: []model.Order{}}
}

func isObject(b []byte) bool { return len(b) > 0 && b[0] == '{' }
func isArray(b []byte) bool  { return len(b) > 0 && b[0] == '[' }

func objectField(b []byte, name string) (json.RawMessage, bool) {
	if !isObject(b) {
		return nil, false
	}
	var m map[string]json.RawMessage
	if json.Unmarshal(b, &m) != nil {
		return nil, false
	}
	v, ok := m[name]
	if !ok {
		return nil, false
	}
	return bytes.TrimSpace(v), true
}

func orderArrayField(b []byte, name string) ([]model.Order, int, bool) {
	v, ok := objectField(b, name)
	if !ok || !isArray(v) {
		return nil, 0, false
	}
	return decodeWrappedOrders(v)
}

// decodeWrappedOrders decodes an array whose elements are either orders or
// {"order": {...}} wrappers. dropped counts elements that are not objects
// or fail to decode.
func decodeWrappedOrders(b []byte) (out []model.Order, dropped int, ok bool) {
	var elems []json.RawMessage
	if json.Unmarshal(b, &elems) != nil {
		return nil, 0, false
	}
	out = make([]model.Order, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if !isObject(e) {
			dropped++
			continue
		}
		if inner, ok := objectField(e, "order"); ok && isObject(inner) {
			e = inner
		}
		var o model.Order
		if json.Unmarshal(e, &o) != nil {
			dropped++
			continue
		}
		out = append(out, o)
	}
	return out, dropped, true
}
