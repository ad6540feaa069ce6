package api

import (
	"context"
	"fmt"
	"net/http"

	"seller-cli/internal/model"
)

type orderIDBody struct {
	OrderID string `json:"order_id"`
}

func (c *Client) NewOrders(ctx context.Context, offset, limit int) (model.OrderPage, error) {
	return c.orderPage(ctx, "NewOrders", "/Order/Pos/All/New/Pagination", offset, limit)
}

func (c *Client) CompletedOrders(ctx context.Context, offset, limit int) (model.OrderPage, error) {
	return c.orderPage(ctx, "CompletedOrders", "/Order/Pos/All/Complete/Pagination", offset, limit)
}

func (c *Client) orderPage(ctx context.Context, op, path string, offset, limit int) (model.OrderPage, error) {
	var page model.OrderPage
	res, err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   path,
		query:  pageQuery(offset, limit),
		out:    &page,
	})
	if err != nil {
		return model.OrderPage{}, err
	}
	if res.Degraded() {
		return model.OrderPage{}, fmt.Errorf("%s: %w", op, ErrUnexpectedBody)
	}
	if page.Orders == nil {
		page.Orders = []model.Order{}
	}
	c.logUnknownOptions(op, page.Orders)
	return page, nil
}

// CookOrders fetches the cook queue and normalizes whichever shape the backend sent.
func (c *Client) CookOrders(ctx context.Context) (CookQueue, error) {
	res, err := c.do(ctx, request{
		op:     "CookOrders",
		method: http.MethodGet,
		path:   "/Order/Pos/Cook",
	})
	if err != nil {
		return CookQueue{}, err
	}
	if res.Degraded() {
		return CookQueue{}, fmt.Errorf("CookOrders: %w", ErrUnexpectedBody)
	}
	q, err := NormalizeCookQueue(res.Body)
	if err != nil {
		c.log.Warn().Err(err).Str("body", truncate(string(res.Body), 200)).Msg("api.cook_queue")
		return CookQueue{}, fmt.Errorf("CookOrders: %w", err)
	}
	c.log.Debug().Str("shape", q.Shape).Int("orders", len(q.Orders)).Msg("api.cook_queue")
	if q.Dropped > 0 {
		c.log.Warn().Str("op", "CookOrders").Str("shape", q.Shape).Int("count", q.Dropped).Msg("api.cook_queue_dropped")
	}
	c.logUnknownOptions("CookOrders", q.Orders)
	return q, nil
}

// CompleteOrder moves an order from cook to complete. orderID must be the full id.
func (c *Client) CompleteOrder(ctx context.Context, orderID string) (Result, error) {
	return c.do(ctx, request{
		op:     "CompleteOrder",
		method: http.MethodPost,
		path:   "/Order/Pos/Complete",
		body:   orderIDBody{OrderID: orderID},
	})
}

// CloseOrder marks a completed order as handed over.
func (c *Client) CloseOrder(ctx context.Context, orderID string) (Result, error) {
	return c.do(ctx, request{
		op:     "CloseOrder",
		method: http.MethodPost,
		path:   "/Order/Pos/Close",
		body:   orderIDBody{OrderID: orderID},
	})
}

func (c *Client) logUnknownOptions(op string, orders []model.Order) {
	for _, o := range orders {
		if n := o.UnknownOptions(); n > 0 {
			c.log.Warn().Str("op", op).Str("order_id", o.ID).Int("count", n).Msg("api.unknown_option_shape")
		}
	}
}
