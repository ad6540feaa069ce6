package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"seller-cli/internal/model"
)

func (c *Client) CreateStore(ctx context.Context, p model.CreateStorePayload) (Result, error) {
	return c.do(ctx, request{op: "CreateStore", method: http.MethodPost, path: "/Store/Create", body: p})
}

func (c *Client) CreateMerchant(ctx context.Context, p model.CreateMerchantPayload) (Result, error) {
	if p.MerchantType == nil {
		p.MerchantType = []int{1}
	}
	return c.do(ctx, request{op: "CreateMerchant", method: http.MethodPost, path: "/Merchant", body: p})
}

// Menus lists every menu of a merchant.
func (c *Client) Menus(ctx context.Context, merchantID string) ([]model.MenuRecord, error) {
	if strings.TrimSpace(merchantID) == "" {
		return nil, fmt.Errorf("Menus: merchant id: %w", ErrNotAuthenticated)
	}
	res, err := c.do(ctx, request{
		op:     "Menus",
		method: http.MethodGet,
		path:   "/Menu/All/" + url.PathEscape(merchantID),
	})
	if err != nil {
		return nil, err
	}
	var out []model.MenuRecord
	if err := decodeList("Menus", res, &out, "data", "menus", "Menus"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MenuCategories(ctx context.Context) ([]model.MenuCategory, error) {
	res, err := c.do(ctx, request{op: "MenuCategories", method: http.MethodGet, path: "/Menu/Category"})
	if err != nil {
		return nil, err
	}
	var out []model.MenuCategory
	if err := decodeList("MenuCategories", res, &out, "data", "categories"); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMenu posts a new menu. Nil option lists are sent as [].
func (c *Client) CreateMenu(ctx context.Context, p model.CreateMenuPayload) (Result, error) {
	return c.do(ctx, request{op: "CreateMenu", method: http.MethodPost, path: "/Menu", body: p.Normalized()})
}

// UpdateMenu replaces a menu. Display flags go out as numbers.
func (c *Client) UpdateMenu(ctx context.Context, p model.UpdateMenuPayload) (Result, error) {
	return c.do(ctx, request{op: "UpdateMenu", method: http.MethodPut, path: "/Menu", body: p.Normalized()})
}

func (c *Client) TimeSlots(ctx context.Context, branchID string) ([]model.TimeSlot, error) {
	if strings.TrimSpace(branchID) == "" {
		return nil, fmt.Errorf("TimeSlots: branch id: %w", ErrNotAuthenticated)
	}
	res, err := c.do(ctx, request{
		op:     "TimeSlots",
		method: http.MethodGet,
		path:   "/Branch/Config/TimeSlot/All/" + url.PathEscape(branchID),
	})
	if err != nil {
		return nil, err
	}
	var out []model.TimeSlot
	if err := decodeList("TimeSlots", res, &out, "data", "time_slots", "TimeSlots"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveTimeSlot(ctx context.Context, ts model.TimeSlot) (Result, error) {
	if err := ts.Validate(); err != nil {
		return Result{}, fmt.Errorf("SaveTimeSlot: %w", err)
	}
	ts.ID = ""
	return c.do(ctx, request{op: "SaveTimeSlot", method: http.MethodPost, path: "/Branch/Config/TimeSlot", body: ts})
}

// decodeList decodes a bare JSON array, or an array under the first of keys
// present in a wrapping object. An empty body is an empty list.
func decodeList(op string, res Result, out any, keys ...string) error {
	if res.Degraded() {
		return fmt.Errorf("%s: %w", op, ErrUnexpectedBody)
	}
	b := bytes.TrimSpace(res.Body)
	if res.Empty || len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return json.Unmarshal([]byte("[]"), out)
	}
	if isArray(b) {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("%s: %w: %w", op, ErrUnexpectedBody, err)
		}
		return nil
	}
	for _, k := range keys {
		if v, ok := objectField(b, k); ok && isArray(v) {
			if err := json.Unmarshal(v, out); err != nil {
				return fmt.Errorf("%s: %w: %w", op, ErrUnexpectedBody, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, ErrUnexpectedBody)
}
