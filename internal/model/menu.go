package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Display is the ordering/visibility value of a menu option or sub-option.
//
// Older screens sent a boolean and newer ones an ordinal; on the wire it is always
// written as a number. A JSON boolean decodes to 1 (true) or 0 (false).
type Display int

func (d Display) Visible() bool { return d > 0 }

func DisplayFromBool(v bool) Display {
	if v {
		return 1
	}
	return 0
}

func (d *Display) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "null", "":
		*d = 0
		return nil
	case "true":
		*d = 1
		return nil
	case "false":
		*d = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("display: expected bool or number, got %s", string(b))
	}
	*d = Display(int(n))
	return nil
}

func (d Display) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(d))), nil
}

type MenuCategory struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	SubID    int    `json:"sub_id"`
	IsActive bool   `json:"is_active"`
}

type SubOption struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	IsDefault bool    `json:"is_default"`
	Display   Display `json:"display"`
	IsActive  bool    `json:"is_active"`
}

type MenuOption struct {
	ID         string      `json:"id,omitempty"`
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	IsRequired bool        `json:"is_required"`
	Min        int         `json:"min"`
	Max        int         `json:"max"`
	Display    Display     `json:"display"`
	IsActive   bool        `json:"is_active"`
	SubOptions []SubOption `json:"sub_options"`
}

// UnmarshalJSON accepts both "sub_options" and the create-form "subs".
func (o *MenuOption) UnmarshalJSON(b []byte) error {
	type plain MenuOption
	var aux struct {
		plain
		Subs []SubOption `json:"subs"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = MenuOption(aux.plain)
	if len(o.SubOptions) == 0 && len(aux.Subs) > 0 {
		o.SubOptions = aux.Subs
	}
	return nil
}

type MenuRecord struct {
	ID         string       `json:"id"`
	CategoryID int          `json:"category_id"`
	Name       string       `json:"name"`
	Detail     string       `json:"detail"`
	Image      string       `json:"image"`
	Price      float64      `json:"price"`
	IsActive   bool         `json:"is_active"`
	Options    []MenuOption `json:"options"`
}

// VisibleOnly returns a copy of r keeping only options and sub-options
// that are shown to customers.
func (r MenuRecord) VisibleOnly() MenuRecord {
	opts := make([]MenuOption, 0, len(r.Options))
	for _, o := range r.Options {
		if !o.Display.Visible() {
			continue
		}
		subs := make([]SubOption, 0, len(o.SubOptions))
		for _, s := range o.SubOptions {
			if s.Display.Visible() {
				subs = append(subs, s)
			}
		}
		o.SubOptions = subs
		opts = append(opts, o)
	}
	r.Options = opts
	return r
}

type CreateSubOption struct {
	Display   Display `json:"display"`
	IsActive  bool    `json:"is_active"`
	IsDefault bool    `json:"is_default"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type CreateMenuOption struct {
	Display    Display           `json:"display"`
	IsActive   bool              `json:"is_active"`
	IsRequired bool              `json:"is_required"`
	Max        int               `json:"max"`
	Min        int               `json:"min"`
	Name       string            `json:"name"`
	Subs       []CreateSubOption `json:"subs"`
	Type       string            `json:"type"`
}

type CreateMenuPayload struct {
	CategoryID int                `json:"category_id"`
	Detail     string             `json:"detail"`
	Image      string             `json:"image"`
	Name       string             `json:"name"`
	Options    []CreateMenuOption `json:"options"`
	Price      float64            `json:"price"`
}

// Normalized returns a copy whose Options is never nil, so it encodes as [].
func (p CreateMenuPayload) Normalized() CreateMenuPayload {
	if p.Options == nil {
		p.Options = []CreateMenuOption{}
	}
	for i := range p.Options {
		if p.Options[i].Subs == nil {
			p.Options[i].Subs = []CreateSubOption{}
		}
	}
	return p
}

type UpdateMenuPayload struct {
	ID         string       `json:"id"`
	CategoryID int          `json:"category_id"`
	Name       string       `json:"name"`
	Detail     string       `json:"detail"`
	Image      string       `json:"image"`
	Price      float64      `json:"price"`
	Options    []MenuOption `json:"options"`
}

func (p UpdateMenuPayload) Normalized() UpdateMenuPayload {
	if p.Options == nil {
		p.Options = []MenuOption{}
	}
	for i := range p.Options {
		if p.Options[i].SubOptions == nil {
			p.Options[i].SubOptions = []SubOption{}
		}
	}
	return p
}

// UpdateFromRecord builds an update payload from a fetched menu.
func UpdateFromRecord(m MenuRecord) UpdateMenuPayload {
	return UpdateMenuPayload{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		Detail:     m.Detail,
		Image:      m.Image,
		Price:      m.Price,
		Options:    m.Options,
	}.Normalized()
}
