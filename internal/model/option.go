package model

import (
	"bytes"
	"encoding/json"
)

type ItemOptionKind string

const (
	ItemOptionSelection ItemOptionKind = "selection"
	ItemOptionUnknown   ItemOptionKind = "unknown"
)

// ItemOption is one chosen option on an order line.
//
// The backend has emitted two shapes over time:
//
//	v1: {"option_name": "Size", "sub_option_name": "Large", "price": 10}
//	v2: {"option": {"name": "Size"}, "sub_option": {"name": "Large", "price": 10}}
//
// Anything else decodes with Kind == ItemOptionUnknown and the payload kept in Raw.
type ItemOption struct {
	Kind    ItemOptionKind  `json:"kind"`
	Version int             `json:"version,omitempty"`
	Name    string          `json:"name,omitempty"`
	Choice  string          `json:"choice,omitempty"`
	Price   float64         `json:"price,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

type itemOptionV1 struct {
	OptionName    *string  `json:"option_name"`
	SubOptionName *string  `json:"sub_option_name"`
	Price         *float64 `json:"price"`
}

type itemOptionV2 struct {
	Option *struct {
		Name string `json:"name"`
	} `json:"option"`
	SubOption *struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"sub_option"`
}

func (o *ItemOption) UnmarshalJSON(b []byte) error {
	raw := append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	*o = ItemOption{Kind: ItemOptionUnknown, Raw: raw}
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var v2 itemOptionV2
	if err := json.Unmarshal(raw, &v2); err == nil && v2.Option != nil && v2.SubOption != nil {
		*o = ItemOption{
			Kind:    ItemOptionSelection,
			Version: 2,
			Name:    v2.Option.Name,
			Choice:  v2.SubOption.Name,
			Price:   v2.SubOption.Price,
		}
		return nil
	}

	var v1 itemOptionV1
	if err := json.Unmarshal(raw, &v1); err == nil && v1.OptionName != nil && v1.SubOptionName != nil {
		*o = ItemOption{
			Kind:    ItemOptionSelection,
			Version: 1,
			Name:    *v1.OptionName,
			Choice:  *v1.SubOptionName,
		}
		if v1.Price != nil {
			o.Price = *v1.Price
		}
		return nil
	}
	return nil
}

// UnknownOptions counts options whose shape was not recognized.
func (o Order) UnknownOptions() int {
	n := 0
	for _, it := range o.Items {
		for _, op := range it.Options {
			if op.Kind == ItemOptionUnknown {
				n++
			}
		}
	}
	return n
}

// MarshalJSON writes the option back in the wire shape it was read from.
func (o ItemOption) MarshalJSON() ([]byte, error) {
	switch {
	case o.Kind == ItemOptionSelection && o.Version == 2:
		var v itemOptionV2
		v.Option = &struct {
			Name string `json:"name"`
		}{Name: o.Name}
		v.SubOption = &struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}{Name: o.Choice, Price: o.Price}
		return json.Marshal(v)
	case o.Kind == ItemOptionSelection:
		name, choice, price := o.Name, o.Choice, o.Price
		return json.Marshal(itemOptionV1{OptionName: &name, SubOptionName: &choice, Price: &price})
	case len(o.Raw) > 0:
		return o.Raw, nil
	default:
		return []byte("null"), nil
	}
}
