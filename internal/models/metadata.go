package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// OrderMeta is the jsonb blob attached to an order. Legacy rows written by the
// old console are not guaranteed to match this shape; an unparseable blob is
// kept verbatim in Raw instead of failing the read.
type OrderMeta struct {
	CouponCode      string   `json:"coupon_code,omitempty"`
	DiscountCents   int64    `json:"discount_cents,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`

	Legacy bool            `json:"-"`
	Raw    json.RawMessage `json:"-"`
}

func (m OrderMeta) Value() (driver.Value, error) {
	if m.Legacy {
		return []byte(m.Raw), nil
	}
	return json.Marshal(m)
}

func (m *OrderMeta) Scan(v any) error {
	raw, err := rawJSON(v)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*m = OrderMeta{}
		return nil
	}
	var parsed OrderMeta
	if err := json.Unmarshal(raw, &parsed); err != nil {
		*m = OrderMeta{Legacy: true, Raw: append(json.RawMessage(nil), raw...)}
		return nil
	}
	*m = parsed
	return nil
}

// ItemMeta snapshots display context at the time the line was written.
type ItemMeta struct {
	Title string `json:"title,omitempty"`
	SKU   string `json:"sku,omitempty"`

	Legacy bool            `json:"-"`
	Raw    json.RawMessage `json:"-"`
}

func (m ItemMeta) Value() (driver.Value, error) {
	if m.Legacy {
		return []byte(m.Raw), nil
	}
	return json.Marshal(m)
}

func (m *ItemMeta) Scan(v any) error {
	raw, err := rawJSON(v)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*m = ItemMeta{}
		return nil
	}
	var parsed ItemMeta
	if err := json.Unmarshal(raw, &parsed); err != nil {
		*m = ItemMeta{Legacy: true, Raw: append(json.RawMessage(nil), raw...)}
		return nil
	}
	*m = parsed
	return nil
}

type CustomerMeta struct {
	Source string `json:"source,omitempty"`

	Legacy bool            `json:"-"`
	Raw    json.RawMessage `json:"-"`
}

func (m CustomerMeta) Value() (driver.Value, error) {
	if m.Legacy {
		return []byte(m.Raw), nil
	}
	return json.Marshal(m)
}

func (m *CustomerMeta) Scan(v any) error {
	raw, err := rawJSON(v)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*m = CustomerMeta{}
		return nil
	}
	var parsed CustomerMeta
	if err := json.Unmarshal(raw, &parsed); err != nil {
		*m = CustomerMeta{Legacy: true, Raw: append(json.RawMessage(nil), raw...)}
		return nil
	}
	*m = parsed
	return nil
}

func rawJSON(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb source type %T", v)
	}
}
