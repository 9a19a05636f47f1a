package service

// ShippingRule is the tiered flat-fee-or-free shipping calculation. Both
// values come from configuration.
type ShippingRule struct {
	FlatFeeCents   int64
	FreeAboveCents int64
}

func (r ShippingRule) Fee(subtotalCents int64) int64 {
	if subtotalCents >= r.FreeAboveCents {
		return 0
	}
	return r.FlatFeeCents
}
