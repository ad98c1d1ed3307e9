package checkout

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Pricing holds the shipping rule applied to every order.
type Pricing struct {
	// FreeShippingThreshold is exclusive: a subtotal must exceed it.
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// Quote is the price breakdown of an order.
type Quote struct {
	TotalItems   int             `json:"totalItems"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
}

func (p Pricing) Quote(t domain.Totals) Quote {
	shipping := p.FlatShippingFee
	if t.TotalPrice.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return Quote{
		TotalItems:   t.TotalItems,
		Subtotal:     t.TotalPrice,
		ShippingCost: shipping,
		Total:        t.TotalPrice.Add(shipping),
	}
}
