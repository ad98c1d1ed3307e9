package domain

import "github.com/shopspring/decimal"

// Totals is derived from line data and never stored.
type Totals struct {
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// PricedLine is anything with a unit price and a quantity.
type PricedLine interface {
	LinePrice() decimal.Decimal
	LineQuantity() int
}

// ComputeTotals recomputes totals from scratch over lines.
func ComputeTotals[L PricedLine](lines []L) Totals {
	t := Totals{TotalPrice: decimal.Zero}
	for _, l := range lines {
		qty := l.LineQuantity()
		t.TotalItems += qty
		t.TotalPrice = t.TotalPrice.Add(l.LinePrice().Mul(decimal.NewFromInt(int64(qty))))
	}
	return t
}
