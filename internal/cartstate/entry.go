package cartstate

import (
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Entry is either a CartLine or a WishlistEntry. Callers switch on the
// concrete type; no other implementations exist.
type Entry interface {
	EntryProductID() string
	isEntry()
}

// CartLine is one product's presence in the cart. 1 <= Quantity <= StockLimit.
type CartLine struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	ImageRef   string          `json:"imageRef,omitempty"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stockLimit"`
}

func (l CartLine) EntryProductID() string { return l.ProductID }
func (CartLine) isEntry()                 {}

// LinePrice and LineQuantity make CartLine a domain.PricedLine so
// domain.ComputeTotals can total cart lines directly.
func (l CartLine) LinePrice() decimal.Decimal { return l.UnitPrice }
func (l CartLine) LineQuantity() int          { return l.Quantity }

var _ domain.PricedLine = CartLine{}

// WishlistEntry is a saved-for-later product, at most one per ProductID.
type WishlistEntry struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef,omitempty"`
	SavedAt   time.Time       `json:"savedAt"`
}

func (w WishlistEntry) EntryProductID() string { return w.ProductID }
func (WishlistEntry) isEntry()                 {}
