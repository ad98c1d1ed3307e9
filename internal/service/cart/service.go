// Package cart translates shopper intents (add, +, -, set, remove) into
// cartstate mutations and reports stock feedback the store itself swallows.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/cartstate"
	"storefront/internal/domain"
)

var (
	// ErrMaxStockReached means the line already holds every known unit.
	ErrMaxStockReached = errors.New("maximum stock reached")
	// ErrOutOfStock means the catalog reports no units for the product.
	ErrOutOfStock = errors.New("product out of stock")
	ErrNotInCart  = errors.New("product not in cart")
)

type sessionStore interface {
	Get(ctx context.Context, sessionID string) (*cartstate.Store, error)
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	sessions sessionStore
	products productReader
}

func New(sessions sessionStore, products productReader) *Service {
	return &Service{sessions: sessions, products: products}
}

// View is the cart as shown to the shopper.
type View struct {
	Lines  []cartstate.CartLine `json:"items"`
	Totals domain.Totals        `json:"totals"`
}

// Add puts one more unit of productID in the cart, taking the stock limit from
// the live catalog rather than from any snapshot already in the cart.
func (s *Service) Add(ctx context.Context, sessionID, productID string) (cartstate.CartLine, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return cartstate.CartLine{}, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return cartstate.CartLine{}, err
	}
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return cartstate.CartLine{}, err
	}

	stock := availableStock(p)
	before, had := store.CartItem(productID)
	store.AddToCart(cartstate.ProductFromDomain(*p), stock)
	after, ok := store.CartItem(productID)
	switch {
	case !ok:
		return cartstate.CartLine{}, ErrOutOfStock
	case had && after.Quantity <= before.Quantity:
		return after, ErrMaxStockReached
	}
	return after, nil
}

// Increment raises the quantity by one within the line's stock snapshot.
func (s *Service) Increment(ctx context.Context, sessionID, productID string) (cartstate.CartLine, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return cartstate.CartLine{}, err
	}
	line, ok := store.CartItem(productID)
	if !ok {
		return cartstate.CartLine{}, ErrNotInCart
	}
	if line.Quantity >= line.StockLimit {
		return line, ErrMaxStockReached
	}
	store.UpdateQuantity(productID, line.Quantity+1)
	line, _ = store.CartItem(productID)
	return line, nil
}

// Decrement lowers the quantity by one. removed is true when the line was
// dropped because it reached zero.
func (s *Service) Decrement(ctx context.Context, sessionID, productID string) (line cartstate.CartLine, removed bool, err error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return cartstate.CartLine{}, false, err
	}
	current, ok := store.CartItem(productID)
	if !ok {
		return cartstate.CartLine{}, false, ErrNotInCart
	}
	store.UpdateQuantity(productID, current.Quantity-1)
	line, ok = store.CartItem(productID)
	return line, !ok, nil
}

// SetQuantity sets an explicit quantity, clamped to the stock snapshot. Zero or
// less removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (cartstate.CartLine, bool, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return cartstate.CartLine{}, false, err
	}
	if _, ok := store.CartItem(productID); !ok {
		return cartstate.CartLine{}, false, ErrNotInCart
	}
	store.UpdateQuantity(productID, quantity)
	line, ok := store.CartItem(productID)
	return line, !ok, nil
}

func (s *Service) Remove(ctx context.Context, sessionID, productID string) error {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	store.RemoveFromCart(productID)
	return nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	store.ClearCart()
	return nil
}

func (s *Service) View(ctx context.Context, sessionID string) (View, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return View{Lines: store.Lines(), Totals: store.Totals()}, nil
}

func availableStock(p *domain.Product) int {
	if !p.InStock {
		return 0
	}
	return max(p.StockQuantity, 0)
}
