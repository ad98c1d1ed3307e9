// Package wishlist manages saved-for-later products and moving them to the cart.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/cartstate"
	"storefront/internal/domain"
	"storefront/internal/service/cart"

	"go.uber.org/zap"
)

// ErrStockUnavailable is returned by MoveToCart when the live stock of the
// product is unknown or zero.
var ErrStockUnavailable = errors.New("stock unavailable")

type sessionStore interface {
	Get(ctx context.Context, sessionID string) (*cartstate.Store, error)
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type cartAdder interface {
	Add(ctx context.Context, sessionID, productID string) (cartstate.CartLine, error)
}

type Service struct {
	sessions     sessionStore
	products     productReader
	cart         cartAdder
	removeOnMove bool
	logger       *zap.Logger
}

type Option func(*Service)

// WithRemoveOnMove drops the wishlist entry once it has been moved to the cart.
func WithRemoveOnMove(v bool) Option {
	return func(s *Service) { s.removeOnMove = v }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("wishlist")
		}
	}
}

func New(sessions sessionStore, products productReader, cart cartAdder, opts ...Option) *Service {
	s := &Service{sessions: sessions, products: products, cart: cart, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add saves productID. Saving an already saved product is a no-op.
func (s *Service) Add(ctx context.Context, sessionID, productID string) ([]cartstate.WishlistEntry, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !store.IsInWishlist(productID) {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		store.AddToWishlist(cartstate.ProductFromDomain(*p))
	}
	return store.Wishlist(), nil
}

func (s *Service) Remove(ctx context.Context, sessionID, productID string) error {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	store.RemoveFromWishlist(productID)
	return nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	store.ClearWishlist()
	return nil
}

func (s *Service) List(ctx context.Context, sessionID string) ([]cartstate.WishlistEntry, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return store.Wishlist(), nil
}

func (s *Service) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return store.IsInWishlist(productID), nil
}

// MoveToCart adds one unit of a saved product to the cart using the live
// catalog stock. Nothing is added when that stock is unknown or zero.
func (s *Service) MoveToCart(ctx context.Context, sessionID, productID string) (cartstate.CartLine, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return cartstate.CartLine{}, err
	}
	if !store.IsInWishlist(productID) {
		return cartstate.CartLine{}, domain.ErrNotFound
	}

	line, err := s.cart.Add(ctx, sessionID, productID)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, cart.ErrOutOfStock):
		s.logger.Info("move to cart refused", zap.String("product_id", productID), zap.Error(err))
		return cartstate.CartLine{}, ErrStockUnavailable
	case err != nil && !errors.Is(err, cart.ErrMaxStockReached):
		return cartstate.CartLine{}, err
	}

	if err == nil && s.removeOnMove {
		store.RemoveFromWishlist(productID)
	}
	return line, err
}
