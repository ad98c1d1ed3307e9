// Package cartstate holds the per-session cart and wishlist. A Store is the
// single source of truth for one session: it enforces the quantity/stock
// invariants, recomputes totals after every mutation and mirrors
// {items, wishlist} to a Persister so the state survives restarts.
//
// Mutations never return errors. A snapshot that fails to persist is kept in
// memory, logged, and retried by Flush.
package cartstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Product is the catalog data a cart line or wishlist entry is created from.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageRef string
}

// ProductFromDomain adapts a catalog product.
func ProductFromDomain(p domain.Product) Product {
	return Product{ID: p.ID, Name: p.Name, Price: p.Price, ImageRef: p.PrimaryImage()}
}

// Store is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	key         string
	persister   Persister
	logger      *zap.Logger
	now         func() time.Time
	saveTimeout time.Duration

	lines    []CartLine
	wishlist []WishlistEntry
	totals   domain.Totals
	dirty    bool
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used to stamp wishlist entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSaveTimeout bounds each persist call made after a mutation.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// Open creates a Store for key and hydrates it from p. A snapshot that cannot
// be decoded is discarded; a Persister error is returned.
func Open(ctx context.Context, key string, p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		key:         key,
		persister:   p,
		logger:      zap.NewNop(),
		now:         time.Now,
		saveTimeout: 2 * time.Second,
		totals:      domain.Totals{TotalPrice: decimal.Zero},
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := p.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	if ok {
		snap, err := decodeSnapshot(data)
		if err != nil {
			s.logger.Warn("discarding unreadable cart snapshot", zap.String("key", key), zap.Error(err))
		} else {
			s.lines, s.wishlist = snap.sanitize()
		}
	}
	s.recompute()
	return s, nil
}

// Key is the persistence key of the store.
func (s *Store) Key() string {
	return s.key
}

// AddToCart increments the line for p by one, never past stockLimit, or creates
// it with quantity 1. The line's stock snapshot is refreshed to stockLimit.
func (s *Store) AddToCart(p Product, stockLimit int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stockLimit < 0 {
		stockLimit = 0
	}
	if i := s.lineIndex(p.ID); i >= 0 {
		line := &s.lines[i]
		line.StockLimit = stockLimit
		line.Quantity = min(line.Quantity+1, stockLimit)
		if line.Quantity <= 0 {
			s.removeLineAt(i)
		}
	} else {
		if stockLimit < 1 || p.ID == "" {
			return
		}
		s.lines = append(s.lines, CartLine{
			ProductID:  p.ID,
			Name:       p.Name,
			UnitPrice:  p.Price,
			ImageRef:   p.ImageRef,
			Quantity:   1,
			StockLimit: stockLimit,
		})
	}
	s.changed()
}

// RemoveFromCart deletes the line for productID if present.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndex(productID)
	if i < 0 {
		return
	}
	s.removeLineAt(i)
	s.changed()
}

// UpdateQuantity sets the quantity clamped to [0, StockLimit]; 0 removes the line.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndex(productID)
	if i < 0 {
		return
	}
	q := max(0, min(quantity, s.lines[i].StockLimit))
	if q == 0 {
		s.removeLineAt(i)
	} else {
		s.lines[i].Quantity = q
	}
	s.changed()
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.changed()
}

// RemoveOrdered takes the ordered quantities out of the cart. Lines added or
// raised after ordered was read keep the difference.
func (s *Store) RemoveOrdered(ordered []CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := false
	for _, o := range ordered {
		i := s.lineIndex(o.ProductID)
		if i < 0 {
			continue
		}
		touched = true
		if left := s.lines[i].Quantity - o.Quantity; left > 0 {
			s.lines[i].Quantity = left
			continue
		}
		s.removeLineAt(i)
	}
	if touched {
		s.changed()
	}
}

// AddToWishlist appends p unless it is already saved.
func (s *Store) AddToWishlist(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" || s.wishlistIndex(p.ID) >= 0 {
		return
	}
	s.wishlist = append(s.wishlist, WishlistEntry{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.ImageRef,
		SavedAt:   s.now().UTC(),
	})
	s.changed()
}

func (s *Store) RemoveFromWishlist(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.wishlistIndex(productID)
	if i < 0 {
		return
	}
	s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
	s.changed()
}

func (s *Store) ClearWishlist() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishlist = nil
	s.changed()
}

func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistIndex(productID) >= 0
}

// CartItem looks up the line for productID.
func (s *Store) CartItem(productID string) (CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndex(productID)
	if i < 0 {
		return CartLine{}, false
	}
	return s.lines[i], true
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CartLine(nil), s.lines...)
}

// Wishlist returns a copy of the wishlist in insertion order.
func (s *Store) Wishlist() []WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WishlistEntry(nil), s.wishlist...)
}

func (s *Store) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Entries lists cart lines followed by wishlist entries.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.lines)+len(s.wishlist))
	for _, l := range s.lines {
		out = append(out, l)
	}
	for _, w := range s.wishlist {
		out = append(out, w)
	}
	return out
}

// Flush writes the snapshot if an earlier persist failed.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	return s.save(ctx)
}

// Close flushes pending state. The store must not be used afterwards.
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

func (s *Store) lineIndex(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) wishlistIndex(productID string) int {
	for i := range s.wishlist {
		if s.wishlist[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLineAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

// changed runs after every mutation with s.mu held.
func (s *Store) changed() {
	s.recompute()
	s.dirty = true

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if err := s.save(ctx); err != nil {
		s.logger.Warn("cart snapshot not persisted, will retry on flush", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *Store) recompute() {
	s.totals = domain.ComputeTotals(s.lines)
}

func (s *Store) save(ctx context.Context) error {
	data, err := encodeSnapshot(s.lines, s.wishlist)
	if err != nil {
		return err
	}
	if err := s.persister.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.key, err)
	}
	s.dirty = false
	return nil
}
