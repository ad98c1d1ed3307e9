package product

import (
	"context"

	"storefront/internal/domain"
)

// ListFilter narrows catalog listings. Zero values mean no filtering.
type ListFilter struct {
	CategoryID  string
	Search      string
	InStockOnly bool
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
	SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	// DecrementStock subtracts quantity only if at least that much is in stock
	// and returns the remaining stock. It fails with domain.ErrInsufficientStock
	// otherwise.
	DecrementStock(ctx context.Context, id string, quantity int) (int, error)
	IncrementStock(ctx context.Context, id string, quantity int) (int, error)
}
