package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists orders and their frozen line items.
type Repository interface {
	// CreateOrder inserts the order row and returns it with its generated id.
	CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)
	// CreateItems inserts items for an existing order.
	CreateItems(ctx context.Context, orderID string, items []domain.OrderItem) ([]domain.OrderItem, error)
	// CreateWithItems inserts the order and its items in one transaction.
	CreateWithItems(ctx context.Context, o domain.Order, items []domain.OrderItem) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// UpdateStatus moves the order from one status to another. It fails with
	// domain.ErrInvalidTransition when the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
}
