package category

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	// Upsert creates the category or returns the existing one with the same name.
	Upsert(ctx context.Context, name string) (*domain.Category, error)
}
