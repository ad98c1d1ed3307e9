package carousel

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores homepage carousel slides. Positions stay contiguous from
// 0: Create appends, Delete closes the gap and Reorder renumbers everything.
type Repository interface {
	List(ctx context.Context) ([]domain.CarouselSlide, error)
	Create(ctx context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error)
	// Update changes content fields only; the position is kept.
	Update(ctx context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error)
	Delete(ctx context.Context, id string) error
	// Reorder takes every slide id exactly once, in display order.
	Reorder(ctx context.Context, ids []string) ([]domain.CarouselSlide, error)
}
