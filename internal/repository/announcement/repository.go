package announcement

import (
	"context"

	"storefront/internal/domain"
)

// Repository keeps the single storefront announcement.
type Repository interface {
	// Get returns domain.ErrNotFound until an announcement has been saved.
	Get(ctx context.Context) (*domain.Announcement, error)
	Save(ctx context.Context, a domain.Announcement) (*domain.Announcement, error)
}
