package inquiry

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores contact requests left on product pages.
type Repository interface {
	Create(ctx context.Context, in domain.Inquiry) (*domain.Inquiry, error)
	// List returns inquiries newest first with the product name resolved when
	// the product still exists.
	List(ctx context.Context) ([]domain.Inquiry, error)
	Delete(ctx context.Context, id string) error
}
