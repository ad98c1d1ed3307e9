package admin

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists and fetches back-office users.
type Repository interface {
	// Upsert creates the user or replaces the password hash of an existing email.
	Upsert(ctx context.Context, u domain.AdminUser) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
}
