package analytics

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// Repository aggregates back-office figures from catalog, inquiry and order
// tables. Inquiries created at or after recentSince count as recent.
type Repository interface {
	Dashboard(ctx context.Context, recentSince time.Time, popularLimit int) (*domain.Dashboard, error)
}
