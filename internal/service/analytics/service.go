// Package analytics builds the back-office dashboard.
package analytics

import (
	"context"
	"time"

	"storefront/internal/domain"
)

const (
	recentWindow    = 7 * 24 * time.Hour
	popularProducts = 5
)

type repository interface {
	Dashboard(ctx context.Context, recentSince time.Time, popularLimit int) (*domain.Dashboard, error)
}

type Service struct {
	repo repository
	now  func() time.Time
}

func New(repo repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Dashboard counts inquiries of the last seven days as recent and lists the
// five most asked-about products.
func (s *Service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	return s.repo.Dashboard(ctx, s.now().Add(-recentWindow), popularProducts)
}
