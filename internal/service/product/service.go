package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"

	"go.uber.org/zap"
)

// ImageUploader stores a validated image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte) (string, error)
}

// ErrUploadsDisabled is returned when no object storage is configured.
var ErrUploadsDisabled = errors.New("image uploads are not configured")

type Service struct {
	repo   productrepo.Repository
	images ImageUploader
	logger *zap.Logger
}

func New(repo productrepo.Repository, images ImageUploader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, images: images, logger: logger.Named("products")}
}

func (s *Service) List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.CategoryID = strings.TrimSpace(filter.CategoryID)
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Upsert creates a product, or replaces it when ID is set.
func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if p.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}
	out, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product saved", zap.String("id", out.ID), zap.Int("stock", out.StockQuantity))
	return out, nil
}

// SetStock overwrites the stock level; in_stock follows it.
func (s *Service) SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}
	return s.repo.SetStock(ctx, id, quantity)
}

func (s *Service) UploadImage(ctx context.Context, data []byte) (string, error) {
	if s.images == nil {
		return "", ErrUploadsDisabled
	}
	return s.images.UploadImage(ctx, data)
}
