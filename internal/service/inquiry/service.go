// Package inquiry records "call me about this product" requests.
package inquiry

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/validate"

	"github.com/go-playground/validator/v10"
)

type repository interface {
	Create(ctx context.Context, in domain.Inquiry) (*domain.Inquiry, error)
	List(ctx context.Context) ([]domain.Inquiry, error)
	Delete(ctx context.Context, id string) error
}

// Request is the public inquiry form.
type Request struct {
	ProductID    string `json:"productId" validate:"omitempty,uuid"`
	CustomerName string `json:"customerName" validate:"required,max=200"`
	Phone        string `json:"phone" validate:"required,phone"`
}

type Service struct {
	repo     repository
	validate *validator.Validate
}

func New(repo repository) *Service {
	return &Service{repo: repo, validate: validate.New()}
}

func (s *Service) Create(ctx context.Context, req Request) (*domain.Inquiry, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = validate.NormalizePhone(req.Phone)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, err
	}
	in := domain.Inquiry{CustomerName: req.CustomerName, Phone: req.Phone}
	if req.ProductID != "" {
		in.ProductID = &req.ProductID
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) List(ctx context.Context) ([]domain.Inquiry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
