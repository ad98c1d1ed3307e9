// Package carousel manages the homepage image carousel.
package carousel

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/validate"

	"github.com/go-playground/validator/v10"
)

type repository interface {
	List(ctx context.Context) ([]domain.CarouselSlide, error)
	Create(ctx context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error)
	Update(ctx context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) ([]domain.CarouselSlide, error)
}

// SlideRequest is the admin form for one slide. ImageURL is usually the url
// returned by the image upload endpoint.
type SlideRequest struct {
	ImageURL   string `json:"imageUrl" validate:"required,http_url,max=2048"`
	Caption    string `json:"caption" validate:"max=300"`
	ShowButton bool   `json:"showButton"`
	ButtonURL  string `json:"buttonUrl" validate:"omitempty,http_url,max=2048"`
}

type Service struct {
	repo     repository
	validate *validator.Validate
}

func New(repo repository) *Service {
	return &Service{repo: repo, validate: validate.New()}
}

func (s *Service) List(ctx context.Context) ([]domain.CarouselSlide, error) {
	return s.repo.List(ctx)
}

// Create appends a slide at the end of the carousel.
func (s *Service) Create(ctx context.Context, req SlideRequest) (*domain.CarouselSlide, error) {
	slide, err := s.slide(req)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, slide)
}

func (s *Service) Update(ctx context.Context, id string, req SlideRequest) (*domain.CarouselSlide, error) {
	slide, err := s.slide(req)
	if err != nil {
		return nil, err
	}
	slide.ID = id
	return s.repo.Update(ctx, slide)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Reorder sets the display order; ids must list every slide once.
func (s *Service) Reorder(ctx context.Context, ids []string) ([]domain.CarouselSlide, error) {
	cleaned := make([]string, len(ids))
	for i, id := range ids {
		cleaned[i] = strings.TrimSpace(id)
	}
	return s.repo.Reorder(ctx, cleaned)
}

func (s *Service) slide(req SlideRequest) (domain.CarouselSlide, error) {
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Caption = strings.TrimSpace(req.Caption)
	req.ButtonURL = strings.TrimSpace(req.ButtonURL)
	if err := validate.Struct(s.validate, req); err != nil {
		return domain.CarouselSlide{}, err
	}
	if req.ShowButton && req.ButtonURL == "" {
		return domain.CarouselSlide{}, &validate.Error{Fields: []validate.FieldError{{Field: "buttonUrl", Message: "is required"}}}
	}
	if !req.ShowButton {
		req.ButtonURL = ""
	}
	return domain.CarouselSlide{
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
		ShowButton: req.ShowButton,
		ButtonURL:  req.ButtonURL,
	}, nil
}
