// Package announcement edits the banner shown above the storefront header.
package announcement

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/validate"

	"github.com/go-playground/validator/v10"
)

type repository interface {
	Get(ctx context.Context) (*domain.Announcement, error)
	Save(ctx context.Context, a domain.Announcement) (*domain.Announcement, error)
}

type Request struct {
	Text   string `json:"text" validate:"required,max=500"`
	Active *bool  `json:"active"`
}

type Service struct {
	repo     repository
	validate *validator.Validate
}

func New(repo repository) *Service {
	return &Service{repo: repo, validate: validate.New()}
}

// Current returns the announcement to display, or nil when none is saved or
// it is switched off.
func (s *Service) Current(ctx context.Context) (*domain.Announcement, error) {
	a, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !a.Active {
		return nil, nil
	}
	return a, nil
}

// Get returns the saved announcement whether or not it is active.
func (s *Service) Get(ctx context.Context) (*domain.Announcement, error) {
	return s.repo.Get(ctx)
}

// Save replaces the announcement. Active defaults to true.
func (s *Service) Save(ctx context.Context, req Request) (*domain.Announcement, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return s.repo.Save(ctx, domain.Announcement{Text: req.Text, Active: active})
}
