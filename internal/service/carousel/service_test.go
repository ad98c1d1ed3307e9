package carousel

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

type stubRepo struct {
	created  []domain.CarouselSlide
	updated  domain.CarouselSlide
	reorder  []string
	deleted  string
	slideErr error
}

func (s *stubRepo) List(context.Context) ([]domain.CarouselSlide, error) { return s.created, nil }

func (s *stubRepo) Create(_ context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error) {
	slide.ID = "slide-1"
	slide.Position = len(s.created)
	s.created = append(s.created, slide)
	return &slide, nil
}

func (s *stubRepo) Update(_ context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error) {
	if s.slideErr != nil {
		return nil, s.slideErr
	}
	s.updated = slide
	return &slide, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	s.deleted = id
	return s.slideErr
}

func (s *stubRepo) Reorder(_ context.Context, ids []string) ([]domain.CarouselSlide, error) {
	s.reorder = ids
	return nil, nil
}

func TestCreateTrimsAndDropsHiddenButton(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	got, err := svc.Create(context.Background(), SlideRequest{
		ImageURL:  " https://cdn.example.com/a.jpg ",
		Caption:   " Summer ",
		ButtonURL: "https://shop.example.com/vases",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ImageURL != "https://cdn.example.com/a.jpg" || got.Caption != "Summer" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
	if got.ButtonURL != "" {
		t.Fatalf("expected button url dropped when the button is hidden, got %q", got.ButtonURL)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc := New(&stubRepo{})

	cases := map[string]struct {
		req   SlideRequest
		field string
	}{
		"missing image":  {SlideRequest{}, "imageUrl"},
		"image not url":  {SlideRequest{ImageURL: "not a url"}, "imageUrl"},
		"button no url":  {SlideRequest{ImageURL: "https://cdn.example.com/a.jpg", ShowButton: true}, "buttonUrl"},
		"button bad url": {SlideRequest{ImageURL: "https://cdn.example.com/a.jpg", ShowButton: true, ButtonURL: "javascript"}, "buttonUrl"},
	}
	for name, tc := range cases {
		_, err := svc.Create(context.Background(), tc.req)
		var verr *validate.Error
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
		if verr.Fields[0].Field != tc.field {
			t.Fatalf("%s: expected field %s, got %+v", name, tc.field, verr.Fields)
		}
	}
}

func TestUpdatePassesIDAndNotFound(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	if _, err := svc.Update(context.Background(), "slide-9", SlideRequest{ImageURL: "https://cdn.example.com/b.jpg", ShowButton: true, ButtonURL: "https://shop.example.com"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updated.ID != "slide-9" || repo.updated.ButtonURL != "https://shop.example.com" {
		t.Fatalf("unexpected update %+v", repo.updated)
	}

	repo.slideErr = domain.ErrNotFound
	if _, err := svc.Update(context.Background(), "gone", SlideRequest{ImageURL: "https://cdn.example.com/b.jpg"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderTrimsIDs(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	if _, err := svc.Reorder(context.Background(), []string{" b ", "a"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(repo.reorder) != 2 || repo.reorder[0] != "b" || repo.reorder[1] != "a" {
		t.Fatalf("unexpected ids %v", repo.reorder)
	}
}
