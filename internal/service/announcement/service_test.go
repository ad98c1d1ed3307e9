package announcement

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

type stubRepo struct {
	current *domain.Announcement
	saves   int
}

func (s *stubRepo) Get(context.Context) (*domain.Announcement, error) {
	if s.current == nil {
		return nil, domain.ErrNotFound
	}
	a := *s.current
	return &a, nil
}

func (s *stubRepo) Save(_ context.Context, a domain.Announcement) (*domain.Announcement, error) {
	s.saves++
	s.current = &a
	return &a, nil
}

func TestCurrentHidesMissingAndInactive(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	ctx := context.Background()

	if a, err := svc.Current(ctx); err != nil || a != nil {
		t.Fatalf("expected nothing before first save, got %+v err=%v", a, err)
	}
	if _, err := svc.Get(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from admin get, got %v", err)
	}

	if _, err := svc.Save(ctx, Request{Text: " Free delivery this week "}); err != nil {
		t.Fatalf("save: %v", err)
	}
	a, err := svc.Current(ctx)
	if err != nil || a == nil || a.Text != "Free delivery this week" || !a.Active {
		t.Fatalf("expected active trimmed announcement, got %+v err=%v", a, err)
	}

	off := false
	if _, err := svc.Save(ctx, Request{Text: "Closed on Friday", Active: &off}); err != nil {
		t.Fatalf("save inactive: %v", err)
	}
	if a, err := svc.Current(ctx); err != nil || a != nil {
		t.Fatalf("expected inactive announcement hidden, got %+v err=%v", a, err)
	}
	if a, err := svc.Get(ctx); err != nil || a.Active || a.Text != "Closed on Friday" {
		t.Fatalf("expected admin to see inactive announcement, got %+v err=%v", a, err)
	}
}

func TestSaveRejectsBlankText(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	_, err := svc.Save(context.Background(), Request{Text: "   "})
	var verr *validate.Error
	if !errors.As(err, &verr) || verr.Fields[0].Field != "text" {
		t.Fatalf("expected text validation error, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("expected nothing saved")
	}
}
