package seed

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubCategories struct {
	upserts []string
}

func (s *stubCategories) Upsert(_ context.Context, name string) (*domain.Category, error) {
	s.upserts = append(s.upserts, name)
	return &domain.Category{ID: "cat-" + name, Name: name}, nil
}

type stubProducts struct {
	items []domain.Product
	err   error
}

func (s *stubProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

type stubAdmins struct {
	email, password string
}

func (s *stubAdmins) EnsureUser(_ context.Context, email, password string) (*domain.AdminUser, error) {
	s.email, s.password = email, password
	return &domain.AdminUser{ID: "admin-1", Email: email}, nil
}

func TestApply_SeedsCatalogAndAdmin(t *testing.T) {
	cats, products, admins := &stubCategories{}, &stubProducts{}, &stubAdmins{}

	if err := New(cats, products, admins, nil).Apply(context.Background(), "owner@example.com", "Secret123"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(cats.upserts) != 3 {
		t.Fatalf("expected each category once, got %v", cats.upserts)
	}
	if len(products.items) != len(demoProducts) {
		t.Fatalf("expected %d products, got %d", len(demoProducts), len(products.items))
	}
	first := products.items[0]
	if first.CategoryID == nil || *first.CategoryID != "cat-Vases" || first.StockQuantity != 3 {
		t.Fatalf("unexpected product %+v", first)
	}
	if admins.email != "owner@example.com" || admins.password != "Secret123" {
		t.Fatalf("admin not ensured: %+v", admins)
	}
}

func TestApply_SkipsAdminWithoutPassword(t *testing.T) {
	admins := &stubAdmins{}
	if err := New(&stubCategories{}, &stubProducts{}, admins, nil).Apply(context.Background(), "owner@example.com", ""); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if admins.email != "" {
		t.Fatalf("expected admin untouched")
	}
}

func TestApply_ProductErrorStops(t *testing.T) {
	products := &stubProducts{err: errors.New("db down")}
	err := New(&stubCategories{}, products, &stubAdmins{}, nil).Apply(context.Background(), "", "")
	if err == nil {
		t.Fatalf("expected error")
	}
}
