package product

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"

	"github.com/shopspring/decimal"
)

type stubRepo struct {
	lastFilter productrepo.ListFilter
	lastUpsert domain.Product
	lastStock  int
	upserts    int
}

func (s *stubRepo) List(_ context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	s.lastFilter = filter
	return []domain.Product{{ID: "p1"}}, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if id != "p1" {
		return nil, domain.ErrNotFound
	}
	return &domain.Product{ID: "p1"}, nil
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.upserts++
	s.lastUpsert = p
	p.ID = "p1"
	return &p, nil
}

func (s *stubRepo) SetStock(_ context.Context, id string, quantity int) (*domain.Product, error) {
	s.lastStock = quantity
	return &domain.Product{ID: id, StockQuantity: quantity, InStock: quantity > 0}, nil
}

func (s *stubRepo) DecrementStock(context.Context, string, int) (int, error) { return 0, nil }
func (s *stubRepo) IncrementStock(context.Context, string, int) (int, error) { return 0, nil }

type stubUploader struct {
	data []byte
}

func (s *stubUploader) UploadImage(_ context.Context, data []byte) (string, error) {
	s.data = data
	return "https://cdn/x.png", nil
}

func TestListTrimsFilter(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, nil)
	if _, err := svc.List(context.Background(), productrepo.ListFilter{Search: "  vase ", CategoryID: " c1 "}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Search != "vase" || repo.lastFilter.CategoryID != "c1" {
		t.Fatalf("expected trimmed filter, got %+v", repo.lastFilter)
	}
}

func TestUpsertValidation(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, nil)
	ctx := context.Background()

	cases := []domain.Product{
		{Name: "  ", Price: decimal.NewFromInt(1)},
		{Name: "Vase", Price: decimal.NewFromInt(-1)},
		{Name: "Vase", Price: decimal.NewFromInt(1), StockQuantity: -2},
	}
	for _, p := range cases {
		if _, err := svc.Upsert(ctx, p); err == nil {
			t.Fatalf("expected %+v to be rejected", p)
		}
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no writes, got %d", repo.upserts)
	}

	got, err := svc.Upsert(ctx, domain.Product{Name: " Vase ", Price: decimal.NewFromInt(10), StockQuantity: 3})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.ID != "p1" || repo.lastUpsert.Name != "Vase" {
		t.Fatalf("unexpected upsert %+v", repo.lastUpsert)
	}
}

func TestSetStock(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, nil)
	if _, err := svc.SetStock(context.Background(), "p1", -1); err == nil {
		t.Fatalf("expected negative stock rejected")
	}
	got, err := svc.SetStock(context.Background(), "p1", 0)
	if err != nil || got.InStock {
		t.Fatalf("expected out of stock product, got %+v err=%v", got, err)
	}
}

func TestUploadImage(t *testing.T) {
	svc := New(&stubRepo{}, nil, nil)
	if _, err := svc.UploadImage(context.Background(), []byte("x")); !errors.Is(err, ErrUploadsDisabled) {
		t.Fatalf("expected ErrUploadsDisabled, got %v", err)
	}

	up := &stubUploader{}
	svc = New(&stubRepo{}, up, nil)
	url, err := svc.UploadImage(context.Background(), []byte("img"))
	if err != nil || url != "https://cdn/x.png" || string(up.data) != "img" {
		t.Fatalf("unexpected upload result %q err=%v", url, err)
	}
}
