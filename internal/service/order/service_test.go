package order

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type stubOrderRepo struct {
	order      *domain.Order
	updateErr  error
	lastFilter domain.OrderFilter
	updates    int
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	clone := *s.order
	return &clone, nil
}

func (s *stubOrderRepo) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	s.lastFilter = filter
	if s.order == nil {
		return nil, nil
	}
	return []domain.Order{*s.order}, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	s.updates++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	if s.order.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	s.order.Status = to
	clone := *s.order
	return &clone, nil
}

type stubStock struct {
	levels      map[string]int
	failRelease bool
	decrements  []string
	increments  []string
}

func (s *stubStock) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	level, ok := s.levels[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if level < qty {
		return level, domain.ErrInsufficientStock
	}
	s.levels[id] = level - qty
	s.decrements = append(s.decrements, id)
	return s.levels[id], nil
}

func (s *stubStock) IncrementStock(_ context.Context, id string, qty int) (int, error) {
	if s.failRelease {
		return 0, errors.New("db down")
	}
	s.levels[id] += qty
	s.increments = append(s.increments, id)
	return s.levels[id], nil
}

func ptr(v string) *string { return &v }

func pendingOrder(items ...domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:            "o1",
		CustomerName:  "Amel",
		CustomerPhone: "+213555000111",
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentBankTransfer,
		TotalAmount:   decimal.RequireFromString("5500"),
		CreatedAt:     time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		Items:         items,
	}
}

func TestConfirmDecrementsStockOnce(t *testing.T) {
	orders := &stubOrderRepo{order: pendingOrder(domain.OrderItem{ProductID: ptr("A"), ProductName: "Vase", Quantity: 3})}
	stock := &stubStock{levels: map[string]int{"A": 10}}
	svc := New(orders, stock, nil)
	ctx := context.Background()

	got, err := svc.Transition(ctx, "o1", domain.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
	if stock.levels["A"] != 7 {
		t.Fatalf("expected stock 7, got %d", stock.levels["A"])
	}

	if _, err := svc.Transition(ctx, "o1", domain.OrderStatusConfirmed); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on re-confirm, got %v", err)
	}
	if stock.levels["A"] != 7 {
		t.Fatalf("re-confirm must not decrement again, got %d", stock.levels["A"])
	}
}

func TestConfirmRollsBackOnInsufficientStock(t *testing.T) {
	orders := &stubOrderRepo{order: pendingOrder(
		domain.OrderItem{ProductID: ptr("A"), ProductName: "Vase", Quantity: 2},
		domain.OrderItem{ProductID: ptr("B"), ProductName: "Bowl", Quantity: 1},
		domain.OrderItem{ProductID: ptr("C"), ProductName: "Mug", Quantity: 5},
	)}
	stock := &stubStock{levels: map[string]int{"A": 4, "B": 1, "C": 2}}
	svc := New(orders, stock, nil)

	_, err := svc.Transition(context.Background(), "o1", domain.OrderStatusConfirmed)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if stock.levels["A"] != 4 || stock.levels["B"] != 1 || stock.levels["C"] != 2 {
		t.Fatalf("expected stock restored, got %v", stock.levels)
	}
	if len(stock.increments) != 2 || stock.increments[0] != "B" || stock.increments[1] != "A" {
		t.Fatalf("expected reverse release order, got %v", stock.increments)
	}
	if orders.updates != 0 || orders.order.Status != domain.OrderStatusPending {
		t.Fatalf("status must not change, updates=%d status=%s", orders.updates, orders.order.Status)
	}
}

func TestConfirmRollsBackWhenStatusWriteFails(t *testing.T) {
	orders := &stubOrderRepo{
		order:     pendingOrder(domain.OrderItem{ProductID: ptr("A"), ProductName: "Vase", Quantity: 3}),
		updateErr: domain.ErrInvalidTransition,
	}
	stock := &stubStock{levels: map[string]int{"A": 10}}
	svc := New(orders, stock, nil)

	if _, err := svc.Transition(context.Background(), "o1", domain.OrderStatusConfirmed); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if stock.levels["A"] != 10 {
		t.Fatalf("expected stock restored after lost status race, got %d", stock.levels["A"])
	}
}

func TestConfirmReportsFailedRelease(t *testing.T) {
	orders := &stubOrderRepo{order: pendingOrder(
		domain.OrderItem{ProductID: ptr("A"), ProductName: "Vase", Quantity: 1},
		domain.OrderItem{ProductID: ptr("missing"), ProductName: "Gone", Quantity: 1},
	)}
	stock := &stubStock{levels: map[string]int{"A": 1}, failRelease: true}
	svc := New(orders, stock, nil)

	_, err := svc.Transition(context.Background(), "o1", domain.OrderStatusConfirmed)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from reservation, got %v", err)
	}
	if err == nil || !bytes.Contains([]byte(err.Error()), []byte(`release "Vase"`)) {
		t.Fatalf("expected release failure reported, got %v", err)
	}
}

func TestConfirmSkipsDeletedProducts(t *testing.T) {
	orders := &stubOrderRepo{order: pendingOrder(
		domain.OrderItem{ProductName: "Deleted", Quantity: 4},
		domain.OrderItem{ProductID: ptr("A"), ProductName: "Vase", Quantity: 1},
	)}
	stock := &stubStock{levels: map[string]int{"A": 1}}
	svc := New(orders, stock, nil)

	if _, err := svc.Transition(context.Background(), "o1", domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if stock.levels["A"] != 0 || len(stock.decrements) != 1 {
		t.Fatalf("unexpected stock writes %v", stock.decrements)
	}
}

func TestOtherTransitionsLeaveStockAlone(t *testing.T) {
	o := pendingOrder(domain.OrderItem{ProductID: ptr("A"), Quantity: 1})
	o.Status = domain.OrderStatusConfirmed
	orders := &stubOrderRepo{order: o}
	stock := &stubStock{levels: map[string]int{"A": 5}}
	svc := New(orders, stock, nil)
	ctx := context.Background()

	for _, target := range []domain.OrderStatus{domain.OrderStatusShipped, domain.OrderStatusDelivered} {
		got, err := svc.Transition(ctx, "o1", target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if got.Status != target {
			t.Fatalf("expected %s, got %s", target, got.Status)
		}
	}
	if len(stock.decrements)+len(stock.increments) != 0 || stock.levels["A"] != 5 {
		t.Fatalf("stock must not change")
	}

	if _, err := svc.Transition(ctx, "o1", domain.OrderStatusCancelled); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("delivered is terminal, got %v", err)
	}
}

func TestTransitionValidation(t *testing.T) {
	svc := New(&stubOrderRepo{order: pendingOrder()}, &stubStock{levels: map[string]int{}}, nil)
	ctx := context.Background()

	if _, err := svc.Transition(ctx, "o1", "lost"); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}
	if _, err := svc.Transition(ctx, "o1", domain.OrderStatusDelivered); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending cannot jump to delivered, got %v", err)
	}
	if _, err := svc.Transition(ctx, "nope", domain.OrderStatusCancelled); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.List(ctx, domain.OrderFilter{Status: "lost"}); err == nil {
		t.Fatalf("expected bad filter status to be rejected")
	}
}

func TestExportCSV(t *testing.T) {
	orders := &stubOrderRepo{order: pendingOrder()}
	orders.order.ID = "5f1c2a9e-0000-4000-8000-000000000001"
	orders.order.CustomerName = "Amel, B"
	svc := New(orders, &stubStock{}, nil)

	var buf bytes.Buffer
	filter := domain.OrderFilter{Status: domain.OrderStatusPending, SortBy: domain.OrderSortTotal}
	if err := svc.ExportCSV(context.Background(), &buf, filter); err != nil {
		t.Fatalf("export: %v", err)
	}
	if orders.lastFilter != filter {
		t.Fatalf("expected filter passed through, got %+v", orders.lastFilter)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d", len(records))
	}
	want := []string{"5f1c2a9e", "2024-03-02", "Amel, B", "", "+213555000111", "pending", "5500.00", "Bank Transfer"}
	for i, v := range want {
		if records[1][i] != v {
			t.Fatalf("column %d: expected %q, got %q", i, v, records[1][i])
		}
	}
}
