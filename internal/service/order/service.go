// Package order implements the back-office order lifecycle. Confirming a
// pending order reserves stock for each item; the status change and the stock
// writes either all happen or none do.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

type orderStore interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
}

type stockStore interface {
	DecrementStock(ctx context.Context, id string, quantity int) (int, error)
	IncrementStock(ctx context.Context, id string, quantity int) (int, error)
}

type Service struct {
	orders  orderStore
	stock   stockStore
	logger  *zap.Logger
	timeout time.Duration
}

func New(orders orderStore, stock stockStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, stock: stock, logger: logger.Named("orders"), timeout: 10 * time.Second}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, filter.Status)
	}
	return s.orders.List(ctx, filter)
}

// Transition moves an order to target. Only pending -> confirmed touches
// stock; an order that is already confirmed can never be confirmed again, so
// stock is decremented exactly once per order.
func (s *Service) Transition(ctx context.Context, id string, target domain.OrderStatus) (*domain.Order, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, target)
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("order %s: %s -> %s: %w", id, o.Status, target, domain.ErrInvalidTransition)
	}

	if o.Status == domain.OrderStatusPending && target == domain.OrderStatusConfirmed {
		return s.confirm(ctx, o)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, o.Status, target)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status changed", zap.String("order_id", id), zap.String("from", o.Status.String()), zap.String("to", target.String()))
	return updated, nil
}

type reservation struct {
	productID string
	quantity  int
	name      string
}

func (s *Service) confirm(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	var applied []reservation
	for _, it := range o.Items {
		if it.ProductID == nil {
			// Product was deleted from the catalog; nothing left to reserve.
			continue
		}
		r := reservation{productID: *it.ProductID, quantity: it.Quantity, name: it.ProductName}
		if _, err := s.stock.DecrementStock(ctx, r.productID, r.quantity); err != nil {
			err = fmt.Errorf("reserve %q: %w", r.name, err)
			return nil, errors.Join(err, s.release(ctx, o.ID, applied))
		}
		applied = append(applied, r)
	}

	updated, err := s.orders.UpdateStatus(ctx, o.ID, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	if err != nil {
		return nil, errors.Join(err, s.release(ctx, o.ID, applied))
	}
	s.logger.Info("order confirmed", zap.String("order_id", o.ID), zap.Int("reserved_lines", len(applied)))
	return updated, nil
}

// release undoes reservations in reverse order. It runs detached from ctx so
// a cancelled request still restores stock.
func (s *Service) release(ctx context.Context, orderID string, applied []reservation) error {
	if len(applied) == 0 {
		return nil
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		r := applied[i]
		if _, err := s.stock.IncrementStock(cctx, r.productID, r.quantity); err != nil {
			s.logger.Error("stock release failed",
				zap.String("order_id", orderID),
				zap.String("product_id", r.productID),
				zap.Int("quantity", r.quantity),
				zap.Bool("reconcile", true),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("release %q: %w", r.name, err))
		}
	}
	return errors.Join(errs...)
}
