package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository/pgerr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("order_repo")}
}

const orderColumns = `
id::text, customer_name, customer_phone, COALESCE(customer_email, ''), COALESCE(customer_address, ''),
COALESCE(special_instructions, ''), payment_method, subtotal, shipping_cost, total_amount, status, created_at, updated_at
`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerEmail,
		&o.CustomerAddress,
		&o.SpecialInstructions,
		&o.PaymentMethod,
		&o.Subtotal,
		&o.ShippingCost,
		&o.TotalAmount,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	created, err := insertOrder(ctx, r.pool, o)
	if err != nil {
		r.logger.Error("create order failed", zap.Error(err))
		return nil, err
	}
	r.logger.Info("order created", zap.String("id", created.ID), zap.String("total", created.TotalAmount.String()))
	return created, nil
}

func (r *postgresRepo) CreateItems(ctx context.Context, orderID string, items []domain.OrderItem) ([]domain.OrderItem, error) {
	out, err := insertItems(ctx, r.pool, orderID, items)
	if err != nil {
		r.logger.Error("create order items failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) CreateWithItems(ctx context.Context, o domain.Order, items []domain.OrderItem) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := insertOrder(ctx, tx, o)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	created.Items, err = insertItems(ctx, tx, created.ID, items)
	if err != nil {
		return nil, fmt.Errorf("insert order items: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order created", zap.String("id", created.ID), zap.Int("items", len(created.Items)), zap.String("total", created.TotalAmount.String()))
	return created, nil
}

func insertOrder(ctx context.Context, q querier, o domain.Order) (*domain.Order, error) {
	status := o.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	payment := o.PaymentMethod
	if payment == "" {
		payment = domain.PaymentCashOnDelivery
	}
	sql := `
INSERT INTO orders (customer_name, customer_phone, customer_email, customer_address, special_instructions,
                    payment_method, subtotal, shipping_cost, total_amount, status)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10)
RETURNING ` + orderColumns
	return scanOrder(q.QueryRow(ctx, sql,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerEmail,
		o.CustomerAddress,
		o.SpecialInstructions,
		payment,
		o.Subtotal,
		o.ShippingCost,
		o.TotalAmount,
		status,
	))
}

func insertItems(ctx context.Context, q querier, orderID string, items []domain.OrderItem) ([]domain.OrderItem, error) {
	if len(items) == 0 {
		return nil, errors.New("order items required")
	}
	const sql = `
INSERT INTO order_items (order_id, product_id, product_name, product_image, quantity, price)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
RETURNING id::text, created_at
`
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		it.OrderID = orderID
		if err := q.QueryRow(ctx, sql, orderID, it.ProductID, it.ProductName, it.ProductImage, it.Quantity, it.UnitPrice).
			Scan(&it.ID, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if pgerr.IsInvalidText(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("delete order failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("order deleted", zap.String("id", id))
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, pgerr.NotFound(err)
	}
	items, err := r.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

var sortColumns = map[domain.OrderSort]string{
	domain.OrderSortDate:     "created_at",
	domain.OrderSortStatus:   "status",
	domain.OrderSortCustomer: "lower(customer_name)",
	domain.OrderSortTotal:    "total_amount",
}

func (r *postgresRepo) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+strings.ToLower(s)+"%")
		where = append(where, fmt.Sprintf(`(lower(customer_name) LIKE $%[1]d OR lower(COALESCE(customer_email, '')) LIKE $%[1]d
 OR customer_phone LIKE $%[1]d OR id::text LIKE $%[1]d)`, len(args)))
	}

	col, ok := sortColumns[filter.SortBy]
	if !ok {
		col = sortColumns[domain.OrderSortDate]
	}
	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}

	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY %s %s, id", col, dir)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("list orders failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var (
		orders []domain.Order
		ids    []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *postgresRepo) itemsFor(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, product_name, COALESCE(product_image, ''), quantity, price, created_at
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY created_at ASC, id
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductImage, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, from, to))
	if errors.Is(err, pgx.ErrNoRows) {
		var current domain.OrderStatus
		if err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current); err != nil {
			return nil, pgerr.NotFound(err)
		}
		return nil, fmt.Errorf("order %s is %s, not %s: %w", id, current, from, domain.ErrInvalidTransition)
	}
	if pgerr.IsInvalidText(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("update status failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	r.logger.Info("order status changed", zap.String("id", id), zap.String("from", from.String()), zap.String("to", to.String()))

	items, err := r.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}
