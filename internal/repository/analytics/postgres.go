package analytics

import (
	"context"
	"time"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("analytics_repo")}
}

// Dashboard reads every figure from one snapshot so the totals agree.
func (r *postgresRepo) Dashboard(ctx context.Context, recentSince time.Time, popularLimit int) (*domain.Dashboard, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	d := domain.Dashboard{
		PopularProducts: []domain.ProductInterest{},
		OrdersByStatus:  map[domain.OrderStatus]int{},
		Revenue:         decimal.Zero,
	}

	if err := tx.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE stock_quantity = 0) FROM products`).
		Scan(&d.TotalProducts, &d.OutOfStock); err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE created_at >= $1) FROM inquiries`, recentSince).
		Scan(&d.TotalInquiries, &d.RecentInquiries); err != nil {
		return nil, err
	}

	const popular = `
SELECT p.id::text, p.name, COUNT(*)
FROM inquiries i
JOIN products p ON p.id = i.product_id
GROUP BY p.id, p.name
ORDER BY COUNT(*) DESC, p.name ASC
LIMIT $1
`
	rows, err := tx.Query(ctx, popular, popularLimit)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var pi domain.ProductInterest
		if err := rows.Scan(&pi.ProductID, &pi.Name, &pi.Inquiries); err != nil {
			rows.Close()
			return nil, err
		}
		d.PopularProducts = append(d.PopularProducts, pi)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx, `SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status domain.OrderStatus
			count  int
			amount decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return nil, err
		}
		d.OrdersByStatus[status] = count
		d.TotalOrders += count
		if status != domain.OrderStatusCancelled {
			d.Revenue = d.Revenue.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("dashboard computed", zap.Int("orders", d.TotalOrders), zap.Int("products", d.TotalProducts))
	return &d, nil
}
