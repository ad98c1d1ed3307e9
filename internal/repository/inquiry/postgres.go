package inquiry

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository/pgerr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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
	return &postgresRepo{pool: pool, logger: logger.Named("inquiry_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, in domain.Inquiry) (*domain.Inquiry, error) {
	const q = `
WITH ins AS (
    INSERT INTO inquiries (product_id, customer_name, phone)
    VALUES ($1, $2, $3)
    RETURNING id, product_id, customer_name, phone, created_at
)
SELECT ins.id::text, ins.product_id::text, COALESCE(p.name, ''), ins.customer_name, ins.phone, ins.created_at
FROM ins
LEFT JOIN products p ON p.id = ins.product_id
`
	out, err := scanInquiry(r.pool.QueryRow(ctx, q, in.ProductID, in.CustomerName, in.Phone))
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) || pgerr.IsInvalidText(err) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("create inquiry failed", zap.Error(err))
		return nil, err
	}
	r.logger.Info("inquiry created", zap.String("id", out.ID))
	return out, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Inquiry, error) {
	const q = `
SELECT i.id::text, i.product_id::text, COALESCE(p.name, ''), i.customer_name, i.phone, i.created_at
FROM inquiries i
LEFT JOIN products p ON p.id = i.product_id
ORDER BY i.created_at DESC, i.id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Inquiry
	for rows.Next() {
		in, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return pgerr.NotFound(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInquiry(row pgx.Row) (*domain.Inquiry, error) {
	var in domain.Inquiry
	if err := row.Scan(&in.ID, &in.ProductID, &in.ProductName, &in.CustomerName, &in.Phone, &in.CreatedAt); err != nil {
		return nil, err
	}
	return &in, nil
}
