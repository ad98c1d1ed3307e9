package announcement

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository/pgerr"

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
	return &postgresRepo{pool: pool, logger: logger.Named("announcement_repo")}
}

func (r *postgresRepo) Get(ctx context.Context) (*domain.Announcement, error) {
	var a domain.Announcement
	err := r.pool.QueryRow(ctx, `SELECT text, is_active, updated_at FROM announcement_bar WHERE id = 1`).
		Scan(&a.Text, &a.Active, &a.UpdatedAt)
	if err != nil {
		return nil, pgerr.NotFound(err)
	}
	return &a, nil
}

func (r *postgresRepo) Save(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	const q = `
INSERT INTO announcement_bar (id, text, is_active)
VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, is_active = EXCLUDED.is_active, updated_at = now()
RETURNING text, is_active, updated_at
`
	var out domain.Announcement
	if err := r.pool.QueryRow(ctx, q, a.Text, a.Active).Scan(&out.Text, &out.Active, &out.UpdatedAt); err != nil {
		r.logger.Error("save announcement failed", zap.Error(err))
		return nil, err
	}
	r.logger.Info("announcement saved", zap.Bool("active", out.Active))
	return &out, nil
}
