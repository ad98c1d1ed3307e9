package admin

import (
	"context"
	"errors"
	"strings"

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

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("admin_repo")}
}

func (r *postgresRepo) Upsert(ctx context.Context, u domain.AdminUser) (*domain.AdminUser, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	if u.PasswordHash == "" {
		return nil, errors.New("password hash required")
	}
	const q = `
INSERT INTO admin_users (email, password_hash)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
RETURNING id::text, email, password_hash, created_at
`
	return r.scanAdmin(r.pool.QueryRow(ctx, q, email, u.PasswordHash))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	const q = `
SELECT id::text, email, password_hash, created_at
FROM admin_users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanAdmin(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	const q = `
SELECT id::text, email, password_hash, created_at
FROM admin_users
WHERE id = $1
LIMIT 1
`
	return r.scanAdmin(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanAdmin(row pgx.Row) (*domain.AdminUser, error) {
	var u domain.AdminUser
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err = pgerr.NotFound(err); errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if pgerr.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("scan admin user failed", zap.Error(err))
		return nil, err
	}
	return &u, nil
}
