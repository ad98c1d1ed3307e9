package carousel

import (
	"context"
	"fmt"

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
	return &postgresRepo{pool: pool, logger: logger.Named("carousel_repo")}
}

const slideColumns = `id::text, image_url, COALESCE(caption, ''), show_button, COALESCE(button_url, ''), position, created_at, updated_at`

func scanSlide(row pgx.Row) (*domain.CarouselSlide, error) {
	var s domain.CarouselSlide
	if err := row.Scan(&s.ID, &s.ImageURL, &s.Caption, &s.ShowButton, &s.ButtonURL, &s.Position, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.CarouselSlide, error) {
	return list(ctx, r.pool)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func list(ctx context.Context, q queryer) ([]domain.CarouselSlide, error) {
	rows, err := q.Query(ctx, `SELECT `+slideColumns+` FROM carousel_slides ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CarouselSlide{}
	for rows.Next() {
		s, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// inTx runs fn with carousel writes serialized so positions cannot collide.
func (r *postgresRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE carousel_slides IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Create(ctx context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error) {
	const q = `
INSERT INTO carousel_slides (image_url, caption, show_button, button_url, position)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), (SELECT COUNT(*) FROM carousel_slides))
RETURNING ` + slideColumns
	var out *domain.CarouselSlide
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		out, err = scanSlide(tx.QueryRow(ctx, q, slide.ImageURL, slide.Caption, slide.ShowButton, slide.ButtonURL))
		return err
	})
	if err != nil {
		r.logger.Error("create slide failed", zap.Error(err))
		return nil, err
	}
	r.logger.Info("slide created", zap.String("id", out.ID), zap.Int("position", out.Position))
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, slide domain.CarouselSlide) (*domain.CarouselSlide, error) {
	const q = `
UPDATE carousel_slides
SET image_url = $2, caption = NULLIF($3, ''), show_button = $4, button_url = NULLIF($5, ''), updated_at = now()
WHERE id = $1
RETURNING ` + slideColumns
	out, err := scanSlide(r.pool.QueryRow(ctx, q, slide.ID, slide.ImageURL, slide.Caption, slide.ShowButton, slide.ButtonURL))
	if err != nil {
		return nil, pgerr.NotFound(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var pos int
		if err := tx.QueryRow(ctx, `DELETE FROM carousel_slides WHERE id = $1 RETURNING position`, id).Scan(&pos); err != nil {
			return pgerr.NotFound(err)
		}
		_, err := tx.Exec(ctx, `UPDATE carousel_slides SET position = position - 1 WHERE position > $1`, pos)
		return err
	})
	if err != nil {
		return err
	}
	r.logger.Info("slide deleted", zap.String("id", id))
	return nil
}

func (r *postgresRepo) Reorder(ctx context.Context, ids []string) ([]domain.CarouselSlide, error) {
	var out []domain.CarouselSlide
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		current, err := list(ctx, tx)
		if err != nil {
			return err
		}
		if err := samePermutation(current, ids); err != nil {
			return err
		}
		const q = `
UPDATE carousel_slides c
SET position = o.ord - 1, updated_at = now()
FROM unnest($1::uuid[]) WITH ORDINALITY AS o(id, ord)
WHERE c.id = o.id
`
		if _, err := tx.Exec(ctx, q, ids); err != nil {
			return err
		}
		out, err = list(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("slides reordered", zap.Int("count", len(out)))
	return out, nil
}

func samePermutation(current []domain.CarouselSlide, ids []string) error {
	if len(ids) != len(current) {
		return fmt.Errorf("%w: expected %d slide ids, got %d", domain.ErrInvalidInput, len(current), len(ids))
	}
	known := make(map[string]bool, len(current))
	for _, s := range current {
		known[s.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: unknown or repeated slide id %q", domain.ErrInvalidInput, id)
		}
		delete(known, id)
	}
	return nil
}
