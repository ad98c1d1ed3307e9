package product

import (
	"context"
	"errors"
	"fmt"
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

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("product_repo")}
}

const selectColumns = `
SELECT id::text, name, COALESCE(description, ''), price, COALESCE(image_url, ''), images,
       category_id::text, COALESCE(material, ''), in_stock, stock_quantity, created_at, updated_at
FROM products
`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.Images,
		&p.CategoryID,
		&p.Material,
		&p.InStock,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+strings.ToLower(s)+"%")
		where = append(where, fmt.Sprintf("(lower(name) LIKE $%[1]d OR lower(COALESCE(description, '')) LIKE $%[1]d OR lower(COALESCE(material, '')) LIKE $%[1]d)", len(args)))
	}
	if filter.InStockOnly {
		where = append(where, "stock_quantity > 0")
	}

	q := selectColumns
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list rows failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("list", zap.String("category_id", filter.CategoryID), zap.String("search", filter.Search), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectColumns+"WHERE id = $1", id))
	if err != nil {
		if err = pgerr.NotFound(err); errors.Is(err, domain.ErrNotFound) {
			r.logger.Debug("get not found", zap.String("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, price, image_url, images, category_id, material, in_stock, stock_quantity)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, NULLIF($3, ''), $4, NULLIF($5, ''), COALESCE($6, '{}'::text[]),
        NULLIF($7, '')::uuid, NULLIF($8, ''), $9 > 0, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url,
    images = EXCLUDED.images,
    category_id = EXCLUDED.category_id,
    material = EXCLUDED.material,
    in_stock = EXCLUDED.in_stock,
    stock_quantity = EXCLUDED.stock_quantity,
    updated_at = now()
RETURNING id::text
`
	categoryID := ""
	if product.CategoryID != nil {
		categoryID = *product.CategoryID
	}
	var id string
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
		product.Images,
		categoryID,
		product.Material,
		product.StockQuantity,
	).Scan(&id)
	switch {
	case pgerr.IsInvalidText(err):
		return nil, fmt.Errorf("%w: malformed product or category id", domain.ErrInvalidInput)
	case pgerr.IsForeignKeyViolation(err):
		return nil, fmt.Errorf("%w: unknown category", domain.ErrInvalidInput)
	case err != nil:
		r.logger.Error("upsert failed", zap.String("name", product.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("upserted", zap.String("id", id), zap.String("name", product.Name))
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, errors.New("stock quantity must not be negative")
	}
	const q = `
UPDATE products
SET stock_quantity = $2, in_stock = $2 > 0, updated_at = now()
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id, quantity)
	if pgerr.IsInvalidText(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("set stock failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Info("stock set", zap.String("id", id), zap.Int("quantity", quantity))
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, errors.New("quantity must be positive")
	}
	const q = `
UPDATE products
SET stock_quantity = stock_quantity - $2,
    in_stock = stock_quantity - $2 > 0,
    updated_at = now()
WHERE id = $1 AND stock_quantity >= $2
RETURNING stock_quantity
`
	var remaining int
	err := r.pool.QueryRow(ctx, q, id, quantity).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		var current int
		if err := r.pool.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, id).Scan(&current); err != nil {
			return 0, pgerr.NotFound(err)
		}
		r.logger.Warn("insufficient stock", zap.String("id", id), zap.Int("requested", quantity), zap.Int("available", current))
		return current, fmt.Errorf("product %s: %w (requested %d, available %d)", id, domain.ErrInsufficientStock, quantity, current)
	}
	if pgerr.IsInvalidText(err) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("decrement stock failed", zap.String("id", id), zap.Error(err))
		return 0, err
	}
	r.logger.Debug("stock decremented", zap.String("id", id), zap.Int("by", quantity), zap.Int("remaining", remaining))
	return remaining, nil
}

func (r *postgresRepo) IncrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, errors.New("quantity must be positive")
	}
	const q = `
UPDATE products
SET stock_quantity = stock_quantity + $2, in_stock = TRUE, updated_at = now()
WHERE id = $1
RETURNING stock_quantity
`
	var remaining int
	if err := r.pool.QueryRow(ctx, q, id, quantity).Scan(&remaining); err != nil {
		if err = pgerr.NotFound(err); errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		r.logger.Error("increment stock failed", zap.String("id", id), zap.Error(err))
		return 0, err
	}
	return remaining, nil
}
