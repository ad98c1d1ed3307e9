// Package seed loads demo catalog data and the back-office account.
package seed

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CategoryWriter interface {
	Upsert(ctx context.Context, name string) (*domain.Category, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type AdminEnsurer interface {
	EnsureUser(ctx context.Context, email, password string) (*domain.AdminUser, error)
}

type productSeed struct {
	ID          string
	Category    string
	Name        string
	Description string
	Price       string
	Material    string
	Stock       int
	Images      []string
}

// Fixed ids keep repeated runs idempotent.
var demoProducts = []productSeed{
	{
		ID:          "6f1c7a52-7d43-4a55-9b3e-2f0d8c1e0a01",
		Category:    "Vases",
		Name:        "Blue Glazed Vase",
		Description: "Hand thrown stoneware vase with a cobalt glaze.",
		Price:       "2500.00",
		Material:    "Stoneware",
		Stock:       3,
		Images:      []string{"https://images.example.com/blue-vase-1.jpg", "https://images.example.com/blue-vase-2.jpg"},
	},
	{
		ID:          "6f1c7a52-7d43-4a55-9b3e-2f0d8c1e0a02",
		Category:    "Bowls",
		Name:        "Terracotta Serving Bowl",
		Description: "Wide unglazed bowl for bread and fruit.",
		Price:       "1800.00",
		Material:    "Terracotta",
		Stock:       8,
		Images:      []string{"https://images.example.com/terracotta-bowl.jpg"},
	},
	{
		ID:          "6f1c7a52-7d43-4a55-9b3e-2f0d8c1e0a03",
		Category:    "Mugs",
		Name:        "Speckled Mug",
		Description: "350 ml mug with a speckled oatmeal glaze.",
		Price:       "900.00",
		Material:    "Porcelain",
		Stock:       20,
	},
	{
		ID:          "6f1c7a52-7d43-4a55-9b3e-2f0d8c1e0a04",
		Category:    "Vases",
		Name:        "Raku Bud Vase",
		Description: "Small raku fired vase. Each piece is unique.",
		Price:       "3200.00",
		Material:    "Raku clay",
		Stock:       0,
	},
}

type Seeder struct {
	categories CategoryWriter
	products   ProductWriter
	admins     AdminEnsurer
	logger     *zap.Logger
}

func New(categories CategoryWriter, products ProductWriter, admins AdminEnsurer, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{categories: categories, products: products, admins: admins, logger: logger.Named("seed")}
}

// Apply upserts the demo categories and products and, when a password is
// given, creates the admin account or resets its password.
func (s *Seeder) Apply(ctx context.Context, adminEmail, adminPassword string) error {
	categoryIDs := map[string]string{}
	for _, p := range demoProducts {
		if _, ok := categoryIDs[p.Category]; ok {
			continue
		}
		c, err := s.categories.Upsert(ctx, p.Category)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", p.Category, err)
		}
		categoryIDs[p.Category] = c.ID
	}

	for _, p := range demoProducts {
		categoryID := categoryIDs[p.Category]
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("price of %s: %w", p.Name, err)
		}
		if _, err := s.products.Upsert(ctx, domain.Product{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			Price:         price,
			Images:        p.Images,
			CategoryID:    &categoryID,
			Material:      p.Material,
			StockQuantity: p.Stock,
		}); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	s.logger.Info("catalog seeded", zap.Int("categories", len(categoryIDs)), zap.Int("products", len(demoProducts)))

	if adminPassword == "" {
		s.logger.Warn("ADMIN_PASSWORD not set, admin account left unchanged")
		return nil
	}
	if adminEmail == "" {
		return errors.New("admin email required")
	}
	user, err := s.admins.EnsureUser(ctx, adminEmail, adminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin %s: %w", adminEmail, err)
	}
	s.logger.Info("admin account ready", zap.String("email", user.Email))
	return nil
}
