package main

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/migrate"
	adminrepo "storefront/internal/repository/admin"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	"storefront/internal/seed"
	adminsvc "storefront/internal/service/admin"

	"go.uber.org/zap"
)

func main() {
	log := logger.New("seed", nil)
	defer func() { _ = log.Sync() }()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, log); err != nil {
		log.Fatal("apply migrations", zap.Error(err))
	}

	admins := adminsvc.New(adminrepo.NewPostgres(pool, log), tokenrepo.NewPostgres(pool), log)
	seeder := seed.New(categoryrepo.NewPostgres(pool), productrepo.NewPostgres(pool, log), admins, log)
	if err := seeder.Apply(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}
}
