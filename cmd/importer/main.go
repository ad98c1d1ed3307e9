package main

import (
	"context"
	"flag"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logger"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"

	"go.uber.org/zap"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (id,name,description,price,category,material,stock,image)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New("importer", nil)
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

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, log), categoryrepo.NewPostgres(pool), log)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatal("import failed", zap.Error(err), zap.Int("imported", count))
	}
	log.Info("import complete",
		zap.Int("products", count),
		zap.String("file", filePath),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)),
	)
}
