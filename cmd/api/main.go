package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cartstate"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logger"
	"storefront/internal/migrate"
	"storefront/internal/notify"
	adminrepo "storefront/internal/repository/admin"
	analyticsrepo "storefront/internal/repository/analytics"
	announcementrepo "storefront/internal/repository/announcement"
	carouselrepo "storefront/internal/repository/carousel"
	categoryrepo "storefront/internal/repository/category"
	inquiryrepo "storefront/internal/repository/inquiry"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	adminsvc "storefront/internal/service/admin"
	analyticssvc "storefront/internal/service/analytics"
	announcementsvc "storefront/internal/service/announcement"
	carouselsvc "storefront/internal/service/carousel"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	checkoutsvc "storefront/internal/service/checkout"
	inquirysvc "storefront/internal/service/inquiry"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	sessionsvc "storefront/internal/service/session"
	wishlistsvc "storefront/internal/service/wishlist"
	"storefront/internal/snapshot"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

const (
	janitorInterval    = time.Minute
	tokenPurgeInterval = time.Hour
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("api", nil).Fatal("load config", zap.Error(err))
	}
	log := logger.New("api", &logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stdout"})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	if err := migrate.Apply(ctx, dbpool, log); err != nil {
		log.Fatal("apply migrations", zap.Error(err))
	}

	persister, readiness, closePersister := cartPersister(ctx, cfg, log)
	defer closePersister()
	registry := cartstate.NewRegistry(persister, log.Named("cartstate"))

	productRepo := productrepo.NewPostgres(dbpool, log)
	orderRepo := orderrepo.NewPostgres(dbpool, log)

	var images productsvc.ImageUploader
	if cfg.Storage.Enabled() {
		store, err := storage.NewS3(ctx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("init object storage", zap.Error(err))
		}
		images = store
	} else {
		log.Info("object storage not configured, image uploads disabled")
	}

	cartService := cartsvc.New(registry, productRepo)
	checkoutService := checkoutsvc.New(orderRepo, productRepo, registry, checkoutsvc.Config{
		Pricing: checkoutsvc.Pricing{
			FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
			FlatShippingFee:       cfg.Checkout.FlatShippingFee,
		},
		Currency:         cfg.Checkout.Currency,
		MerchantWhatsApp: cfg.Checkout.MerchantWhatsApp,
		Timeout:          cfg.Checkout.Timeout,
	}, log)

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := notify.DialKafka(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, log)
		if err != nil {
			log.Fatal("connect kafka", zap.Error(err), zap.Strings("brokers", cfg.Kafka.Brokers))
		}
		defer publisher.Close()
		checkoutService.SetNotifier(publisher)
	}

	adminService := adminsvc.New(adminrepo.NewPostgres(dbpool, log), tokenrepo.NewPostgres(dbpool), log)

	srv, err := httpserver.New(cfg.HTTPAddr, log, dbpool, httpserver.Deps{
		Sessions:   sessionsvc.New(),
		Products:   productsvc.New(productRepo, images, log),
		Categories: categorysvc.New(categoryrepo.NewPostgres(dbpool)),
		Cart:       cartService,
		Wishlist: wishlistsvc.New(registry, productRepo, cartService,
			wishlistsvc.WithRemoveOnMove(cfg.WishlistRemoveOnMove),
			wishlistsvc.WithLogger(log),
		),
		Drawer:    registry,
		Checkout:  checkoutService,
		Orders:    ordersvc.New(orderRepo, productRepo, log),
		Inquiries: inquirysvc.New(inquiryrepo.NewPostgres(dbpool, log)),
		Admin:     adminService,

		Carousel:      carouselsvc.New(carouselrepo.NewPostgres(dbpool, log)),
		Announcements: announcementsvc.New(announcementrepo.NewPostgres(dbpool, log)),
		Analytics:     analyticssvc.New(analyticsrepo.NewPostgres(dbpool, log)),
		Readiness:     readiness,
	}, cfg.CORSOrigins)
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	go registry.Run(ctx, janitorInterval, cfg.CartIdleTimeout)
	go purgeTokens(ctx, adminService, log)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := registry.FlushAll(shutdownCtx); err != nil {
		log.Error("flush cart sessions", zap.Error(err))
	}
	log.Info("server stopped")
}

// cartPersister returns Redis when configured and process memory otherwise.
func cartPersister(ctx context.Context, cfg config.Config, log *zap.Logger) (cartstate.Persister, []httpserver.ReadinessCheck, func()) {
	if cfg.Redis.Addr == "" {
		log.Warn("REDIS_ADDR not set, cart sessions are kept in memory only")
		return cartstate.NewMemoryPersister(), nil, func() {}
	}
	r, err := snapshot.Connect(ctx, snapshot.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.SnapshotTTL,
	})
	if err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	return r, []httpserver.ReadinessCheck{{Name: "redis", Ping: r.Ping}}, func() { _ = r.Close() }
}

func purgeTokens(ctx context.Context, svc *adminsvc.Service, log *zap.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpiredTokens(ctx)
			if err != nil {
				log.Warn("purge expired admin tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged expired admin tokens", zap.Int64("count", n))
			}
		}
	}
}
